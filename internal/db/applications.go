package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/classconduct/conduct-server/internal/models"
)

const applicationColumns = `id, student_id, student_name, type, score, reason, subject, evidence,
record_id, original_score, reported_student_id, reported_student_name, status, created_at`

func scanApplication(row interface{ Scan(...any) error }) (*models.Application, error) {
	var a models.Application
	err := row.Scan(&a.ID, &a.StudentID, &a.StudentName, &a.Type, &a.Score, &a.Reason, &a.Subject,
		&a.Evidence, &a.RecordID, &a.OriginalScore, &a.ReportedStudentID, &a.ReportedStudentName,
		&a.Status, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func InsertApplication(ctx context.Context, database *sql.DB, a models.Application) error {
	_, err := database.ExecContext(ctx, `
INSERT INTO applications (`+applicationColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		a.ID, a.StudentID, a.StudentName, a.Type, a.Score, a.Reason, a.Subject, a.Evidence,
		a.RecordID, a.OriginalScore, a.ReportedStudentID, a.ReportedStudentName,
		a.Status, a.CreatedAt)
	return err
}

func GetApplication(ctx context.Context, database *sql.DB, id string) (*models.Application, error) {
	row := database.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	a, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

// DeleteApplication removes the record and reports whether it still
// existed; a second delete of the same id returns false.
func DeleteApplication(ctx context.Context, database *sql.DB, id string) (bool, error) {
	res, err := database.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func listApplications(ctx context.Context, database *sql.DB, query string, args ...any) ([]models.Application, error) {
	rows, err := database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var apps []models.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

func ListPendingApplications(ctx context.Context, database *sql.DB) ([]models.Application, error) {
	return listApplications(ctx, database,
		`SELECT `+applicationColumns+` FROM applications WHERE status = 'pending' ORDER BY created_at DESC, id DESC`)
}

func ListApplicationsByStudent(ctx context.Context, database *sql.DB, studentID string) ([]models.Application, error) {
	return listApplications(ctx, database,
		`SELECT `+applicationColumns+` FROM applications WHERE student_id = $1 ORDER BY created_at DESC, id DESC`,
		studentID)
}

// ListPendingByStudentSubject feeds the de-duplication window; the window
// itself is evaluated on the millisecond ids by the workflow.
func ListPendingByStudentSubject(ctx context.Context, database *sql.DB, studentID, subject string) ([]models.Application, error) {
	return listApplications(ctx, database,
		`SELECT `+applicationColumns+` FROM applications WHERE status = 'pending' AND student_id = $1 AND subject = $2`,
		studentID, subject)
}
