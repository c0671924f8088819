package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/classconduct/conduct-server/internal/models"
)

func InsertEntry(ctx context.Context, database *sql.DB, e models.Entry) error {
	_, err := database.ExecContext(ctx, `
INSERT INTO entries (id, student_id, type, score, reason, subject, teacher_id, from_application, application_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.StudentID, e.Type, e.Score, e.Reason, e.Subject,
		e.TeacherID, e.FromApplication, e.ApplicationID, e.CreatedAt)
	return err
}

// ListEntriesByStudent returns the audit log newest-first; the id is the
// millisecond creation stamp, so it breaks ties within one timestamp.
func ListEntriesByStudent(ctx context.Context, database *sql.DB, studentID string) ([]models.Entry, error) {
	rows, err := database.QueryContext(ctx, `
SELECT id, student_id, type, score, reason, subject, teacher_id, from_application, application_id, created_at
FROM entries WHERE student_id = $1
ORDER BY created_at DESC, id DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []models.Entry
	for rows.Next() {
		var e models.Entry
		if err := rows.Scan(&e.ID, &e.StudentID, &e.Type, &e.Score, &e.Reason, &e.Subject,
			&e.TeacherID, &e.FromApplication, &e.ApplicationID, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func GetEntry(ctx context.Context, database *sql.DB, studentID, entryID string) (*models.Entry, error) {
	row := database.QueryRowContext(ctx, `
SELECT id, student_id, type, score, reason, subject, teacher_id, from_application, application_id, created_at
FROM entries WHERE student_id = $1 AND id = $2`, studentID, entryID)
	var e models.Entry
	if err := row.Scan(&e.ID, &e.StudentID, &e.Type, &e.Score, &e.Reason, &e.Subject,
		&e.TeacherID, &e.FromApplication, &e.ApplicationID, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// ScoreDeltas returns the signed entry sum per student, for students that
// have at least one entry. Students absent from the map sit at the base
// score.
func ScoreDeltas(ctx context.Context, database *sql.DB) (map[string]int, error) {
	rows, err := database.QueryContext(ctx, `
SELECT student_id, COALESCE(SUM(CASE WHEN type = 'deduct' THEN -score ELSE score END), 0)
FROM entries GROUP BY student_id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	deltas := make(map[string]int)
	for rows.Next() {
		var id string
		var sum int
		if err := rows.Scan(&id, &sum); err != nil {
			return nil, err
		}
		deltas[id] = sum
	}
	return deltas, rows.Err()
}

// DeleteEntriesForStudent empties one student's ledger (weekly reset sweep).
func DeleteEntriesForStudent(ctx context.Context, database *sql.DB, studentID string) error {
	_, err := database.ExecContext(ctx, `DELETE FROM entries WHERE student_id = $1`, studentID)
	return err
}
