package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/classconduct/conduct-server/internal/models"
)

// Directory access. The students/teachers tables are seeded once and only
// the password column is mutable (owner change after re-authentication).

func GetStudentByID(ctx context.Context, database *sql.DB, id string) (*models.Student, error) {
	row := database.QueryRowContext(ctx,
		`SELECT id, name, password, class FROM students WHERE id = $1`, id)
	var s models.Student
	if err := row.Scan(&s.ID, &s.Name, &s.Password, &s.Class); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func GetTeacherByID(ctx context.Context, database *sql.DB, id string) (*models.Teacher, error) {
	row := database.QueryRowContext(ctx,
		`SELECT id, name, password, subject FROM teachers WHERE id = $1`, id)
	var t models.Teacher
	if err := row.Scan(&t.ID, &t.Name, &t.Password, &t.Subject); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func ListStudents(ctx context.Context, database *sql.DB) ([]models.Student, error) {
	rows, err := database.QueryContext(ctx,
		`SELECT id, name, password, class FROM students ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var students []models.Student
	for rows.Next() {
		var s models.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.Password, &s.Class); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// ChangeStudentPassword updates the password only when the old one matches;
// returns false when the student is missing or the old password is wrong.
func ChangeStudentPassword(ctx context.Context, database *sql.DB, id, oldPassword, newPassword string) (bool, error) {
	res, err := database.ExecContext(ctx,
		`UPDATE students SET password = $3 WHERE id = $1 AND password = $2`,
		id, oldPassword, newPassword)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func ChangeTeacherPassword(ctx context.Context, database *sql.DB, id, oldPassword, newPassword string) (bool, error) {
	res, err := database.ExecContext(ctx,
		`UPDATE teachers SET password = $3 WHERE id = $1 AND password = $2`,
		id, oldPassword, newPassword)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
