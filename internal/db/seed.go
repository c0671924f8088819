package db

import (
	"context"
	"database/sql"
	"fmt"
)

// SeedDemo fills an empty directory with demo accounts, mirroring the data
// set the system originally shipped with. A non-empty directory is left
// untouched.
func SeedDemo(ctx context.Context, database *sql.DB) error {
	var count int
	if err := database.QueryRowContext(ctx, `SELECT COUNT(*) FROM students`).Scan(&count); err != nil {
		return fmt.Errorf("check students: %w", err)
	}
	if count > 0 {
		return nil
	}

	groups := []string{"Group 2", "Group 5", "Group 5", "Group 5", "Group 3", "Group 1", "Group 6", "Group 4"}
	for i, group := range groups {
		id := fmt.Sprintf("%d", i+1)
		name := fmt.Sprintf("Student %d", i+1)
		if _, err := database.ExecContext(ctx, `
INSERT INTO students (id, name, password, class)
VALUES ($1, $2, '123456', $3)
ON CONFLICT (id) DO NOTHING`, id, name, group); err != nil {
			return fmt.Errorf("insert student %s: %w", id, err)
		}
	}

	teachers := []struct {
		id, name, subject string
	}{
		{"t1", "Homeroom Teacher", "homeroom"},
		{"t2", "Math Teacher", "math"},
		{"t3", "English Teacher", "english"},
		{"t4", "Physics Teacher", "physics"},
	}
	for _, t := range teachers {
		if _, err := database.ExecContext(ctx, `
INSERT INTO teachers (id, name, password, subject)
VALUES ($1, $2, '123456', $3)
ON CONFLICT (id) DO NOTHING`, t.id, t.name, t.subject); err != nil {
			return fmt.Errorf("insert teacher %s: %w", t.id, err)
		}
	}
	return nil
}
