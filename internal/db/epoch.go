package db

import (
	"context"
	"database/sql"
)

func GetLastResetWeek(ctx context.Context, database *sql.DB) (int, error) {
	var week int
	err := database.QueryRowContext(ctx,
		`SELECT last_reset_week FROM epoch_marker WHERE singleton`).Scan(&week)
	return week, err
}

func SetLastResetWeek(ctx context.Context, database *sql.DB, week int) error {
	_, err := database.ExecContext(ctx,
		`UPDATE epoch_marker SET last_reset_week = $1 WHERE singleton`, week)
	return err
}
