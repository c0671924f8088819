// Package epoch gates ledger state by calendar time: once the ISO week
// number moves on, every student's ledger is swept back to the base score.
package epoch

import (
	"context"
	"database/sql"
	"time"

	"github.com/classconduct/conduct-server/internal/db"
	"github.com/classconduct/conduct-server/internal/faults"
	"github.com/classconduct/conduct-server/internal/metrics"
	"github.com/classconduct/conduct-server/internal/models"
	"go.uber.org/zap"
)

type Resetter struct {
	database *sql.DB
	log      *zap.SugaredLogger
	now      func() time.Time

	// Optional hook, fired after a sweep completes.
	onReset func(week int)
}

func NewResetter(database *sql.DB, log *zap.SugaredLogger) *Resetter {
	return &Resetter{database: database, log: log, now: time.Now}
}

func (r *Resetter) OnReset(fn func(week int)) { r.onReset = fn }

// Status reports the current week against the persisted marker.
func (r *Resetter) Status(ctx context.Context) (*models.SystemStatus, error) {
	last, err := db.GetLastResetWeek(ctx, r.database)
	if err != nil {
		return nil, faults.Storage("read epoch marker", err)
	}
	current := WeekNumber(r.now())
	return &models.SystemStatus{
		CurrentWeek:   current,
		LastResetWeek: last,
		NeedReset:     current != last,
	}, nil
}

// RunIfDue sweeps all ledgers when the week number differs from the
// marker; in the same week it is a no-op. Safe to call from process
// start, status checks and the recheck job alike.
func (r *Resetter) RunIfDue(ctx context.Context) (bool, error) {
	status, err := r.Status(ctx)
	if err != nil {
		return false, err
	}
	if !status.NeedReset {
		return false, nil
	}
	r.log.Infow("new week detected, resetting ledgers",
		"week", status.CurrentWeek, "lastResetWeek", status.LastResetWeek)
	if err := r.sweep(ctx, status.CurrentWeek); err != nil {
		return false, err
	}
	return true, nil
}

// Force sweeps unconditionally (admin action) and stamps the marker with
// the current week even off-cycle, which also re-arms the weekly gate.
func (r *Resetter) Force(ctx context.Context) error {
	return r.sweep(ctx, WeekNumber(r.now()))
}

// sweep empties every student's ledger, then stamps the marker. The sweep
// is not transactional across students; a crash mid-way leaves the marker
// unstamped and the next invocation redoes the whole sweep, which is
// harmless because resetting an already-reset ledger changes nothing.
func (r *Resetter) sweep(ctx context.Context, week int) error {
	students, err := db.ListStudents(ctx, r.database)
	if err != nil {
		return faults.Storage("list students", err)
	}
	for _, s := range students {
		if err := db.DeleteEntriesForStudent(ctx, r.database, s.ID); err != nil {
			return faults.Storage("reset ledger "+s.ID, err)
		}
	}
	if err := db.SetLastResetWeek(ctx, r.database, week); err != nil {
		return faults.Storage("stamp epoch marker", err)
	}
	metrics.WeeklyResets.Inc()
	r.log.Infow("ledger reset complete", "week", week, "students", len(students))

	if r.onReset != nil {
		r.onReset(week)
	}
	return nil
}
