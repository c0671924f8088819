// Package score is the adjustment engine: it appends immutable audit
// entries to student ledgers and derives the current score from them.
package score

import (
	"context"
	"database/sql"
	"time"

	"github.com/classconduct/conduct-server/internal/db"
	"github.com/classconduct/conduct-server/internal/faults"
	"github.com/classconduct/conduct-server/internal/metrics"
	"github.com/classconduct/conduct-server/internal/models"
)

type Engine struct {
	database *sql.DB
	limiter  *StudentLimiter
	now      func() time.Time
}

func NewEngine(database *sql.DB) *Engine {
	return &Engine{
		database: database,
		limiter:  NewStudentLimiter(),
		now:      time.Now,
	}
}

// Adjustment describes one add/deduct against a student. Magnitude must be
// positive; the sign comes from Type. The student id is deliberately not
// checked against the directory: an adjustment for an unknown id just
// creates an orphan ledger, as the system always allowed.
type Adjustment struct {
	StudentID       string
	Type            string // add|deduct
	Magnitude       int
	Reason          string
	Subject         string
	TeacherID       string
	FromApplication bool
	ApplicationID   string
}

// Apply appends an entry and returns the updated ledger. Writes for one
// student are serialized through the keyed limiter; a single INSERT keeps
// readers from ever seeing partial state.
func (e *Engine) Apply(ctx context.Context, adj Adjustment) (*models.Ledger, error) {
	if adj.Type != models.EntryAdd && adj.Type != models.EntryDeduct {
		return nil, faults.Validationf("unknown adjustment type %q", adj.Type)
	}
	if adj.Magnitude <= 0 {
		return nil, faults.Validationf("magnitude must be positive")
	}
	if adj.StudentID == "" {
		return nil, faults.Validationf("student id is required")
	}

	unlock := e.limiter.lock(adj.StudentID)
	defer unlock()

	now := e.now()
	entry := models.Entry{
		ID:              models.NextMillisID(now),
		StudentID:       adj.StudentID,
		Type:            adj.Type,
		Score:           adj.Magnitude,
		Reason:          adj.Reason,
		Subject:         adj.Subject,
		FromApplication: adj.FromApplication,
		CreatedAt:       now,
	}
	if adj.TeacherID != "" {
		entry.TeacherID = &adj.TeacherID
	}
	if adj.ApplicationID != "" {
		entry.ApplicationID = &adj.ApplicationID
	}

	if err := db.InsertEntry(ctx, e.database, entry); err != nil {
		return nil, faults.Storage("insert entry", err)
	}
	metrics.AdjustmentsApplied.WithLabelValues(adj.Type).Inc()

	return e.ledgerLocked(ctx, adj.StudentID)
}

// SetScore is the admin path: it pins the current score to an absolute
// value by writing an admin_adjust entry carrying the signed delta.
func (e *Engine) SetScore(ctx context.Context, studentID string, newScore int, reason string) (*models.Ledger, error) {
	if studentID == "" {
		return nil, faults.Validationf("student id is required")
	}
	if reason == "" {
		reason = "manual admin adjustment"
	}

	unlock := e.limiter.lock(studentID)
	defer unlock()

	current, err := e.ledgerLocked(ctx, studentID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	entry := models.Entry{
		ID:        models.NextMillisID(now),
		StudentID: studentID,
		Type:      models.EntryAdminAdjust,
		Score:     newScore - current.CurrentScore,
		Reason:    reason,
		CreatedAt: now,
	}
	if err := db.InsertEntry(ctx, e.database, entry); err != nil {
		return nil, faults.Storage("insert admin entry", err)
	}
	metrics.AdjustmentsApplied.WithLabelValues(models.EntryAdminAdjust).Inc()

	return e.ledgerLocked(ctx, studentID)
}

// Ledger reads a student's entries and derives the current score. A
// student with no entries sits at the base score.
func (e *Engine) Ledger(ctx context.Context, studentID string) (*models.Ledger, error) {
	unlock := e.limiter.lock(studentID)
	defer unlock()
	return e.ledgerLocked(ctx, studentID)
}

func (e *Engine) ledgerLocked(ctx context.Context, studentID string) (*models.Ledger, error) {
	entries, err := db.ListEntriesByStudent(ctx, e.database, studentID)
	if err != nil {
		return nil, faults.Storage("list entries", err)
	}
	return &models.Ledger{
		CurrentScore: Derive(entries),
		Records:      entries,
	}, nil
}

// Entry fetches one audit entry of a student (appeal lookups).
func (e *Engine) Entry(ctx context.Context, studentID, entryID string) (*models.Entry, error) {
	entry, err := db.GetEntry(ctx, e.database, studentID, entryID)
	if err != nil {
		return nil, faults.Storage("get entry", err)
	}
	return entry, nil
}

// Derive computes the current score from the audit log: base score plus
// the signed sum of all entries since the last reset.
func Derive(entries []models.Entry) int {
	total := models.BaseScore
	for _, e := range entries {
		total += e.Signed()
	}
	return total
}
