package models

import "time"

// Every student starts each week from this score.
const BaseScore = 100

const (
	EntryAdd         = "add"
	EntryDeduct      = "deduct"
	EntryAdminAdjust = "admin_adjust"
)

// Entry is one audit-logged score change. Entries are immutable once
// written and disappear only with the weekly reset sweep.
//
// ID is the creation time in milliseconds rendered as a string. It doubles
// as the ordering key; application-born entries link back to the
// application through ApplicationID.
type Entry struct {
	ID              string    `db:"id"`
	StudentID       string    `db:"student_id"`
	Type            string    `db:"type"`
	Score           int       `db:"score"`
	Reason          string    `db:"reason"`
	Subject         string    `db:"subject"`
	TeacherID       *string   `db:"teacher_id"`
	FromApplication bool      `db:"from_application"`
	ApplicationID   *string   `db:"application_id"`
	CreatedAt       time.Time `db:"created_at"`
}

// Signed returns the entry's contribution to the derived score.
// admin_adjust entries already carry a signed delta.
func (e Entry) Signed() int {
	switch e.Type {
	case EntryDeduct:
		return -e.Score
	default:
		return e.Score
	}
}

// Ledger is the read model for one student: the derived current score and
// the audit entries, newest first. The score is recomputed from entries on
// every read, there is no stored running total to drift.
type Ledger struct {
	CurrentScore int     `json:"currentScore"`
	Records      []Entry `json:"records"`
}

type SystemStatus struct {
	CurrentWeek   int  `json:"currentWeek"`
	LastResetWeek int  `json:"lastResetWeek"`
	NeedReset     bool `json:"needReset"`
}
