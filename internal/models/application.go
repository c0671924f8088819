package models

import "time"

const (
	ApplicationAdd    = "add"
	ApplicationDeduct = "deduct"
	ApplicationAppeal = "appeal"
	ApplicationReport = "report"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// Application is a pending score-change request awaiting teacher review.
// Resolution is destructive: approve writes an entry and deletes the row,
// reject just deletes it. There is no retained terminal state, so a second
// resolution attempt surfaces as not-found.
//
// ID is the creation time in milliseconds as a string; the de-duplication
// window reads it back as a timestamp.
type Application struct {
	ID          string  `db:"id"`
	StudentID   string  `db:"student_id"`
	StudentName string  `db:"student_name"`
	Type        string  `db:"type"`
	Score       int     `db:"score"`
	Reason      string  `db:"reason"`
	Subject     string  `db:"subject"`
	Evidence    *string `db:"evidence"`

	// Appeal fields: the disputed deduct entry and its magnitude.
	RecordID      *string `db:"record_id"`
	OriginalScore *int    `db:"original_score"`

	// Report fields: who reported whom. StudentID stays the reporter so
	// the de-duplication window rate-limits the reporter, not the target.
	ReportedStudentID   *string `db:"reported_student_id"`
	ReportedStudentName *string `db:"reported_student_name"`

	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}
