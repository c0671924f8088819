// Package workflow owns the application lifecycle: submission with the
// per-(student,subject) de-duplication window, routing to reviewers and
// destructive approve/reject resolution.
package workflow

import (
	"context"
	"database/sql"
	"time"

	"github.com/classconduct/conduct-server/internal/db"
	"github.com/classconduct/conduct-server/internal/faults"
	"github.com/classconduct/conduct-server/internal/metrics"
	"github.com/classconduct/conduct-server/internal/models"
	"github.com/classconduct/conduct-server/internal/score"
)

// DedupWindow is the sliding rate-limit window per (student, subject).
const DedupWindow = 60 * time.Second

type Workflow struct {
	database *sql.DB
	engine   *score.Engine
	now      func() time.Time

	// Optional hook, fired after an application is accepted.
	onSubmitted func(models.Application)
}

func New(database *sql.DB, engine *score.Engine) *Workflow {
	return &Workflow{database: database, engine: engine, now: time.Now}
}

// OnSubmitted registers a post-acceptance hook (notifier wiring).
func (w *Workflow) OnSubmitted(fn func(models.Application)) { w.onSubmitted = fn }

type Submission struct {
	StudentID   string
	StudentName string
	Type        string // add|deduct
	Score       int
	Reason      string
	Subject     string
	Evidence    string
}

// Submit creates a pending add/deduct application unless the student
// already has a pending one for the same subject inside the dedup window.
func (w *Workflow) Submit(ctx context.Context, s Submission) (*models.Application, error) {
	if s.Type != models.ApplicationAdd && s.Type != models.ApplicationDeduct {
		return nil, faults.Validationf("unknown application type %q", s.Type)
	}
	if s.StudentID == "" || s.Reason == "" || s.Subject == "" {
		return nil, faults.Validationf("student, reason and subject are required")
	}
	if s.Score <= 0 {
		return nil, faults.Validationf("score must be positive")
	}

	app := models.Application{
		StudentID:   s.StudentID,
		StudentName: s.StudentName,
		Type:        s.Type,
		Score:       s.Score,
		Reason:      s.Reason,
		Subject:     s.Subject,
	}
	if s.Evidence != "" {
		app.Evidence = &s.Evidence
	}
	return w.accept(ctx, app, s.StudentID, s.Subject)
}

type Appeal struct {
	StudentID   string
	StudentName string
	RecordID    string
	Reason      string
	Evidence    string
}

// SubmitAppeal disputes an existing deduct entry. The appeal inherits the
// entry's subject, so it is routed to the teacher who could have written
// the deduction, and the dedup window applies on that subject.
func (w *Workflow) SubmitAppeal(ctx context.Context, a Appeal) (*models.Application, error) {
	if a.StudentID == "" || a.RecordID == "" || a.Reason == "" {
		return nil, faults.Validationf("student, record and reason are required")
	}

	entry, err := w.engine.Entry(ctx, a.StudentID, a.RecordID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, faults.NotFoundf("deduction record %s", a.RecordID)
	}
	if entry.Type != models.EntryDeduct {
		return nil, faults.Validationf("only deduct records can be appealed")
	}

	original := entry.Score
	app := models.Application{
		StudentID:     a.StudentID,
		StudentName:   a.StudentName,
		Type:          models.ApplicationAppeal,
		Score:         original,
		Reason:        a.Reason,
		Subject:       entry.Subject,
		RecordID:      &a.RecordID,
		OriginalScore: &original,
	}
	if a.Evidence != "" {
		app.Evidence = &a.Evidence
	}
	return w.accept(ctx, app, a.StudentID, entry.Subject)
}

type Report struct {
	ReporterID        string
	ReporterName      string
	ReportedStudentID string
	Reason            string
	Subject           string
	Evidence          string
}

// SubmitReport files a report against another student. The dedup window
// keys on the reporter, exactly like the other submission kinds, so it
// does not shield the reported student from repeated reports.
func (w *Workflow) SubmitReport(ctx context.Context, r Report) (*models.Application, error) {
	if r.ReporterID == "" || r.ReportedStudentID == "" || r.Reason == "" || r.Subject == "" {
		return nil, faults.Validationf("reporter, target, reason and subject are required")
	}

	reported, err := db.GetStudentByID(ctx, w.database, r.ReportedStudentID)
	if err != nil {
		return nil, faults.Storage("lookup reported student", err)
	}
	if reported == nil {
		return nil, faults.NotFoundf("reported student %s", r.ReportedStudentID)
	}

	app := models.Application{
		StudentID:           r.ReporterID,
		StudentName:         r.ReporterName,
		Type:                models.ApplicationReport,
		Reason:              r.Reason,
		Subject:             r.Subject,
		ReportedStudentID:   &reported.ID,
		ReportedStudentName: &reported.Name,
	}
	if r.Evidence != "" {
		app.Evidence = &r.Evidence
	}
	return w.accept(ctx, app, r.ReporterID, r.Subject)
}

func (w *Workflow) accept(ctx context.Context, app models.Application, studentID, subject string) (*models.Application, error) {
	pending, err := db.ListPendingByStudentSubject(ctx, w.database, studentID, subject)
	if err != nil {
		return nil, faults.Storage("scan pending applications", err)
	}
	now := w.now()
	if AnyWithinWindow(pending, now) {
		metrics.ApplicationsRateLimited.Inc()
		return nil, faults.RateLimitedf("an application for this subject was submitted less than a minute ago")
	}

	app.ID = models.NextMillisID(now)
	app.Status = "pending"
	app.CreatedAt = now
	if err := db.InsertApplication(ctx, w.database, app); err != nil {
		return nil, faults.Storage("insert application", err)
	}
	metrics.ApplicationsSubmitted.WithLabelValues(app.Type).Inc()

	if w.onSubmitted != nil {
		w.onSubmitted(app)
	}
	return &app, nil
}

// AnyWithinWindow reports whether any application's id-timestamp lies
// inside the dedup window ending at now. Ids that do not parse as
// millisecond stamps are ignored, like unreadable records always were.
func AnyWithinWindow(apps []models.Application, now time.Time) bool {
	for _, a := range apps {
		created, ok := models.ParseMillisID(a.ID)
		if !ok {
			continue
		}
		if age := now.Sub(created); age >= 0 && age < DedupWindow {
			return true
		}
	}
	return false
}

// VisibleTo implements the routing rule: reserved subjects go to the
// homeroom teacher only, anything else requires an exact, case-sensitive
// subject match. No normalization.
func VisibleTo(app models.Application, teacher models.Teacher) bool {
	if models.IsReservedSubject(app.Subject) {
		return teacher.Subject == models.SubjectHomeroom
	}
	return teacher.Subject == app.Subject
}

// PendingFor lists the pending applications routed to one teacher.
func (w *Workflow) PendingFor(ctx context.Context, teacher models.Teacher) ([]models.Application, error) {
	all, err := db.ListPendingApplications(ctx, w.database)
	if err != nil {
		return nil, faults.Storage("list pending applications", err)
	}
	visible := make([]models.Application, 0, len(all))
	for _, a := range all {
		if VisibleTo(a, teacher) {
			visible = append(visible, a)
		}
	}
	return visible, nil
}

// PendingAll is the admin moderation view.
func (w *Workflow) PendingAll(ctx context.Context) ([]models.Application, error) {
	apps, err := db.ListPendingApplications(ctx, w.database)
	if err != nil {
		return nil, faults.Storage("list pending applications", err)
	}
	return apps, nil
}

// ListByStudent returns a student's own applications, newest first.
func (w *Workflow) ListByStudent(ctx context.Context, studentID string) ([]models.Application, error) {
	apps, err := db.ListApplicationsByStudent(ctx, w.database, studentID)
	if err != nil {
		return nil, faults.Storage("list applications", err)
	}
	return apps, nil
}

// Discard deletes a pending application without side effects (admin
// moderation). Deleting an absent id is a not-found condition.
func (w *Workflow) Discard(ctx context.Context, id string) error {
	existed, err := db.DeleteApplication(ctx, w.database, id)
	if err != nil {
		return faults.Storage("delete application", err)
	}
	if !existed {
		return faults.NotFoundf("application %s", id)
	}
	return nil
}
