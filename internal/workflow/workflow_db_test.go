//go:build testutil
// +build testutil

package workflow

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/classconduct/conduct-server/internal/db"
	"github.com/classconduct/conduct-server/internal/faults"
	"github.com/classconduct/conduct-server/internal/models"
	"github.com/classconduct/conduct-server/internal/score"
	"github.com/classconduct/conduct-server/internal/testutil/testdb"
)

func startWorkflow(t *testing.T) (*Workflow, *score.Engine, *testdb.DBHandle) {
	t.Helper()
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(h.Close)
	engine := score.NewEngine(h.DB)
	return New(h.DB, engine), engine, h
}

func TestSubmitDedupWindow(t *testing.T) {
	wf, _, _ := startWorkflow(t)
	ctx := context.Background()

	base := time.Now().Add(1 * time.Hour)
	cursor := base
	wf.now = func() time.Time { return cursor }

	sub := Submission{
		StudentID: "1", StudentName: "Student 1",
		Type: models.ApplicationAdd, Score: 5,
		Reason: "helped classmates", Subject: "math",
	}

	if _, err := wf.Submit(ctx, sub); err != nil {
		t.Fatal(err)
	}

	// Same student, same subject, inside the window.
	if _, err := wf.Submit(ctx, sub); !faults.IsRateLimited(err) {
		t.Fatalf("second submission inside the window = %v, want rate-limited", err)
	}

	// A different subject and a different student are both unaffected.
	other := sub
	other.Subject = "english"
	if _, err := wf.Submit(ctx, other); err != nil {
		t.Fatalf("different subject blocked: %v", err)
	}
	other = sub
	other.StudentID = "2"
	if _, err := wf.Submit(ctx, other); err != nil {
		t.Fatalf("different student blocked: %v", err)
	}

	// Once the window has passed the same pair goes through again.
	cursor = base.Add(DedupWindow + time.Second)
	if _, err := wf.Submit(ctx, sub); err != nil {
		t.Fatalf("submission after the window blocked: %v", err)
	}
}

func TestResolveApproveThenGone(t *testing.T) {
	wf, _, _ := startWorkflow(t)
	ctx := context.Background()

	cursor := time.Now().Add(2 * time.Hour)
	wf.now = func() time.Time { return cursor }

	app, err := wf.Submit(ctx, Submission{
		StudentID: "3", StudentName: "Student 3",
		Type: models.ApplicationAdd, Score: 5,
		Reason: "helped classmates", Subject: "math",
	})
	if err != nil {
		t.Fatal(err)
	}

	res, err := wf.Resolve(ctx, app.ID, models.ActionApprove, 0, "t2")
	if err != nil {
		t.Fatal(err)
	}
	if res.Ledger == nil || res.Ledger.CurrentScore != models.BaseScore+5 {
		t.Fatalf("unexpected resolution %+v", res)
	}
	entry := res.Ledger.Records[0]
	if !entry.FromApplication || entry.ApplicationID == nil || *entry.ApplicationID != app.ID {
		t.Fatalf("entry not linked to application: %+v", entry)
	}

	// Resolution is destructive; a second attempt finds nothing.
	if _, err := wf.Resolve(ctx, app.ID, models.ActionApprove, 0, "t2"); !faults.IsNotFound(err) {
		t.Fatalf("second resolve = %v, want not-found", err)
	}
}

func TestResolveRejectLeavesLedgerAlone(t *testing.T) {
	wf, engine, _ := startWorkflow(t)
	ctx := context.Background()

	cursor := time.Now().Add(3 * time.Hour)
	wf.now = func() time.Time { return cursor }

	app, err := wf.Submit(ctx, Submission{
		StudentID: "4", StudentName: "Student 4",
		Type: models.ApplicationDeduct, Score: 7,
		Reason: "disrupting class", Subject: "math",
	})
	if err != nil {
		t.Fatal(err)
	}

	res, err := wf.Resolve(ctx, app.ID, models.ActionReject, 0, "t2")
	if err != nil {
		t.Fatal(err)
	}
	if res.Action != models.ActionReject {
		t.Fatalf("action %q", res.Action)
	}

	ledger, err := engine.Ledger(ctx, "4")
	if err != nil {
		t.Fatal(err)
	}
	if ledger.CurrentScore != models.BaseScore || len(ledger.Records) != 0 {
		t.Fatalf("rejection touched the ledger: %+v", ledger)
	}

	apps, err := wf.ListByStudent(ctx, "4")
	if err != nil {
		t.Fatal(err)
	}
	if len(apps) != 0 {
		t.Fatalf("rejected application still listed: %+v", apps)
	}
}

func TestAppealRestoresDeductedPoints(t *testing.T) {
	wf, engine, h := startWorkflow(t)
	ctx := context.Background()

	if err := db.SeedDemo(ctx, h.DB); err != nil {
		t.Fatal(err)
	}

	ledger, err := engine.Apply(ctx, score.Adjustment{
		StudentID: "5", Type: models.EntryDeduct, Magnitude: 10,
		Reason: "late arrival", Subject: "math", TeacherID: "t2",
	})
	if err != nil {
		t.Fatal(err)
	}
	if ledger.CurrentScore != models.BaseScore-10 {
		t.Fatalf("deduction not applied: %d", ledger.CurrentScore)
	}
	recordID := ledger.Records[0].ID

	cursor := time.Now().Add(4 * time.Hour)
	wf.now = func() time.Time { return cursor }

	app, err := wf.SubmitAppeal(ctx, Appeal{
		StudentID: "5", StudentName: "Student 5",
		RecordID: recordID, Reason: "was excused",
	})
	if err != nil {
		t.Fatal(err)
	}
	if app.Subject != "math" {
		t.Fatalf("appeal did not inherit the entry subject: %q", app.Subject)
	}

	// Routed to the subject teacher who could have written the deduction.
	math := models.Teacher{ID: "t2", Subject: "math"}
	pending, err := wf.PendingFor(ctx, math)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].ID != app.ID {
		t.Fatalf("appeal not visible to the math teacher: %+v", pending)
	}

	res, err := wf.Resolve(ctx, app.ID, models.ActionApprove, 0, "t2")
	if err != nil {
		t.Fatal(err)
	}
	if res.Ledger.CurrentScore != models.BaseScore {
		t.Fatalf("score after upheld appeal = %d, want %d", res.Ledger.CurrentScore, models.BaseScore)
	}
	if !strings.HasPrefix(res.Ledger.Records[0].Reason, "appeal upheld: ") {
		t.Fatalf("compensating entry reason %q", res.Ledger.Records[0].Reason)
	}
}

func TestReportDeductsFromReportedStudent(t *testing.T) {
	wf, engine, h := startWorkflow(t)
	ctx := context.Background()

	if err := db.SeedDemo(ctx, h.DB); err != nil {
		t.Fatal(err)
	}

	cursor := time.Now().Add(5 * time.Hour)
	wf.now = func() time.Time { return cursor }

	app, err := wf.SubmitReport(ctx, Report{
		ReporterID: "6", ReporterName: "Student 6",
		ReportedStudentID: "7", Reason: "cheating on homework",
		Subject: models.SubjectNonSubject,
	})
	if err != nil {
		t.Fatal(err)
	}

	// Reserved subject: the homeroom teacher reviews it, no one else.
	homeroom := models.Teacher{ID: "t1", Subject: models.SubjectHomeroom}
	math := models.Teacher{ID: "t2", Subject: "math"}
	if pending, _ := wf.PendingFor(ctx, homeroom); len(pending) != 1 {
		t.Fatalf("report not routed to homeroom: %+v", pending)
	}
	if pending, _ := wf.PendingFor(ctx, math); len(pending) != 0 {
		t.Fatalf("report leaked to a subject teacher: %+v", pending)
	}

	// Approval without a score is refused, reports carry no delta.
	if _, err := wf.Resolve(ctx, app.ID, models.ActionApprove, 0, "t1"); !faults.IsValidation(err) {
		t.Fatalf("scoreless report approval = %v, want validation error", err)
	}

	res, err := wf.Resolve(ctx, app.ID, models.ActionApprove, 5, "t1")
	if err != nil {
		t.Fatal(err)
	}
	if res.StudentID != "7" {
		t.Fatalf("deduction landed on %q, want the reported student", res.StudentID)
	}

	target, err := engine.Ledger(ctx, "7")
	if err != nil {
		t.Fatal(err)
	}
	if target.CurrentScore != models.BaseScore-5 {
		t.Fatalf("reported student score %d, want %d", target.CurrentScore, models.BaseScore-5)
	}
	reporter, err := engine.Ledger(ctx, "6")
	if err != nil {
		t.Fatal(err)
	}
	if reporter.CurrentScore != models.BaseScore {
		t.Fatalf("reporter score changed: %d", reporter.CurrentScore)
	}
}

func TestSubmitAppealUnknownRecord(t *testing.T) {
	wf, _, _ := startWorkflow(t)
	ctx := context.Background()

	_, err := wf.SubmitAppeal(ctx, Appeal{
		StudentID: "1", StudentName: "Student 1",
		RecordID: "999999999999", Reason: "never happened",
	})
	if !faults.IsNotFound(err) {
		t.Fatalf("appeal against missing record = %v, want not-found", err)
	}
}
