package workflow

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/classconduct/conduct-server/internal/faults"
	"github.com/classconduct/conduct-server/internal/models"
)

func idAt(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func TestAnyWithinWindowBoundaries(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		id   string
		want bool
	}{
		{"just inside", idAt(now.Add(-DedupWindow + time.Millisecond)), true},
		{"fresh", idAt(now), true},
		{"exactly at window edge", idAt(now.Add(-DedupWindow)), false},
		{"well outside", idAt(now.Add(-5 * time.Minute)), false},
		{"future stamp", idAt(now.Add(5 * time.Second)), false},
		{"unparseable id", "legacy-0042", false},
	}
	for _, c := range cases {
		apps := []models.Application{{ID: c.id}}
		if got := AnyWithinWindow(apps, now); got != c.want {
			t.Errorf("%s: AnyWithinWindow = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestVisibleToRouting(t *testing.T) {
	math := models.Teacher{ID: "t2", Subject: "math"}
	homeroom := models.Teacher{ID: "t1", Subject: models.SubjectHomeroom}

	cases := []struct {
		name    string
		subject string
		teacher models.Teacher
		want    bool
	}{
		{"subject match", "math", math, true},
		{"subject mismatch", "english", math, false},
		{"case sensitive", "Math", math, false},
		{"reserved goes to homeroom", models.SubjectRoutine, homeroom, true},
		{"reserved hidden from subject teacher", models.SubjectLife, math, false},
		{"homeroom does not see subject applications", "math", homeroom, false},
		{"non-subject reserved", models.SubjectNonSubject, homeroom, true},
		{"study reserved", models.SubjectStudy, homeroom, true},
	}
	for _, c := range cases {
		app := models.Application{Subject: c.subject}
		if got := VisibleTo(app, c.teacher); got != c.want {
			t.Errorf("%s: VisibleTo = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestApprovalAdjustmentAddWithOverride(t *testing.T) {
	app := models.Application{
		ID: "1", StudentID: "s1", Type: models.ApplicationAdd,
		Score: 5, Reason: "helped classmates", Subject: "math",
	}
	adj, err := approvalAdjustment(app, 8, "t2")
	if err != nil {
		t.Fatal(err)
	}
	if adj.Type != models.EntryAdd || adj.Magnitude != 8 || adj.StudentID != "s1" {
		t.Fatalf("unexpected adjustment %+v", adj)
	}
	if !adj.FromApplication || adj.ApplicationID != "1" || adj.TeacherID != "t2" {
		t.Fatalf("provenance not carried: %+v", adj)
	}
}

func TestApprovalAdjustmentAppeal(t *testing.T) {
	original := 10
	rec := "123"
	app := models.Application{
		ID: "2", StudentID: "s1", Type: models.ApplicationAppeal,
		Score: original, Reason: "was not late", Subject: "math",
		RecordID: &rec, OriginalScore: &original,
	}
	adj, err := approvalAdjustment(app, 0, "t2")
	if err != nil {
		t.Fatal(err)
	}
	if adj.Type != models.EntryAdd || adj.Magnitude != original {
		t.Fatalf("appeal must compensate with an add of the original points, got %+v", adj)
	}
	if !strings.HasPrefix(adj.Reason, "appeal upheld: ") {
		t.Fatalf("appeal reason not marked: %q", adj.Reason)
	}
}

func TestApprovalAdjustmentReport(t *testing.T) {
	target := "s2"
	name := "Student 2"
	app := models.Application{
		ID: "3", StudentID: "s1", Type: models.ApplicationReport,
		Reason: "cheating", Subject: "math",
		ReportedStudentID: &target, ReportedStudentName: &name,
	}

	if _, err := approvalAdjustment(app, 0, "t2"); !faults.IsValidation(err) {
		t.Fatalf("report approval without a score must be rejected, got %v", err)
	}

	adj, err := approvalAdjustment(app, 5, "t2")
	if err != nil {
		t.Fatal(err)
	}
	if adj.StudentID != target {
		t.Fatalf("deduction must land on the reported student, got %q", adj.StudentID)
	}
	if adj.Type != models.EntryDeduct || adj.Magnitude != 5 {
		t.Fatalf("unexpected adjustment %+v", adj)
	}
}

func TestApprovalAdjustmentUnknownType(t *testing.T) {
	app := models.Application{ID: "4", StudentID: "s1", Type: "praise"}
	if _, err := approvalAdjustment(app, 0, "t2"); !faults.IsValidation(err) {
		t.Fatalf("unknown type must fail validation, got %v", err)
	}
}
