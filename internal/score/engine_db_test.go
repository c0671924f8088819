//go:build testutil
// +build testutil

package score_test

import (
	"context"
	"sync"
	"testing"

	"github.com/classconduct/conduct-server/internal/models"
	"github.com/classconduct/conduct-server/internal/score"
	"github.com/classconduct/conduct-server/internal/testutil/testdb"
)

func TestApply_Parallel(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	engine := score.NewEngine(h.DB)
	ctx := context.Background()

	wg := sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = engine.Apply(ctx, score.Adjustment{
				StudentID: "1", Type: models.EntryAdd, Magnitude: 10,
				Reason: "excellent classwork", Subject: "math", TeacherID: "t2",
			})
		}()
		go func() {
			defer wg.Done()
			_, _ = engine.Apply(ctx, score.Adjustment{
				StudentID: "2", Type: models.EntryAdd, Magnitude: 10,
				Reason: "excellent classwork", Subject: "math", TeacherID: "t2",
			})
		}()
	}
	wg.Wait()

	l1, err := engine.Ledger(ctx, "1")
	if err != nil {
		t.Fatal(err)
	}
	l2, err := engine.Ledger(ctx, "2")
	if err != nil {
		t.Fatal(err)
	}
	want := models.BaseScore + 50*10
	if l1.CurrentScore != want || l2.CurrentScore != want {
		t.Fatalf("expected %d for both students, got %d and %d", want, l1.CurrentScore, l2.CurrentScore)
	}
	if len(l1.Records) != 50 || len(l2.Records) != 50 {
		t.Fatalf("expected 50 entries each, got %d and %d", len(l1.Records), len(l2.Records))
	}
}

func TestSetScorePinsAbsoluteValue(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	engine := score.NewEngine(h.DB)
	ctx := context.Background()

	if _, err := engine.Apply(ctx, score.Adjustment{
		StudentID: "1", Type: models.EntryDeduct, Magnitude: 30,
		Reason: "late arrival", Subject: "math", TeacherID: "t2",
	}); err != nil {
		t.Fatal(err)
	}

	ledger, err := engine.SetScore(ctx, "1", 85, "")
	if err != nil {
		t.Fatal(err)
	}
	if ledger.CurrentScore != 85 {
		t.Fatalf("score pinned to %d, want 85", ledger.CurrentScore)
	}

	// The pin is an audit entry, not a rewrite of history.
	if len(ledger.Records) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(ledger.Records))
	}
	adj := ledger.Records[0]
	if adj.Type != models.EntryAdminAdjust || adj.Signed() != 15 {
		t.Fatalf("unexpected admin entry %+v", adj)
	}
}
