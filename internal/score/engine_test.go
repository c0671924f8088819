package score_test

import (
	"context"
	"testing"

	"github.com/classconduct/conduct-server/internal/faults"
	"github.com/classconduct/conduct-server/internal/models"
	"github.com/classconduct/conduct-server/internal/score"
)

func TestDeriveEmptyLedger(t *testing.T) {
	if got := score.Derive(nil); got != models.BaseScore {
		t.Fatalf("empty ledger derived %d, want %d", got, models.BaseScore)
	}
}

func TestDeriveMixedEntries(t *testing.T) {
	entries := []models.Entry{
		{Type: models.EntryAdd, Score: 5},
		{Type: models.EntryDeduct, Score: 12},
		{Type: models.EntryAdd, Score: 3},
	}
	if got := score.Derive(entries); got != 96 {
		t.Fatalf("derived %d, want 96", got)
	}
}

func TestDeriveAdminAdjustSignedDelta(t *testing.T) {
	// admin_adjust entries carry the delta already signed.
	entries := []models.Entry{
		{Type: models.EntryDeduct, Score: 30},
		{Type: models.EntryAdminAdjust, Score: -20},
		{Type: models.EntryAdminAdjust, Score: 10},
	}
	if got := score.Derive(entries); got != 60 {
		t.Fatalf("derived %d, want 60", got)
	}
}

func TestApplyValidation(t *testing.T) {
	// Validation fires before any storage access.
	engine := score.NewEngine(nil)
	ctx := context.Background()

	bad := []score.Adjustment{
		{StudentID: "1", Type: "bonus", Magnitude: 5},
		{StudentID: "1", Type: models.EntryAdd, Magnitude: 0},
		{StudentID: "1", Type: models.EntryAdd, Magnitude: -3},
		{StudentID: "", Type: models.EntryAdd, Magnitude: 5},
	}
	for _, adj := range bad {
		_, err := engine.Apply(ctx, adj)
		if !faults.IsValidation(err) {
			t.Errorf("Apply(%+v) = %v, want validation error", adj, err)
		}
	}
}
