package export_test

import (
	"testing"

	"github.com/classconduct/conduct-server/internal/export"
)

func TestBuildScoresWorkbook(t *testing.T) {
	rows := []export.ScoreRow{
		{StudentID: "1", Name: "Student 1", Class: "Group 2", CurrentScore: 97, WeekAdded: 2, WeekDeducted: 5},
		{StudentID: "2", Name: "Student 2", Class: "Group 5", CurrentScore: 100},
	}
	f, err := export.BuildScoresWorkbook(36, rows)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	sheet := "Week 36"
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		t.Fatalf("sheet %q missing (idx %d, err %v)", sheet, idx, err)
	}

	checks := map[string]string{
		"A1": "Student ID",
		"D1": "Current Score",
		"B2": "Student 1",
		"D2": "97",
		"F2": "5",
		"D3": "100",
	}
	for cell, want := range checks {
		got, err := f.GetCellValue(sheet, cell)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}
}

func TestScoresFilename(t *testing.T) {
	if got := export.ScoresFilename(7); got != "conduct_scores_week_7.xlsx" {
		t.Fatalf("filename %q", got)
	}
}
