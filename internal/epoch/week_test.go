package epoch_test

import (
	"testing"
	"time"

	"github.com/classconduct/conduct-server/internal/epoch"
)

func TestWeekNumber(t *testing.T) {
	cases := []struct {
		date string
		week int
	}{
		{"2005-01-01", 53}, // Saturday, still ISO week 53 of 2004
		{"2005-01-03", 1},  // first Monday of 2005
		{"2024-12-30", 1},  // Monday belonging to ISO 2025
		{"2024-09-08", 36}, // Sunday closes the week
		{"2024-09-09", 37}, // following Monday opens the next one
	}
	for _, c := range cases {
		d, err := time.Parse("2006-01-02", c.date)
		if err != nil {
			t.Fatal(err)
		}
		if got := epoch.WeekNumber(d); got != c.week {
			t.Errorf("WeekNumber(%s) = %d, want %d", c.date, got, c.week)
		}
	}
}

func TestWeekNumberMondayBoundary(t *testing.T) {
	sunday := time.Date(2024, 9, 8, 23, 59, 59, 0, time.UTC)
	monday := time.Date(2024, 9, 9, 0, 0, 0, 0, time.UTC)
	if epoch.WeekNumber(sunday) == epoch.WeekNumber(monday) {
		t.Fatalf("Sunday night and Monday morning must fall in different weeks")
	}
}
