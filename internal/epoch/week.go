package epoch

import "time"

// WeekNumber is the canonical week definition for the whole service:
// ISO-8601 (Thursday-anchored) week numbering. The system historically
// mixed this with a plain day-count division; every call path now goes
// through this one function.
func WeekNumber(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}
