package models

import (
	"strconv"
	"sync"
	"time"
)

var (
	idMu   sync.Mutex
	lastID int64
)

// NextMillisID mints the millisecond-string id used by entries and
// applications: the creation time, bumped by a millisecond when two
// callers hit the same instant. The id doubles as the timestamp the
// dedup window and the ordering rely on, and stays strictly increasing
// within a process, which keeps it usable as a primary key.
func NextMillisID(t time.Time) string {
	idMu.Lock()
	defer idMu.Unlock()
	ms := t.UnixMilli()
	if ms <= lastID {
		ms = lastID + 1
	}
	lastID = ms
	return strconv.FormatInt(ms, 10)
}

// ParseMillisID reads an id back as a timestamp; ok is false for ids that
// are not millisecond strings.
func ParseMillisID(id string) (time.Time, bool) {
	ms, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}
