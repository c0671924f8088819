package score

import "sync"

// StudentLimiter serializes ledger writes per student so concurrent
// adjustments for the same student cannot interleave, without blocking
// unrelated students.
type StudentLimiter struct {
	mu   sync.Mutex
	byID map[string]*sync.Mutex
}

func NewStudentLimiter() *StudentLimiter {
	return &StudentLimiter{byID: make(map[string]*sync.Mutex)}
}

func (l *StudentLimiter) lock(studentID string) func() {
	l.mu.Lock()
	m, ok := l.byID[studentID]
	if !ok {
		m = &sync.Mutex{}
		l.byID[studentID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return func() { m.Unlock() }
}
