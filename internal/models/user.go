package models

// Subject values with special routing: applications carrying one of the
// reserved subjects are reviewed by the homeroom teacher, everything else
// goes to the teacher whose subject matches exactly (case-sensitive).
const (
	SubjectHomeroom   = "homeroom"
	SubjectNonSubject = "non-subject"
	SubjectRoutine    = "routine"
	SubjectStudy      = "study"
	SubjectLife       = "life"
)

func IsReservedSubject(subject string) bool {
	switch subject {
	case SubjectNonSubject, SubjectRoutine, SubjectStudy, SubjectLife:
		return true
	}
	return false
}

type Student struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Password string `db:"password"`
	Class    string `db:"class"`
}

type Teacher struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Password string `db:"password"`
	Subject  string `db:"subject"`
}
