package server

import (
	"net/http"

	"github.com/classconduct/conduct-server/internal/ctxutil"
	"github.com/classconduct/conduct-server/internal/db"
	"github.com/classconduct/conduct-server/internal/faults"
	"github.com/classconduct/conduct-server/internal/models"
)

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		s.writeFault(w, "admin login", err)
		return
	}
	if req.Username != s.cfg.AdminUser || req.Password != s.cfg.AdminPass {
		writeRejected(w, "wrong admin credentials")
		return
	}
	writeMessage(w, "ok")
}

func (s *Server) handleAdminStudents(w http.ResponseWriter, r *http.Request) {
	students, err := db.ListStudents(r.Context(), s.database)
	if err != nil {
		s.writeFault(w, "admin students", err)
		return
	}
	deltas, err := db.ScoreDeltas(r.Context(), s.database)
	if err != nil {
		s.writeFault(w, "admin students", err)
		return
	}

	type adminStudent struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Class        string `json:"class"`
		CurrentScore int    `json:"currentScore"`
	}
	out := make([]adminStudent, 0, len(students))
	for _, st := range students {
		out = append(out, adminStudent{
			ID:           st.ID,
			Name:         st.Name,
			Class:        st.Class,
			CurrentScore: models.BaseScore + deltas[st.ID],
		})
	}
	writeData(w, out)
}

// handleAdminAdjust pins a student's score to an absolute value, recorded
// as an admin_adjust entry carrying the signed delta.
func (s *Server) handleAdminAdjust(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StudentID string `json:"studentId"`
		NewScore  *int   `json:"newScore"`
		Reason    string `json:"reason"`
	}
	if err := readJSON(r, &req); err != nil {
		s.writeFault(w, "admin adjust", err)
		return
	}
	if req.StudentID == "" || req.NewScore == nil {
		writeRejected(w, "studentId and newScore are required")
		return
	}
	ledger, err := s.engine.SetScore(r.Context(), req.StudentID, *req.NewScore, req.Reason)
	if err != nil {
		s.writeFault(w, "admin adjust", err)
		return
	}
	writeData(w, ledger)
}

func (s *Server) handleAdminPending(w http.ResponseWriter, r *http.Request) {
	apps, err := s.wf.PendingAll(r.Context())
	if err != nil {
		s.writeFault(w, "admin pending", err)
		return
	}
	writeData(w, apps)
}

func (s *Server) handleAdminDeleteApplication(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeRejected(w, "application id is required")
		return
	}
	if err := s.wf.Discard(r.Context(), id); err != nil {
		if faults.IsNotFound(err) {
			writeRejected(w, "application does not exist")
			return
		}
		s.writeFault(w, "admin delete application", err)
		return
	}
	writeMessage(w, "application deleted")
}

func (s *Server) handleAdminReset(w http.ResponseWriter, r *http.Request) {
	if err := s.resetter.Force(r.Context()); err != nil {
		s.writeFault(w, "admin reset", err)
		return
	}
	actor, _ := ctxutil.ActorID(r.Context())
	role, _ := ctxutil.ActorRole(r.Context())
	s.log.Infow("manual score reset", "actor", actor, "role", role)
	writeMessage(w, "all student scores were reset")
}

// handleSystemStatus also doubles as the reset trigger: any status check
// runs the weekly sweep when the week has moved on, then reports the
// post-sweep state.
func (s *Server) handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	if _, err := s.resetter.RunIfDue(r.Context()); err != nil {
		s.writeFault(w, "system status", err)
		return
	}
	status, err := s.resetter.Status(r.Context())
	if err != nil {
		s.writeFault(w, "system status", err)
		return
	}
	writeData(w, status)
}

func (s *Server) handleAdminClassRanks(w http.ResponseWriter, r *http.Request) {
	ranks, err := s.classRanks(r.Context())
	if err != nil {
		s.writeFault(w, "admin ranks", err)
		return
	}
	writeData(w, ranks)
}
