package server

import (
	"net/http"

	"github.com/classconduct/conduct-server/internal/db"
	"github.com/classconduct/conduct-server/internal/models"
	"github.com/classconduct/conduct-server/internal/workflow"
)

func (s *Server) handleStudentLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		s.writeFault(w, "student login", err)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeRejected(w, "username and password are required")
		return
	}

	student, err := db.GetStudentByID(r.Context(), s.database, req.Username)
	if err != nil {
		s.writeFault(w, "student login", err)
		return
	}
	if student == nil || student.Password != req.Password {
		writeRejected(w, "wrong username or password")
		return
	}
	writeData(w, map[string]string{
		"id":    student.ID,
		"name":  student.Name,
		"class": student.Class,
	})
}

func (s *Server) handleStudentChangePassword(w http.ResponseWriter, r *http.Request, student *models.Student) {
	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := readJSON(r, &req); err != nil {
		s.writeFault(w, "student password", err)
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		writeRejected(w, "password must not be empty")
		return
	}
	ok, err := db.ChangeStudentPassword(r.Context(), s.database, student.ID, req.OldPassword, req.NewPassword)
	if err != nil {
		s.writeFault(w, "student password", err)
		return
	}
	if !ok {
		writeRejected(w, "wrong old password")
		return
	}
	writeMessage(w, "password changed")
}

func (s *Server) handleStudentScore(w http.ResponseWriter, r *http.Request, student *models.Student) {
	ledger, err := s.engine.Ledger(r.Context(), student.ID)
	if err != nil {
		s.writeFault(w, "student score", err)
		return
	}
	writeData(w, ledger)
}

func (s *Server) handleStudentApplication(w http.ResponseWriter, r *http.Request, student *models.Student) {
	var req struct {
		Type     string `json:"type"`
		Score    int    `json:"score"`
		Reason   string `json:"reason"`
		Subject  string `json:"subject"`
		Evidence string `json:"evidence"`
	}
	if err := readJSON(r, &req); err != nil {
		s.writeFault(w, "submit application", err)
		return
	}
	app, err := s.wf.Submit(r.Context(), workflow.Submission{
		StudentID:   student.ID,
		StudentName: student.Name,
		Type:        req.Type,
		Score:       req.Score,
		Reason:      req.Reason,
		Subject:     req.Subject,
		Evidence:    req.Evidence,
	})
	if err != nil {
		s.writeFault(w, "submit application", err)
		return
	}
	writeData(w, app)
}

func (s *Server) handleStudentApplications(w http.ResponseWriter, r *http.Request, student *models.Student) {
	apps, err := s.wf.ListByStudent(r.Context(), student.ID)
	if err != nil {
		s.writeFault(w, "list applications", err)
		return
	}
	writeData(w, apps)
}

func (s *Server) handleStudentAppeal(w http.ResponseWriter, r *http.Request, student *models.Student) {
	var req struct {
		RecordID string `json:"recordId"`
		Reason   string `json:"reason"`
		Evidence string `json:"evidence"`
	}
	if err := readJSON(r, &req); err != nil {
		s.writeFault(w, "submit appeal", err)
		return
	}
	app, err := s.wf.SubmitAppeal(r.Context(), workflow.Appeal{
		StudentID:   student.ID,
		StudentName: student.Name,
		RecordID:    req.RecordID,
		Reason:      req.Reason,
		Evidence:    req.Evidence,
	})
	if err != nil {
		s.writeFault(w, "submit appeal", err)
		return
	}
	writeData(w, app)
}

func (s *Server) handleStudentReport(w http.ResponseWriter, r *http.Request, student *models.Student) {
	var req struct {
		ReportedStudentID string `json:"reportedStudentId"`
		Reason            string `json:"reason"`
		Subject           string `json:"subject"`
		Evidence          string `json:"evidence"`
	}
	if err := readJSON(r, &req); err != nil {
		s.writeFault(w, "submit report", err)
		return
	}
	app, err := s.wf.SubmitReport(r.Context(), workflow.Report{
		ReporterID:        student.ID,
		ReporterName:      student.Name,
		ReportedStudentID: req.ReportedStudentID,
		Reason:            req.Reason,
		Subject:           req.Subject,
		Evidence:          req.Evidence,
	})
	if err != nil {
		s.writeFault(w, "submit report", err)
		return
	}
	writeData(w, app)
}

// Students only see the podium plus their own group.
func (s *Server) handleStudentClassRanks(w http.ResponseWriter, r *http.Request, student *models.Student) {
	ranks, err := s.classRanks(r.Context())
	if err != nil {
		s.writeFault(w, "class ranks", err)
		return
	}
	top := ranks
	if len(top) > 3 {
		top = top[:3]
	}
	var own *ClassRank
	for i := range ranks {
		if ranks[i].ClassName == student.Class {
			own = &ranks[i]
			break
		}
	}
	writeData(w, map[string]any{
		"topThree":     top,
		"currentClass": own,
	})
}

func (s *Server) handleSystemStatusAuthed(w http.ResponseWriter, r *http.Request, _ *models.Student) {
	s.handleSystemStatus(w, r)
}
