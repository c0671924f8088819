package server

import (
	"net/http"
	"net/url"
	"time"

	"github.com/classconduct/conduct-server/internal/db"
	"github.com/classconduct/conduct-server/internal/epoch"
	"github.com/classconduct/conduct-server/internal/export"
	"github.com/classconduct/conduct-server/internal/models"
	"github.com/classconduct/conduct-server/internal/score"
)

// Predefined adjustment reasons offered in the teacher UI; free-text
// reasons are accepted as well.
var defaultReasons = []string{
	"late arrival or early leave",
	"homework not handed in",
	"disrupting class",
	"helping classmates",
	"excellent classwork",
	"other",
}

func (s *Server) handleTeacherLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		s.writeFault(w, "teacher login", err)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeRejected(w, "username and password are required")
		return
	}

	teacher, err := db.GetTeacherByID(r.Context(), s.database, req.Username)
	if err != nil {
		s.writeFault(w, "teacher login", err)
		return
	}
	if teacher == nil || teacher.Password != req.Password {
		writeRejected(w, "wrong username or password")
		return
	}
	writeData(w, map[string]string{
		"id":      teacher.ID,
		"name":    teacher.Name,
		"subject": teacher.Subject,
	})
}

func (s *Server) handleTeacherChangePassword(w http.ResponseWriter, r *http.Request, teacher *models.Teacher) {
	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := readJSON(r, &req); err != nil {
		s.writeFault(w, "teacher password", err)
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		writeRejected(w, "password must not be empty")
		return
	}
	ok, err := db.ChangeTeacherPassword(r.Context(), s.database, teacher.ID, req.OldPassword, req.NewPassword)
	if err != nil {
		s.writeFault(w, "teacher password", err)
		return
	}
	if !ok {
		writeRejected(w, "wrong old password")
		return
	}
	writeMessage(w, "password changed")
}

func (s *Server) handleStudentsScores(w http.ResponseWriter, r *http.Request, _ *models.Teacher) {
	students, err := db.ListStudents(r.Context(), s.database)
	if err != nil {
		s.writeFault(w, "students scores", err)
		return
	}

	type studentScore struct {
		ID           string         `json:"id"`
		Name         string         `json:"name"`
		Class        string         `json:"class"`
		CurrentScore int            `json:"currentScore"`
		Records      []models.Entry `json:"records"`
	}
	out := make([]studentScore, 0, len(students))
	for _, st := range students {
		ledger, err := s.engine.Ledger(r.Context(), st.ID)
		if err != nil {
			s.writeFault(w, "students scores", err)
			return
		}
		out = append(out, studentScore{
			ID:           st.ID,
			Name:         st.Name,
			Class:        st.Class,
			CurrentScore: ledger.CurrentScore,
			Records:      ledger.Records,
		})
	}
	writeData(w, out)
}

func (s *Server) handleTeacherClassRanks(w http.ResponseWriter, r *http.Request, _ *models.Teacher) {
	ranks, err := s.classRanks(r.Context())
	if err != nil {
		s.writeFault(w, "class ranks", err)
		return
	}
	writeData(w, ranks)
}

func (s *Server) handleReasons(w http.ResponseWriter, r *http.Request, _ *models.Teacher) {
	writeData(w, defaultReasons)
}

func (s *Server) handleTeacherAdjust(w http.ResponseWriter, r *http.Request, teacher *models.Teacher) {
	var req struct {
		StudentID    string `json:"studentId"`
		Type         string `json:"type"`
		Score        int    `json:"score"`
		Reason       string `json:"reason"`
		CustomReason string `json:"customReason"`
		Subject      string `json:"subject"`
	}
	if err := readJSON(r, &req); err != nil {
		s.writeFault(w, "adjust score", err)
		return
	}
	reason := req.CustomReason
	if reason == "" {
		reason = req.Reason
	}
	if reason == "" {
		writeRejected(w, "a reason is required")
		return
	}
	if req.Subject == "" {
		writeRejected(w, "a subject is required")
		return
	}

	ledger, err := s.engine.Apply(r.Context(), score.Adjustment{
		StudentID: req.StudentID,
		Type:      req.Type,
		Magnitude: req.Score,
		Reason:    reason,
		Subject:   req.Subject,
		TeacherID: teacher.ID,
	})
	if err != nil {
		s.writeFault(w, "adjust score", err)
		return
	}
	writeData(w, ledger)
}

func (s *Server) handleTeacherPending(w http.ResponseWriter, r *http.Request, teacher *models.Teacher) {
	apps, err := s.wf.PendingFor(r.Context(), *teacher)
	if err != nil {
		s.writeFault(w, "pending applications", err)
		return
	}
	writeData(w, apps)
}

func (s *Server) handleReviewApplication(w http.ResponseWriter, r *http.Request, teacher *models.Teacher) {
	var req struct {
		ApplicationID string `json:"applicationId"`
		Action        string `json:"action"`
		Score         int    `json:"score"`
	}
	if err := readJSON(r, &req); err != nil {
		s.writeFault(w, "review application", err)
		return
	}
	if req.ApplicationID == "" || req.Action == "" {
		writeRejected(w, "applicationId and action are required")
		return
	}

	res, err := s.wf.Resolve(r.Context(), req.ApplicationID, req.Action, req.Score, teacher.ID)
	if err != nil {
		s.writeFault(w, "review application", err)
		return
	}
	writeData(w, res)
}

func (s *Server) handleExportScores(w http.ResponseWriter, r *http.Request, _ *models.Teacher) {
	students, err := db.ListStudents(r.Context(), s.database)
	if err != nil {
		s.writeFault(w, "export scores", err)
		return
	}

	week := epoch.WeekNumber(time.Now())
	rows := make([]export.ScoreRow, 0, len(students))
	for _, st := range students {
		ledger, err := s.engine.Ledger(r.Context(), st.ID)
		if err != nil {
			s.writeFault(w, "export scores", err)
			return
		}
		row := export.ScoreRow{
			StudentID:    st.ID,
			Name:         st.Name,
			Class:        st.Class,
			CurrentScore: ledger.CurrentScore,
		}
		for _, e := range ledger.Records {
			if epoch.WeekNumber(e.CreatedAt) != week {
				continue
			}
			switch e.Type {
			case models.EntryAdd:
				row.WeekAdded += e.Score
			case models.EntryDeduct:
				row.WeekDeducted += e.Score
			}
		}
		rows = append(rows, row)
	}

	f, err := export.BuildScoresWorkbook(week, rows)
	if err != nil {
		s.writeFault(w, "export scores", err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+url.PathEscape(export.ScoresFilename(week))+`"`)
	if err := f.Write(w); err != nil {
		s.log.Errorw("workbook write failed", "err", err)
	}
}

func (s *Server) handleSystemStatusTeacher(w http.ResponseWriter, r *http.Request, _ *models.Teacher) {
	s.handleSystemStatus(w, r)
}
