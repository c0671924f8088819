package server

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/classconduct/conduct-server/internal/config"
	"github.com/classconduct/conduct-server/internal/ctxutil"
	"github.com/classconduct/conduct-server/internal/epoch"
	"github.com/classconduct/conduct-server/internal/metrics"
	"github.com/classconduct/conduct-server/internal/score"
	"github.com/classconduct/conduct-server/internal/workflow"
	"go.uber.org/zap"
)

type Server struct {
	cfg      *config.Config
	database *sql.DB
	engine   *score.Engine
	wf       *workflow.Workflow
	resetter *epoch.Resetter
	log      *zap.SugaredLogger

	srv *http.Server
}

func New(cfg *config.Config, database *sql.DB, engine *score.Engine, wf *workflow.Workflow, resetter *epoch.Resetter, log *zap.SugaredLogger) *Server {
	s := &Server{
		cfg:      cfg,
		database: database,
		engine:   engine,
		wf:       wf,
		resetter: resetter,
		log:      log,
	}
	s.srv = &http.Server{Addr: cfg.HTTPAddr, Handler: s.routes()}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := ctxutil.WithTimeout(r.Context(), 800*time.Millisecond)
		defer cancel()
		t0 := time.Now()
		if err := s.database.PingContext(ctx); err != nil {
			http.Error(w, "db not ok: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		metrics.ObserveDBPing(time.Since(t0))
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", metrics.Handler())

	// Student surface.
	mux.HandleFunc("POST /api/student/login", s.counted("student_login", s.handleStudentLogin))
	mux.HandleFunc("POST /api/student/change-password", s.counted("student_password", s.withStudent(s.handleStudentChangePassword)))
	mux.HandleFunc("GET /api/student/score", s.counted("student_score", s.withStudent(s.handleStudentScore)))
	mux.HandleFunc("POST /api/student/application", s.counted("student_application", s.withStudent(s.handleStudentApplication)))
	mux.HandleFunc("GET /api/student/applications", s.counted("student_applications", s.withStudent(s.handleStudentApplications)))
	mux.HandleFunc("POST /api/student/appeal", s.counted("student_appeal", s.withStudent(s.handleStudentAppeal)))
	mux.HandleFunc("POST /api/student/report", s.counted("student_report", s.withStudent(s.handleStudentReport)))
	mux.HandleFunc("GET /api/student/class-ranks", s.counted("student_ranks", s.withStudent(s.handleStudentClassRanks)))
	mux.HandleFunc("GET /api/student/system-status", s.counted("student_status", s.withStudent(s.handleSystemStatusAuthed)))

	// Teacher surface.
	mux.HandleFunc("POST /api/teacher/login", s.counted("teacher_login", s.handleTeacherLogin))
	mux.HandleFunc("POST /api/teacher/change-password", s.counted("teacher_password", s.withTeacher(s.handleTeacherChangePassword)))
	mux.HandleFunc("GET /api/teacher/students-scores", s.counted("teacher_scores", s.withTeacher(s.handleStudentsScores)))
	mux.HandleFunc("GET /api/teacher/class-ranks", s.counted("teacher_ranks", s.withTeacher(s.handleTeacherClassRanks)))
	mux.HandleFunc("GET /api/teacher/reasons", s.counted("teacher_reasons", s.withTeacher(s.handleReasons)))
	mux.HandleFunc("POST /api/teacher/adjust-score", s.counted("teacher_adjust", s.withTeacher(s.handleTeacherAdjust)))
	mux.HandleFunc("GET /api/teacher/pending-applications", s.counted("teacher_pending", s.withTeacher(s.handleTeacherPending)))
	mux.HandleFunc("POST /api/teacher/review-application", s.counted("teacher_review", s.withTeacher(s.handleReviewApplication)))
	mux.HandleFunc("GET /api/teacher/export-scores", s.counted("teacher_export", s.withTeacher(s.handleExportScores)))
	mux.HandleFunc("GET /api/teacher/system-status", s.counted("teacher_status", s.withTeacher(s.handleSystemStatusTeacher)))

	// Admin surface.
	mux.HandleFunc("POST /api/admin/login", s.counted("admin_login", s.handleAdminLogin))
	mux.HandleFunc("GET /api/admin/students", s.counted("admin_students", s.withAdmin(s.handleAdminStudents)))
	mux.HandleFunc("POST /api/admin/adjust-score", s.counted("admin_adjust", s.withAdmin(s.handleAdminAdjust)))
	mux.HandleFunc("GET /api/admin/pending-applications", s.counted("admin_pending", s.withAdmin(s.handleAdminPending)))
	mux.HandleFunc("DELETE /api/admin/application/{id}", s.counted("admin_delete_application", s.withAdmin(s.handleAdminDeleteApplication)))
	mux.HandleFunc("POST /api/admin/reset-scores", s.counted("admin_reset", s.withAdmin(s.handleAdminReset)))
	mux.HandleFunc("GET /api/admin/system-status", s.counted("admin_status", s.withAdmin(s.handleSystemStatus)))
	mux.HandleFunc("GET /api/admin/class-ranks", s.counted("admin_ranks", s.withAdmin(s.handleAdminClassRanks)))

	return mux
}

func (s *Server) counted(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics.HTTPRequests.WithLabelValues(route).Inc()
		next(w, r)
	}
}

// Start serves in the background and shuts down cleanly when ctx ends.
func (s *Server) Start(ctx context.Context) {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Errorw("http server stopped", "err", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shCtx)
	}()
}
