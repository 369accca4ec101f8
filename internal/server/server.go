// Package server exposes the catalog, resolver and progress operations as
// JSON endpoints.
package server

import (
	"context"
	"net/http"

	"github.com/afrolearn/afrolearn/internal/catalog"
	"github.com/afrolearn/afrolearn/internal/nav"
	"github.com/afrolearn/afrolearn/internal/progress"
	"github.com/afrolearn/afrolearn/internal/report"
)

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Server routes HTTP requests to the catalog and progress components.
// Authentication happens upstream; the user id arrives already validated.
type Server struct {
	catalog    catalog.Store
	resolver   *nav.Resolver
	aggregator *progress.Aggregator
	exporter   *report.Exporter
	checks     map[string]HealthChecker
}

// New creates a server. exporter may be nil to disable report downloads;
// checks are pinged by /readyz.
func New(cat catalog.Store, resolver *nav.Resolver, agg *progress.Aggregator, exporter *report.Exporter, checks map[string]HealthChecker) *Server {
	return &Server{
		catalog:    cat,
		resolver:   resolver,
		aggregator: agg,
		exporter:   exporter,
		checks:     checks,
	}
}

// Routes builds the HTTP mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)

	mux.HandleFunc("GET /subjects", s.handleListSubjects)
	mux.HandleFunc("GET /grades", s.handleListGrades)
	mux.HandleFunc("GET /units", s.handleListUnits)
	mux.HandleFunc("GET /lessons", s.handleListLessons)
	mux.HandleFunc("GET /unit/{id}", s.handleGetUnit)
	mux.HandleFunc("GET /lesson/{id}", s.handleGetLesson)
	mux.HandleFunc("GET /lesson/{id}/context", s.handleLessonContext)
	mux.HandleFunc("GET /lesson/{id}/next", s.handleNextLesson)
	mux.HandleFunc("POST /context/validate", s.handleValidateContext)

	mux.HandleFunc("GET /progress/subject", s.handleSubjectProgress)
	mux.HandleFunc("GET /progress/unit", s.handleUnitCompletion)
	mux.HandleFunc("POST /progress/video", s.handleRecordVideo)
	mux.HandleFunc("POST /progress/quiz", s.handleRecordQuiz)
	mux.HandleFunc("POST /progress/practice", s.handleRecordPractice)
	mux.HandleFunc("DELETE /progress", s.handleResetProgress)
	if s.exporter != nil {
		mux.HandleFunc("GET /progress/report", s.handleProgressReport)
	}

	return mux
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	for name, check := range s.checks {
		if err := check.HealthCheck(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"check":  name,
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
