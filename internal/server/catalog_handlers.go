package server

import (
	"encoding/json"
	"net/http"

	"github.com/afrolearn/afrolearn/internal/nav"
)

func (s *Server) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := s.catalog.ListSubjects(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subjects)
}

func (s *Server) handleListGrades(w http.ResponseWriter, r *http.Request) {
	grades, err := s.catalog.ListGrades(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, grades)
}

func (s *Server) handleListUnits(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := queryID(r, "subjectId")
	if !ok {
		writeBadRequest(w, "subjectId is required")
		return
	}
	gradeID, ok := queryID(r, "gradeId")
	if !ok {
		writeBadRequest(w, "gradeId is required")
		return
	}

	units, err := s.catalog.ListUnits(r.Context(), subjectID, gradeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, units)
}

func (s *Server) handleListLessons(w http.ResponseWriter, r *http.Request) {
	unitID, ok := queryID(r, "unitId")
	if !ok {
		writeBadRequest(w, "unitId is required")
		return
	}

	lessons, err := s.catalog.ListLessons(r.Context(), unitID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lessons)
}

func (s *Server) handleGetUnit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid unit id")
		return
	}

	unit, err := s.catalog.GetUnit(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, unit)
}

func (s *Server) handleGetLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid lesson id")
		return
	}

	lesson, err := s.catalog.GetLesson(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lesson)
}

// handleLessonContext resolves the full ancestor chain for breadcrumb
// rendering from a lesson id alone.
func (s *Server) handleLessonContext(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid lesson id")
		return
	}

	nctx, err := s.resolver.Resolve(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nctx)
}

func (s *Server) handleNextLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid lesson id")
		return
	}

	next, found, err := s.resolver.NextLesson(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !found {
		writeJSON(w, http.StatusOK, map[string]any{"next": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"next": next})
}

// handleValidateContext checks a caller-supplied context (e.g. from a search
// result selection) for internal consistency and echoes it back when valid.
func (s *Server) handleValidateContext(w http.ResponseWriter, r *http.Request) {
	var nctx nav.Context
	if err := json.NewDecoder(r.Body).Decode(&nctx); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	if err := s.resolver.Validate(nctx); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nctx)
}
