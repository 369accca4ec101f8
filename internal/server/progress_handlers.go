package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

type completionRequest struct {
	UserID   int64 `json:"user_id"`
	UnitID   int64 `json:"unit_id"`
	LessonID int64 `json:"lesson_id"`
	ItemID   int64 `json:"item_id"`
}

func (req *completionRequest) itemOrLesson() int64 {
	if req.ItemID != 0 {
		return req.ItemID
	}
	return req.LessonID
}

func decodeCompletion(r *http.Request) (completionRequest, error) {
	var req completionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, fmt.Errorf("invalid request body")
	}
	if req.UserID <= 0 || req.UnitID <= 0 || req.itemOrLesson() <= 0 {
		return req, fmt.Errorf("user_id, unit_id and lesson_id are required")
	}
	return req, nil
}

func (s *Server) handleSubjectProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryID(r, "userId")
	if !ok {
		writeBadRequest(w, "userId is required")
		return
	}
	subjectID, ok := queryID(r, "subjectId")
	if !ok {
		writeBadRequest(w, "subjectId is required")
		return
	}

	snap, err := s.aggregator.SubjectProgress(r.Context(), userID, subjectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleUnitCompletion(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryID(r, "userId")
	if !ok {
		writeBadRequest(w, "userId is required")
		return
	}
	unitID, ok := queryID(r, "unitId")
	if !ok {
		writeBadRequest(w, "unitId is required")
		return
	}

	completion, err := s.aggregator.UnitCompletion(r.Context(), userID, unitID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, completion)
}

func (s *Server) handleRecordVideo(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCompletion(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	// Video completions are keyed by lesson; item_id alone is not enough here.
	if req.LessonID <= 0 {
		writeBadRequest(w, "lesson_id is required")
		return
	}

	snap, err := s.aggregator.RecordVideoCompletion(r.Context(), req.UserID, req.UnitID, req.LessonID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleRecordQuiz(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCompletion(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := s.aggregator.RecordQuizCompletion(r.Context(), req.UserID, req.UnitID, req.itemOrLesson()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

func (s *Server) handleRecordPractice(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCompletion(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := s.aggregator.RecordPracticeCompletion(r.Context(), req.UserID, req.UnitID, req.itemOrLesson()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

// handleResetProgress is administrative: it clears a user's progress for one
// subject, or for all subjects when subjectId is omitted.
func (s *Server) handleResetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryID(r, "userId")
	if !ok {
		writeBadRequest(w, "userId is required")
		return
	}

	var subjectID int64
	if raw := r.URL.Query().Get("subjectId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			writeBadRequest(w, "invalid subjectId")
			return
		}
		subjectID = parsed
	}

	if err := s.aggregator.ResetProgress(r.Context(), userID, subjectID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleProgressReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryID(r, "userId")
	if !ok {
		writeBadRequest(w, "userId is required")
		return
	}

	// Build the workbook fully before touching the response so an export
	// failure can still produce a proper error status.
	var buf bytes.Buffer
	if err := s.exporter.WriteUserReport(r.Context(), &buf, userID); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="progress-%d.xlsx"`, userID))
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("report download aborted", "user_id", userID, "error", err)
	}
}
