package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/claude/liftlog/internal/backup"
	"github.com/claude/liftlog/internal/classify"
	"github.com/claude/liftlog/internal/ingest/llmtext"
	"github.com/claude/liftlog/internal/intent"
	"github.com/claude/liftlog/internal/llm"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/session"
	"github.com/claude/liftlog/internal/stats"
)

type logRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	var req logRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return
	}

	result, err := s.ingester.Ingest(r.Context(), req.Text, s.normalizeOptions())
	if err != nil {
		s.writeIngestError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleLogRaw accepts model output the client already holds, which keeps the
// pipeline usable without any completion provider configured.
func (s *Server) handleLogRaw(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reading body: " + err.Error()})
		return
	}

	result, err := s.ingester.IngestRaw(r.Context(), string(body), s.normalizeOptions())
	if err != nil {
		s.writeIngestError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) normalizeOptions() llmtext.NormalizeOptions {
	return llmtext.NormalizeOptions{
		UseTemplateMuscles: true,
		Today:              s.now().Format(models.TrainingDateLayout),
	}
}

func (s *Server) writeIngestError(w http.ResponseWriter, err error) {
	var perr *llm.ProviderError
	if errors.As(err, &perr) {
		s.log.Error("provider error", "kind", perr.Kind, "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": perr.Message()})
		return
	}
	if errors.Is(err, llmtext.ErrNoJSONFound) || errors.Is(err, llmtext.ErrInvalidJSON) || errors.Is(err, llmtext.ErrNoExercises) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	s.log.Error("ingest error", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

type askRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Question == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}

	in, err := classify.Question(r.Context(), s.completer, req.Question)
	if err != nil {
		var perr *llm.ProviderError
		if errors.As(err, &perr) {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": perr.Message()})
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}

	sessions, err := s.store.ListSessions(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if in.Type == intent.TypeWorkoutPlan {
		writeJSON(w, http.StatusOK, intent.ExecutePlan(*in, sessions, s.now()))
		return
	}
	writeJSON(w, http.StatusOK, intent.ExecuteAsk(*in, sessions, s.now()))
}

// handlePlan takes the plan intent fields directly, skipping classification.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var in intent.Intent
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	in.Type = intent.TypeWorkoutPlan

	sessions, err := s.store.ListSessions(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, intent.ExecutePlan(in, sessions, s.now()))
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.store.ListSessions(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	live := make([]models.WorkoutSession, 0, len(sessions))
	for _, sess := range session.SortByDateDesc(sessions) {
		if sess.DeletedAt == nil {
			live = append(live, sess)
		}
	}
	writeJSON(w, http.StatusOK, live)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	deleted, err := s.store.SoftDeleteSession(r.Context(), id, s.now())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.store.ListSessions(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	currentWeek := models.ISOWeek(s.now().Format(models.TrainingDateLayout))
	writeJSON(w, http.StatusOK, stats.Aggregate(sessions, currentWeek))
}

func (s *Server) handlePRs(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.store.ListSessions(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	records := stats.PersonalRecords(sessions)
	if records == nil {
		records = []stats.PersonalRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleBackupExport(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.store.ListSessions(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	data, err := backup.Stringify(sessions, s.now())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="liftlog-backup.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleBackupImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reading body: " + err.Error()})
		return
	}

	sessions, err := backup.Parse(body)
	if err != nil {
		var berr *backup.Error
		if errors.As(err, &berr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": berr.Message})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := s.store.ReplaceAllSessions(r.Context(), sessions); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "imported",
		"sessions": len(sessions),
	})
}

func (s *Server) handleIngestLogs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}
	logs, err := s.store.QueryIngestLogs(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
