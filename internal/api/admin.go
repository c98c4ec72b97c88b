package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/avelinsk/quizflow/internal/audit"
	"github.com/avelinsk/quizflow/internal/quiz"
	"github.com/avelinsk/quizflow/internal/store"
)

type upsertQuizRequest struct {
	Quiz      quiz.Quiz       `json:"quiz"`
	Questions []quiz.Question `json:"questions"`
}

type upsertResponse struct {
	OK     bool   `json:"ok"`
	QuizID string `json:"quizId,omitempty"`
	Count  int    `json:"count,omitempty"`
}

func (s *Server) handleUpsertQuiz(w http.ResponseWriter, r *http.Request) {
	var req upsertQuizRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(w, r, ErrCodeInvalidJSON, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Quiz.Slug) == "" {
		BadRequestError(w, r, ErrCodeInvalidSlug, "quiz slug is required")
		return
	}
	if strings.TrimSpace(req.Quiz.Title) == "" {
		BadRequestError(w, r, ErrCodeMissingField, "quiz title is required")
		return
	}

	q, err := s.store.UpsertQuiz(r.Context(), store.UpsertQuizParams{
		Quiz:      req.Quiz,
		Questions: req.Questions,
	})
	if err != nil {
		s.log.Error().Err(err).Str("slug", req.Quiz.Slug).Msg("upsert quiz")
		InternalError(w, r, "failed to store quiz")
		return
	}

	s.log.Info().Str("slug", q.Slug).Str("quiz_id", q.ID).Int("questions", len(req.Questions)).Msg("quiz upserted")
	s.recordAudit(r, audit.ResourceQuiz, q.Slug, map[string]any{"questions": len(req.Questions)})
	writeJSON(w, http.StatusOK, upsertResponse{OK: true, QuizID: q.ID, Count: len(req.Questions)})
}

type upsertRulesRequest struct {
	Rules []quiz.Rule `json:"rules"`
}

// handleUpsertRules replaces a quiz's insight rules. Rules are validated
// strictly at write time; the read-path evaluator then never throws.
func (s *Server) handleUpsertRules(w http.ResponseWriter, r *http.Request) {
	q, ok := s.quizFromSlug(w, r)
	if !ok {
		return
	}

	var req upsertRulesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(w, r, ErrCodeInvalidJSON, "invalid JSON")
		return
	}

	fields := map[string]string{}
	for i, rule := range req.Rules {
		if err := quiz.ValidateRule(rule); err != nil {
			fields[fmt.Sprintf("rules[%d]", i)] = err.Error()
		}
	}
	if len(fields) > 0 {
		ValidationError(w, r, "invalid rules", fields)
		return
	}

	if err := s.store.UpsertRules(r.Context(), q.ID, req.Rules); err != nil {
		s.log.Error().Err(err).Str("quiz_id", q.ID).Msg("upsert rules")
		InternalError(w, r, "failed to store rules")
		return
	}

	s.log.Info().Str("slug", q.Slug).Int("rules", len(req.Rules)).Msg("rules upserted")
	s.recordAudit(r, audit.ResourceRules, q.Slug, map[string]any{"rules": len(req.Rules)})
	writeJSON(w, http.StatusOK, upsertResponse{OK: true, QuizID: q.ID, Count: len(req.Rules)})
}

type upsertResultsRequest struct {
	Results []quiz.Result `json:"results"`
}

func (s *Server) handleUpsertResults(w http.ResponseWriter, r *http.Request) {
	q, ok := s.quizFromSlug(w, r)
	if !ok {
		return
	}

	var req upsertResultsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(w, r, ErrCodeInvalidJSON, "invalid JSON")
		return
	}

	fields := map[string]string{}
	for i, res := range req.Results {
		if strings.TrimSpace(res.Title) == "" {
			fields[fmt.Sprintf("results[%d].title", i)] = "title is required"
		}
		if res.MaxScore < res.MinScore {
			fields[fmt.Sprintf("results[%d]", i)] = "maxScore must be >= minScore"
		}
	}
	if len(fields) > 0 {
		ValidationError(w, r, "invalid result ranges", fields)
		return
	}

	if err := s.store.UpsertResults(r.Context(), q.ID, req.Results); err != nil {
		s.log.Error().Err(err).Str("quiz_id", q.ID).Msg("upsert results")
		InternalError(w, r, "failed to store results")
		return
	}

	s.log.Info().Str("slug", q.Slug).Int("results", len(req.Results)).Msg("results upserted")
	s.recordAudit(r, audit.ResourceResults, q.Slug, map[string]any{"results": len(req.Results)})
	writeJSON(w, http.StatusOK, upsertResponse{OK: true, QuizID: q.ID, Count: len(req.Results)})
}

func (s *Server) handleGetRules(w http.ResponseWriter, r *http.Request) {
	q, ok := s.quizFromSlug(w, r)
	if !ok {
		return
	}
	rules, err := s.store.RulesByQuiz(r.Context(), q.ID)
	if err != nil {
		s.log.Error().Err(err).Str("quiz_id", q.ID).Msg("list rules")
		InternalError(w, r, "failed to load rules")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]quiz.Rule{"rules": rules})
}

func (s *Server) handleGetResults(w http.ResponseWriter, r *http.Request) {
	q, ok := s.quizFromSlug(w, r)
	if !ok {
		return
	}
	results, err := s.store.ResultsByQuiz(r.Context(), q.ID)
	if err != nil {
		s.log.Error().Err(err).Str("quiz_id", q.ID).Msg("list results")
		InternalError(w, r, "failed to load results")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]quiz.Result{"results": results})
}

// recordAudit queues an audit event for a successful admin mutation.
// No-op when auditing is not configured.
func (s *Server) recordAudit(r *http.Request, resourceType, resourceID string, details map[string]any) {
	if s.audit == nil {
		return
	}
	s.audit.Record(audit.Event{
		RequestID:    middleware.GetReqID(r.Context()),
		Actor:        audit.Actor{Kind: "api_key", Display: "admin"},
		Source:       audit.Source{IPAddress: r.RemoteAddr, UserAgent: r.UserAgent()},
		Action:       audit.ActionUpdated,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
	})
}

func (s *Server) quizFromSlug(w http.ResponseWriter, r *http.Request) (*quiz.Quiz, bool) {
	slug := chi.URLParam(r, "slug")
	q, err := s.store.QuizBySlug(r.Context(), slug)
	if err != nil {
		NotFoundError(w, r, "quiz not found")
		return nil, false
	}
	return q, true
}
