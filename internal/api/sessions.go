package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/avelinsk/quizflow/internal/quiz"
	"github.com/avelinsk/quizflow/internal/score"
	"github.com/avelinsk/quizflow/internal/session"
	"github.com/avelinsk/quizflow/internal/steps"
	"github.com/avelinsk/quizflow/internal/store"
)

type startSessionRequest struct {
	Slug      string `json:"slug"`
	VisitorID string `json:"visitorId,omitempty"`
}

type sessionResponse struct {
	Session  *session.Session `json:"session"`
	Progress int              `json:"progress"`
	Steps    []steps.Step     `json:"steps,omitempty"`
}

type resultResponse struct {
	Session *session.Session `json:"session"`
	Result  score.Resolution `json:"result"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(w, r, ErrCodeInvalidJSON, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Slug) == "" {
		BadRequestError(w, r, ErrCodeMissingField, "slug is required")
		return
	}

	sess, stepList, err := s.sessions.Start(r.Context(), req.Slug, req.VisitorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError(w, r, "quiz not found")
			return
		}
		s.log.Error().Err(err).Str("slug", req.Slug).Msg("start session")
		InternalError(w, r, "failed to start session")
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{Session: sess, Progress: sess.Progress(), Steps: stepList})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	stepList, err := s.sessions.StepsFor(r.Context(), sess)
	if err != nil {
		s.log.Error().Err(err).Str("session_id", sess.ID).Msg("rebuild steps")
		InternalError(w, r, "failed to load session")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Session: sess, Progress: sess.Progress(), Steps: stepList})
}

type setAnswerRequest struct {
	Step       int              `json:"step"`
	Value      quiz.AnswerValue `json:"value"`
	QuestionID string           `json:"questionId,omitempty"`
	OptionID   string           `json:"selectedOptionId,omitempty"`
}

func (s *Server) handleSetAnswer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req setAnswerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(w, r, ErrCodeInvalidJSON, "invalid JSON")
		return
	}
	if req.Step < 0 {
		BadRequestError(w, r, ErrCodeInvalidStep, "step must be non-negative")
		return
	}

	sess, err := s.sessions.SetAnswer(r.Context(), id, quiz.Answer{
		Step:       req.Step,
		Value:      req.Value,
		QuestionID: req.QuestionID,
		OptionID:   req.OptionID,
	})
	if err != nil {
		s.writeSessionError(w, r, id, err, "set answer")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Session: sess, Progress: sess.Progress()})
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.mutateSession(w, r, "next step", s.sessions.Next)
}

func (s *Server) handlePrev(w http.ResponseWriter, r *http.Request) {
	s.mutateSession(w, r, "previous step", s.sessions.Prev)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mutateSession(w, r, "reset", s.sessions.Reset)
}

type ageRangeRequest struct {
	AgeRange string `json:"ageRange"`
}

func (s *Server) handleAgeRange(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ageRangeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(w, r, ErrCodeInvalidJSON, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.AgeRange) == "" {
		BadRequestError(w, r, ErrCodeMissingField, "ageRange is required")
		return
	}

	sess, err := s.sessions.SelectAgeRange(r.Context(), id, req.AgeRange)
	if err != nil {
		s.writeSessionError(w, r, id, err, "select age range")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Session: sess, Progress: sess.Progress()})
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sess, err := s.sessions.Result(r.Context(), id)
	if err != nil {
		s.writeSessionError(w, r, id, err, "resolve result")
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{Session: sess, Result: *sess.Outcome})
}

// mutateSession is the shared shape of the body-less navigation endpoints.
func (s *Server) mutateSession(w http.ResponseWriter, r *http.Request, op string, fn func(ctx context.Context, id string) (*session.Session, error)) {
	id := chi.URLParam(r, "id")
	sess, err := fn(r.Context(), id)
	if err != nil {
		s.writeSessionError(w, r, id, err, op)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Session: sess, Progress: sess.Progress()})
}

// loadSession fetches the session from the path id, writing the error
// response itself on failure.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		s.writeSessionError(w, r, id, err, "load session")
		return nil, false
	}
	return sess, true
}

func (s *Server) writeSessionError(w http.ResponseWriter, r *http.Request, id string, err error, op string) {
	if errors.Is(err, session.ErrNotFound) {
		NotFoundError(w, r, "session not found")
		return
	}
	s.log.Error().Err(err).Str("session_id", id).Msg(op)
	InternalError(w, r, "failed to "+op)
}
