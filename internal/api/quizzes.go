package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/cespare/xxhash/v2"
	"github.com/go-chi/chi/v5"

	"github.com/avelinsk/quizflow/internal/quiz"
	"github.com/avelinsk/quizflow/internal/store"
)

type quizResponse struct {
	Quiz      quiz.Quiz       `json:"quiz"`
	Questions []quiz.Question `json:"questions"`
}

func (s *Server) handleListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := s.store.ListQuizzes(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("list quizzes")
		InternalError(w, r, "failed to list quizzes")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"quizzes": quizzes})
}

// handleGetQuiz serves the full quiz definition with an ETag so returning
// visitors revalidate instead of re-downloading.
func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	q, err := s.store.QuizBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError(w, r, "quiz not found")
			return
		}
		s.log.Error().Err(err).Str("slug", slug).Msg("get quiz")
		InternalError(w, r, "failed to load quiz")
		return
	}
	questions, err := s.store.QuestionsByQuiz(r.Context(), q.ID)
	if err != nil {
		s.log.Error().Err(err).Str("slug", slug).Msg("get quiz questions")
		InternalError(w, r, "failed to load quiz")
		return
	}

	payload, err := json.Marshal(quizResponse{Quiz: *q, Questions: questions})
	if err != nil {
		InternalError(w, r, "failed to encode quiz")
		return
	}

	etag := fmt.Sprintf(`"%016x"`, xxhash.Sum64(payload))
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", etag)
	_, _ = w.Write(payload)
}
