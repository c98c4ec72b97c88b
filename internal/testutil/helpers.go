// Package testutil provides shared helpers for exercising the service in
// tests: a fully wired in-memory server and a compact HTTP request harness.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/avelinsk/quizflow/internal/api"
	"github.com/avelinsk/quizflow/internal/events"
	"github.com/avelinsk/quizflow/internal/quiz"
	"github.com/avelinsk/quizflow/internal/score"
	"github.com/avelinsk/quizflow/internal/session"
	"github.com/avelinsk/quizflow/internal/store"
)

// NewTestServer creates a fully wired server on an in-memory store and
// in-memory session repository.
func NewTestServer(t *testing.T, adminKey string) (*api.Server, *store.MemoryStore) {
	t.Helper()
	memStore := store.NewMemoryStore()
	log := zerolog.Nop()
	resolver := score.NewResolver(memStore, log)
	mgr := session.NewManager(memStore, session.NewMemoryRepository(), events.NopSink{}, resolver, log)
	server := api.NewServer(memStore, mgr, adminKey, log, api.WithRateLimits(0, 0))
	return server, memStore
}

// HTTPRequest is a helper for making test HTTP requests.
type HTTPRequest struct {
	Method  string
	Path    string
	Body    string
	Headers map[string]string
}

// Do executes the HTTP request and returns the response recorder.
func (r *HTTPRequest) Do(t *testing.T, handler http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if r.Body != "" {
		body = bytes.NewBufferString(r.Body)
	}
	req := httptest.NewRequest(r.Method, r.Path, body)
	if r.Body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// SeedQuiz populates the store with a radio-question quiz and a catch-all
// result range.
func SeedQuiz(ctx context.Context, st store.Store, slug string, questions int) (*quiz.Quiz, error) {
	qs := make([]quiz.Question, questions)
	for i := range qs {
		qs[i] = quiz.Question{
			Type: quiz.QuestionRadio,
			Text: fmt.Sprintf("Question %d", i),
			Options: []quiz.Option{
				{ID: fmt.Sprintf("%s-q%d-low", slug, i), Text: "Rarely", Value: 1, OrderNumber: 0},
				{ID: fmt.Sprintf("%s-q%d-high", slug, i), Text: "Often", Value: 3, OrderNumber: 1},
			},
		}
	}
	q, err := st.UpsertQuiz(ctx, store.UpsertQuizParams{
		Quiz:      quiz.Quiz{Slug: slug, Title: slug},
		Questions: qs,
	})
	if err != nil {
		return nil, err
	}
	err = st.UpsertResults(ctx, q.ID, []quiz.Result{
		{Title: "Default", Description: "Default result.", MinScore: 0, MaxScore: float64(3 * questions)},
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}
