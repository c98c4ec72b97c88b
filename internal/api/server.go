// Package api is the HTTP surface of the quiz service: public quiz and
// session endpoints plus a small bearer-protected admin surface for
// content management.
package api

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"github.com/avelinsk/quizflow/internal/audit"
	"github.com/avelinsk/quizflow/internal/session"
	"github.com/avelinsk/quizflow/internal/store"
	"github.com/avelinsk/quizflow/internal/telemetry"
)

// maxBodyBytes caps request bodies on write endpoints.
const maxBodyBytes = 1 << 20

type Server struct {
	store       store.Store
	sessions    *session.Manager
	log         zerolog.Logger
	adminAPIKey string
	audit       *audit.Service

	rateLimitPerIP int
	rateLimitAdmin int
}

// Option configures optional server behavior.
type Option func(*Server)

// WithRateLimits overrides the default per-IP and admin rate limits.
func WithRateLimits(perIP, admin int) Option {
	return func(s *Server) {
		s.rateLimitPerIP = perIP
		s.rateLimitAdmin = admin
	}
}

// WithAudit enables audit logging of admin content changes.
func WithAudit(svc *audit.Service) Option {
	return func(s *Server) {
		s.audit = svc
	}
}

func NewServer(st store.Store, mgr *session.Manager, adminKey string, log zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		store:          st,
		sessions:       mgr,
		log:            log,
		adminAPIKey:    adminKey,
		rateLimitPerIP: 100,
		rateLimitAdmin: 60,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Second))
	r.Use(telemetry.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		if s.rateLimitPerIP > 0 {
			r.Use(httprate.LimitByIP(s.rateLimitPerIP, time.Minute))
		}

		r.Get("/v1/quizzes", s.handleListQuizzes)
		r.Get("/v1/quizzes/{slug}", s.handleGetQuiz)

		r.Post("/v1/sessions", s.handleStartSession)
		r.Get("/v1/sessions/{id}", s.handleGetSession)
		r.Put("/v1/sessions/{id}/answers", s.handleSetAnswer)
		r.Post("/v1/sessions/{id}/next", s.handleNext)
		r.Post("/v1/sessions/{id}/prev", s.handlePrev)
		r.Post("/v1/sessions/{id}/reset", s.handleReset)
		r.Put("/v1/sessions/{id}/age-range", s.handleAgeRange)
		r.Get("/v1/sessions/{id}/result", s.handleResult)
	})

	r.Group(func(r chi.Router) {
		if s.rateLimitAdmin > 0 {
			r.Use(httprate.LimitByIP(s.rateLimitAdmin, time.Minute))
		}

		r.Put("/v1/admin/quizzes", s.authAdmin(s.handleUpsertQuiz))
		r.Get("/v1/admin/quizzes/{slug}/rules", s.authAdmin(s.handleGetRules))
		r.Put("/v1/admin/quizzes/{slug}/rules", s.authAdmin(s.handleUpsertRules))
		r.Get("/v1/admin/quizzes/{slug}/results", s.authAdmin(s.handleGetResults))
		r.Put("/v1/admin/quizzes/{slug}/results", s.authAdmin(s.handleUpsertResults))
	})

	return r
}

// ---- middleware & helpers ----

func (s *Server) authAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			UnauthorizedError(w, r, "missing bearer token")
			return
		}
		got := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if got == "" {
			UnauthorizedError(w, r, "missing bearer token")
			return
		}
		// constant-time compare
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.adminAPIKey)) != 1 {
			ForbiddenError(w, r, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// decodeJSON decodes a size-capped JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
