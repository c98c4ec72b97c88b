package telemetry

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	httpDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	SessionsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quiz_sessions_started_total",
		Help: "Number of quiz sessions started",
	})
	AnswersRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quiz_answers_recorded_total",
		Help: "Number of answers recorded across all sessions",
	})
	MilestonesFired = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quiz_progress_milestones_total",
		Help: "Progress milestone notifications fired, by percent",
	}, []string{"percent"})
	ResultsResolved = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quiz_results_resolved_total",
		Help: "Result resolutions, by outcome (resolved or fallback)",
	}, []string{"outcome"})
	EventsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "analytics_events_dropped_total",
		Help: "Analytics events dropped because the queue was full",
	})
)

func Init() {
	prometheus.MustRegister(httpReqs, httpDur, SessionsStarted, AnswersRecorded, MilestonesFired, ResultsResolved, EventsDropped)
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// get route pattern if available
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}

		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(ww, r)

		httpReqs.WithLabelValues(route, r.Method, http.StatusText(ww.status)).Inc()
		httpDur.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
