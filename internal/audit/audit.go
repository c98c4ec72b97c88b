// Package audit records who changed quiz content and when. Events are
// written from a background worker; recording never blocks or fails the
// admin request that triggered it.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Action constants for audit logging
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// ResourceType constants for audit logging
const (
	ResourceQuiz    = "quiz"
	ResourceRules   = "rules"
	ResourceResults = "results"
)

// Actor represents who performed the action
type Actor struct {
	Kind    string `json:"kind"` // api_key, system
	Display string `json:"display"`
}

// Source represents request metadata
type Source struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
}

// Event is one canonical audit record.
type Event struct {
	OccurredAt   time.Time      `json:"occurred_at"`
	RequestID    string         `json:"request_id,omitempty"`
	Actor        Actor          `json:"actor"`
	Source       Source         `json:"source"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	Details      map[string]any `json:"details,omitempty"`
}

// Sink persists audit events.
type Sink interface {
	Write(ctx context.Context, event Event) error
}

// LogSink writes audit events to the structured log.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Write(_ context.Context, event Event) error {
	s.log.Info().
		Str("action", event.Action).
		Str("resource_type", event.ResourceType).
		Str("resource_id", event.ResourceID).
		Str("actor", event.Actor.Display).
		Str("ip", event.Source.IPAddress).
		Str("request_id", event.RequestID).
		Fields(event.Details).
		Msg("audit")
	return nil
}

// MemorySink collects events in memory. Used in tests.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Write(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of everything written so far.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
