// Package events delivers fire-and-forget analytics events. Tracking never
// blocks the caller and never surfaces an error: a slow or broken collector
// costs events, not quiz progress.
package events

import (
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
)

// Event is one named analytics event with free-form properties.
type Event struct {
	Name       string         `json:"name"`
	SessionID  string         `json:"sessionId,omitempty"`
	VisitorID  string         `json:"visitorId,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// Sink accepts events for delivery.
type Sink interface {
	Track(event Event)
}

// AnonymizeVisitor hashes a raw visitor identity so events carry a stable
// but non-reversible id. The salt keeps low-entropy visitor ids from being
// recovered by brute-forcing the hash.
func AnonymizeVisitor(salt, id string) string {
	if id == "" {
		return ""
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(salt+id))
}

// NopSink drops everything. Used in tests.
type NopSink struct{}

func (NopSink) Track(Event) {}

// LogSink writes events to the log. The default sink when no collector
// endpoint is configured.
type LogSink struct {
	log zerolog.Logger
}

// NewLogSink creates a sink that logs each event at debug level.
func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Track(event Event) {
	s.log.Debug().
		Str("event", event.Name).
		Str("session_id", event.SessionID).
		Str("visitor_id", event.VisitorID).
		Fields(event.Properties).
		Msg("event tracked")
}
