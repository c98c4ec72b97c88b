package audit

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const defaultQueueSize = 256

// Service queues audit events and persists them from a background worker.
type Service struct {
	sink   Sink
	queue  chan Event
	done   chan struct{}
	closed int32 // atomic flag to prevent double-close
	log    zerolog.Logger
}

// NewService creates an audit service and starts its worker.
func NewService(sink Sink, log zerolog.Logger) *Service {
	s := &Service{
		sink:  sink,
		queue: make(chan Event, defaultQueueSize),
		done:  make(chan struct{}),
		log:   log,
	}
	go s.worker()
	return s
}

// Record queues one event. Never blocks; when the queue is full the event
// is dropped and logged.
func (s *Service) Record(event Event) {
	if atomic.LoadInt32(&s.closed) == 1 {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	select {
	case s.queue <- event:
	default:
		s.log.Warn().
			Str("action", event.Action).
			Str("resource_id", event.ResourceID).
			Msg("audit queue full, dropping event")
	}
}

// Close drains the queue and stops the worker. Safe to call multiple times.
func (s *Service) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}
	close(s.queue)
	<-s.done
	return nil
}

func (s *Service) worker() {
	defer close(s.done)
	for event := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.sink.Write(ctx, event); err != nil {
			s.log.Error().Err(err).Str("action", event.Action).Msg("audit write failed")
		}
		cancel()
	}
}
