package events

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/avelinsk/quizflow/internal/telemetry"
)

const (
	// queueSize is the buffer size for the event queue.
	queueSize = 1000

	defaultTimeout = 5 * time.Second
)

// Dispatcher forwards events to an HTTP collector endpoint from a
// background worker. Track is non-blocking; when the queue is full the
// event is dropped and counted.
type Dispatcher struct {
	endpoint  string
	client    *http.Client
	queue     chan Event
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	log       zerolog.Logger
}

// NewDispatcher creates a dispatcher targeting the given collector URL.
// Call Start before tracking and Close on shutdown.
func NewDispatcher(endpoint string, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: defaultTimeout},
		queue:    make(chan Event, queueSize),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		log:      log,
	}
}

// Start begins processing events from the queue.
func (d *Dispatcher) Start() {
	go d.worker()
}

// Close gracefully shuts down the dispatcher: it stops accepting events and
// waits for queued deliveries to finish. Safe to call multiple times and
// safe against concurrent Track calls; the queue channel itself is never
// closed, so a racing Track drops its event instead of panicking.
func (d *Dispatcher) Close() error {
	d.closeOnce.Do(func() {
		close(d.stop)
		<-d.done
	})
	return nil
}

// Track queues an event for delivery. Never blocks; drops when full or
// after Close.
func (d *Dispatcher) Track(event Event) {
	select {
	case <-d.stop:
		return
	default:
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	select {
	case d.queue <- event:
	default:
		telemetry.EventsDropped.Inc()
		d.log.Warn().
			Str("event", event.Name).
			Int("queue_size", queueSize).
			Msg("event queue full, dropping event")
	}
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for {
		select {
		case event := <-d.queue:
			d.deliver(event)
		case <-d.stop:
			for {
				select {
				case event := <-d.queue:
					d.deliver(event)
				default:
					return
				}
			}
		}
	}
}

// deliver posts one event. Failures are logged and swallowed; there is no
// retry, the collector is best-effort by contract.
func (d *Dispatcher) deliver(event Event) {
	body, err := json.Marshal(event)
	if err != nil {
		d.log.Error().Err(err).Str("event", event.Name).Msg("failed to encode event")
		return
	}

	resp, err := d.client.Post(d.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		d.log.Warn().Err(err).Str("event", event.Name).Msg("event delivery failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		d.log.Warn().
			Int("status", resp.StatusCode).
			Str("event", event.Name).
			Msg("collector rejected event")
	}
}
