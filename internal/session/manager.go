package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/avelinsk/quizflow/internal/events"
	"github.com/avelinsk/quizflow/internal/quiz"
	"github.com/avelinsk/quizflow/internal/score"
	"github.com/avelinsk/quizflow/internal/steps"
	"github.com/avelinsk/quizflow/internal/store"
	"github.com/avelinsk/quizflow/internal/telemetry"
)

// Event names emitted by the manager.
const (
	EventQuizStarted      = "quiz_started"
	EventAnswerSelected   = "answer_selected"
	EventNextStep         = "quiz_next_step"
	EventPrevStep         = "quiz_prev_step"
	EventProgressPrefix   = "quiz_progress_"
	EventQuizReset        = "quiz_reset"
	EventQuizCompleted    = "quiz_completed"
	EventAgeRangeSelected = "age_range_selected"
)

// Manager orchestrates sessions: it loads and saves them through the
// repository on every mutation, rebuilds step models from stored quiz
// content, and emits analytics events. All navigation semantics live on
// the Session type itself.
type Manager struct {
	store       store.Store
	sessions    Repository
	sink        events.Sink
	resolver    *score.Resolver
	insertions  []steps.Insertion
	visitorSalt string
	log         zerolog.Logger
}

// NewManager wires a manager with the default interstitial layout.
func NewManager(st store.Store, repo Repository, sink events.Sink, resolver *score.Resolver, log zerolog.Logger) *Manager {
	return &Manager{
		store:      st,
		sessions:   repo,
		sink:       sink,
		resolver:   resolver,
		insertions: steps.DefaultInsertions(),
		log:        log,
	}
}

// SetInsertions overrides the interstitial insertion points. Intended for
// tests and non-default funnels; must be called before sessions start.
func (m *Manager) SetInsertions(ins []steps.Insertion) { m.insertions = ins }

// SetVisitorSalt sets the salt mixed into anonymized visitor ids on
// outgoing events. Must be called before sessions start.
func (m *Manager) SetVisitorSalt(salt string) { m.visitorSalt = salt }

// Start creates a session for the quiz addressed by slug and returns it
// with the built step sequence.
func (m *Manager) Start(ctx context.Context, slug, visitorID string) (*Session, []steps.Step, error) {
	q, err := m.store.QuizBySlug(ctx, slug)
	if err != nil {
		return nil, nil, fmt.Errorf("quiz %q: %w", slug, err)
	}
	questions, err := m.store.QuestionsByQuiz(ctx, q.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("questions for quiz %q: %w", slug, err)
	}

	stepList := steps.Build(questions, m.insertions)
	s := New(q.ID, q.Slug, visitorID, len(stepList))
	if err := m.sessions.Save(ctx, s); err != nil {
		return nil, nil, fmt.Errorf("save session: %w", err)
	}

	telemetry.SessionsStarted.Inc()
	m.track(s, EventQuizStarted, map[string]any{"slug": q.Slug, "totalSteps": s.TotalSteps})
	return s, stepList, nil
}

// Get loads an existing session.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.sessions.Load(ctx, id)
}

// StepsFor rebuilds the step sequence for a session's quiz. The question
// list is immutable per quiz version, so the rebuild is deterministic and
// equivalent to the sequence built at Start.
func (m *Manager) StepsFor(ctx context.Context, s *Session) ([]steps.Step, error) {
	questions, err := m.store.QuestionsByQuiz(ctx, s.QuizID)
	if err != nil {
		return nil, fmt.Errorf("questions for quiz %s: %w", s.QuizID, err)
	}
	return steps.Build(questions, m.insertions), nil
}

// SetAnswer upserts one answer and persists the session. The answer is
// also recorded to the data store as fire-and-forget: a recording failure
// is logged, never propagated.
func (m *Manager) SetAnswer(ctx context.Context, id string, a quiz.Answer) (*Session, error) {
	s, err := m.sessions.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.SetAnswer(a)
	s.UpdatedAt = time.Now().UTC()
	if err := m.sessions.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	if err := m.store.RecordAnswer(ctx, store.AnswerRecord{
		SessionID:  s.ID,
		QuizID:     s.QuizID,
		Answer:     a,
		RecordedAt: s.UpdatedAt,
	}); err != nil {
		m.log.Warn().Err(err).Str("session_id", s.ID).Int("step", a.Step).Msg("answer recording failed")
	}

	telemetry.AnswersRecorded.Inc()
	m.track(s, EventAnswerSelected, map[string]any{"step": a.Step, "questionId": a.QuestionID})
	return s, nil
}

// Next advances the session one step; a no-op beyond the last step.
// Milestone crossings are tracked as separate events.
func (m *Manager) Next(ctx context.Context, id string) (*Session, error) {
	s, err := m.sessions.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	moved, milestones := s.Advance()
	if !moved {
		return s, nil
	}
	s.UpdatedAt = time.Now().UTC()
	if err := m.sessions.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	m.track(s, EventNextStep, map[string]any{"step": s.CurrentStep, "progress": s.Progress()})
	for _, pct := range milestones {
		telemetry.MilestonesFired.WithLabelValues(strconv.Itoa(pct)).Inc()
		m.track(s, EventProgressPrefix+strconv.Itoa(pct), map[string]any{"step": s.CurrentStep})
	}
	return s, nil
}

// Prev steps the session back; a no-op at step 0.
func (m *Manager) Prev(ctx context.Context, id string) (*Session, error) {
	s, err := m.sessions.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.Retreat() {
		return s, nil
	}
	s.UpdatedAt = time.Now().UTC()
	if err := m.sessions.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	m.track(s, EventPrevStep, map[string]any{"step": s.CurrentStep, "progress": s.Progress()})
	return s, nil
}

// SelectAgeRange stores the visitor's derived age-range selection.
func (m *Manager) SelectAgeRange(ctx context.Context, id, ageRange string) (*Session, error) {
	s, err := m.sessions.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.AgeRange = ageRange
	s.UpdatedAt = time.Now().UTC()
	if err := m.sessions.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	m.track(s, EventAgeRangeSelected, map[string]any{"ageRange": ageRange})
	return s, nil
}

// Reset clears the session back to its initial state, keeping the visitor
// identity.
func (m *Manager) Reset(ctx context.Context, id string) (*Session, error) {
	s, err := m.sessions.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Reset()
	s.UpdatedAt = time.Now().UTC()
	if err := m.sessions.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	m.track(s, EventQuizReset, nil)
	return s, nil
}

// Result resolves (at most once per session) and returns the session with
// its outcome populated. Repeated calls return the stored outcome without
// re-running resolution or re-emitting the completion event.
func (m *Manager) Result(ctx context.Context, id string) (*Session, error) {
	s, err := m.sessions.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Calculated && s.Outcome != nil {
		return s, nil
	}

	res := m.resolver.ResolveOrFallback(ctx, s.QuizID, s.Answers)
	s.Outcome = &res
	s.Calculated = true
	s.UpdatedAt = time.Now().UTC()
	if err := m.sessions.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	m.track(s, EventQuizCompleted, map[string]any{"score": res.Score, "fallback": res.Fallback})
	return s, nil
}

func (m *Manager) track(s *Session, name string, props map[string]any) {
	m.sink.Track(events.Event{
		Name:       name,
		SessionID:  s.ID,
		VisitorID:  events.AnonymizeVisitor(m.visitorSalt, s.VisitorID),
		Properties: props,
		OccurredAt: time.Now().UTC(),
	})
}
