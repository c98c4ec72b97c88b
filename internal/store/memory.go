package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avelinsk/quizflow/internal/quiz"
)

// MemoryStore is an in-memory implementation of the Store interface, backed
// by maps under an RWMutex. Suitable for development, testing and
// single-instance deployments.
type MemoryStore struct {
	mu        sync.RWMutex
	quizzes   map[string]quiz.Quiz       // id -> quiz
	bySlug    map[string]string          // slug -> id
	questions map[string][]quiz.Question // quiz id -> questions
	options   map[string]float64         // option id -> weight
	rules     map[string][]quiz.Rule     // quiz id -> rules
	results   map[string][]quiz.Result   // quiz id -> results
	answers   []AnswerRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		quizzes:   make(map[string]quiz.Quiz),
		bySlug:    make(map[string]string),
		questions: make(map[string][]quiz.Question),
		options:   make(map[string]float64),
		rules:     make(map[string][]quiz.Rule),
		results:   make(map[string][]quiz.Result),
	}
}

func (m *MemoryStore) QuizBySlug(ctx context.Context, slug string) (*quiz.Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.bySlug[slug]
	if !ok {
		return nil, ErrNotFound
	}
	q := m.quizzes[id]
	return &q, nil
}

func (m *MemoryStore) ListQuizzes(ctx context.Context) ([]quiz.Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]quiz.Quiz, 0, len(m.quizzes))
	for _, q := range m.quizzes {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Slug < out[j].Slug
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) QuestionsByQuiz(ctx context.Context, quizID string) ([]quiz.Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	qs := m.questions[quizID]
	out := make([]quiz.Question, len(qs))
	copy(out, qs)
	return out, nil
}

func (m *MemoryStore) OptionValues(ctx context.Context, optionIDs []string) (map[string]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]float64, len(optionIDs))
	for _, id := range optionIDs {
		if v, ok := m.options[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

func (m *MemoryStore) RulesByQuiz(ctx context.Context, quizID string) ([]quiz.Rule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rs := m.rules[quizID]
	out := make([]quiz.Rule, len(rs))
	copy(out, rs)
	return out, nil
}

func (m *MemoryStore) ResultsByQuiz(ctx context.Context, quizID string) ([]quiz.Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rs := m.results[quizID]
	out := make([]quiz.Result, len(rs))
	copy(out, rs)
	return out, nil
}

func (m *MemoryStore) ResultForScore(ctx context.Context, quizID string, score float64) (*quiz.Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.results[quizID] {
		if score >= r.MinScore && score <= r.MaxScore {
			res := r
			return &res, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) UpsertQuiz(ctx context.Context, params UpsertQuizParams) (*quiz.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q := params.Quiz
	if existing, ok := m.bySlug[q.Slug]; ok {
		prev := m.quizzes[existing]
		q.ID = prev.ID
		q.CreatedAt = prev.CreatedAt
		// A replaced question list drops the old option weights.
		for _, oldQ := range m.questions[q.ID] {
			for _, opt := range oldQ.Options {
				delete(m.options, opt.ID)
			}
		}
	} else {
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		q.CreatedAt = time.Now().UTC()
	}

	questions := make([]quiz.Question, len(params.Questions))
	copy(questions, params.Questions)
	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = uuid.NewString()
		}
		questions[i].QuizID = q.ID
		for j := range questions[i].Options {
			if questions[i].Options[j].ID == "" {
				questions[i].Options[j].ID = uuid.NewString()
			}
			m.options[questions[i].Options[j].ID] = questions[i].Options[j].Value
		}
	}

	m.quizzes[q.ID] = q
	m.bySlug[q.Slug] = q.ID
	m.questions[q.ID] = questions
	return &q, nil
}

func (m *MemoryStore) UpsertRules(ctx context.Context, quizID string, rules []quiz.Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]quiz.Rule, len(rules))
	copy(out, rules)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = uuid.NewString()
		}
	}
	m.rules[quizID] = out
	return nil
}

func (m *MemoryStore) UpsertResults(ctx context.Context, quizID string, results []quiz.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]quiz.Result, len(results))
	copy(out, results)
	now := time.Now().UTC()
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = uuid.NewString()
		}
		out[i].QuizID = quizID
		if out[i].CreatedAt.IsZero() {
			out[i].CreatedAt = now
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MinScore < out[j].MinScore })
	m.results[quizID] = out
	return nil
}

func (m *MemoryStore) RecordAnswer(ctx context.Context, rec AnswerRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.answers = append(m.answers, rec)
	return nil
}

// RecordedAnswers returns a copy of everything recorded so far. Test hook.
func (m *MemoryStore) RecordedAnswers() []AnswerRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]AnswerRecord, len(m.answers))
	copy(out, m.answers)
	return out
}

// Close is a no-op for MemoryStore.
func (m *MemoryStore) Close() error { return nil }
