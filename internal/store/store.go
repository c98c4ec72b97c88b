// Package store persists quiz content, personalization rules, result
// ranges and recorded answers. Implementations must be safe for concurrent
// use.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/avelinsk/quizflow/internal/quiz"
)

// ErrNotFound is returned when a quiz, result range or other record does
// not exist.
var ErrNotFound = errors.New("not found")

// Store is the data-store contract consumed by the session manager, the
// score resolver and the API layer.
type Store interface {
	// QuizBySlug returns the quiz addressed by slug.
	QuizBySlug(ctx context.Context, slug string) (*quiz.Quiz, error)

	// ListQuizzes returns all quizzes, newest first.
	ListQuizzes(ctx context.Context) ([]quiz.Quiz, error)

	// QuestionsByQuiz returns the quiz's questions in presentation order.
	QuestionsByQuiz(ctx context.Context, quizID string) ([]quiz.Question, error)

	// OptionValues resolves option ids to their numeric scoring weights.
	// Unknown ids are simply absent from the returned map.
	OptionValues(ctx context.Context, optionIDs []string) (map[string]float64, error)

	// RulesByQuiz returns the quiz's personalization rules.
	RulesByQuiz(ctx context.Context, quizID string) ([]quiz.Rule, error)

	// ResultsByQuiz returns the quiz's result ranges ordered by MinScore.
	ResultsByQuiz(ctx context.Context, quizID string) ([]quiz.Result, error)

	// ResultForScore returns the result record whose [MinScore, MaxScore]
	// range contains the score, or ErrNotFound.
	ResultForScore(ctx context.Context, quizID string, score float64) (*quiz.Result, error)

	// UpsertQuiz creates or replaces a quiz and its question list, keyed
	// by slug.
	UpsertQuiz(ctx context.Context, params UpsertQuizParams) (*quiz.Quiz, error)

	// UpsertRules replaces the quiz's rule set.
	UpsertRules(ctx context.Context, quizID string, rules []quiz.Rule) error

	// UpsertResults replaces the quiz's result ranges.
	UpsertResults(ctx context.Context, quizID string, results []quiz.Result) error

	// RecordAnswer appends one answer record for later analysis. Callers
	// treat this as fire-and-forget.
	RecordAnswer(ctx context.Context, rec AnswerRecord) error

	// Close releases any resources held by the store.
	Close() error
}

// UpsertQuizParams carries a quiz with its full question list.
type UpsertQuizParams struct {
	Quiz      quiz.Quiz       `json:"quiz"`
	Questions []quiz.Question `json:"questions"`
}

// AnswerRecord is one recorded answer tied to a session.
type AnswerRecord struct {
	SessionID  string      `json:"sessionId"`
	QuizID     string      `json:"quizId"`
	Answer     quiz.Answer `json:"answer"`
	RecordedAt time.Time   `json:"recordedAt"`
}
