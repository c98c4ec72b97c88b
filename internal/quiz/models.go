// Package quiz defines the domain model shared across the service: quiz
// content, answers, personalization rules and result records.
package quiz

import "time"

// QuestionType defines how a question is presented and answered.
type QuestionType string

const (
	QuestionRadio       QuestionType = "radio"
	QuestionBoolean     QuestionType = "boolean"
	QuestionLikert      QuestionType = "likert"
	QuestionMultiSelect QuestionType = "multiselect"
)

// Quiz is one published quiz funnel, addressed by slug.
type Quiz struct {
	ID          string    `json:"id" yaml:"id"`
	Slug        string    `json:"slug" yaml:"slug"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt,omitempty"`
}

// Option is one selectable answer option with a numeric scoring weight.
type Option struct {
	ID          string  `json:"id" yaml:"id"`
	Text        string  `json:"text" yaml:"text"`
	Value       float64 `json:"value" yaml:"value"`
	OrderNumber int     `json:"orderNumber" yaml:"orderNumber"`
}

// Question is one quiz question with its ordered options.
type Question struct {
	ID      string       `json:"id" yaml:"id"`
	QuizID  string       `json:"quizId" yaml:"quizId,omitempty"`
	Type    QuestionType `json:"type" yaml:"type"`
	Text    string       `json:"text" yaml:"text"`
	Options []Option     `json:"optionsData" yaml:"options"`
}

// Result is a score-range outcome record. A computed score resolves to the
// record whose [MinScore, MaxScore] range contains it.
type Result struct {
	ID          string    `json:"id" yaml:"id"`
	QuizID      string    `json:"quizId" yaml:"quizId,omitempty"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	MinScore    float64   `json:"minScore" yaml:"minScore"`
	MaxScore    float64   `json:"maxScore" yaml:"maxScore"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt,omitempty"`
}

// Rule maps a condition tree to an insight shown alongside the result.
type Rule struct {
	ID        string    `json:"id" yaml:"id"`
	Condition Condition `json:"condition" yaml:"condition"`
	Insight   string    `json:"insight" yaml:"insight"`
}

// Answer is one recorded user response, keyed by step position. At most one
// answer exists per step within a session; setting an answer for an
// already-answered step replaces it in place.
type Answer struct {
	Step       int         `json:"step"`
	Value      AnswerValue `json:"value"`
	QuestionID string      `json:"questionId,omitempty"`
	OptionID   string      `json:"selectedOptionId,omitempty"`
}

// AnswerSet is the ordered collection of answers for one session.
type AnswerSet []Answer

// ByStep returns the answer recorded at the given step, if any.
func (s AnswerSet) ByStep(step int) (Answer, bool) {
	for _, a := range s {
		if a.Step == step {
			return a, true
		}
	}
	return Answer{}, false
}

// Upsert replaces the answer at a.Step if one exists, otherwise appends.
// Returns the updated set.
func (s AnswerSet) Upsert(a Answer) AnswerSet {
	for i := range s {
		if s[i].Step == a.Step {
			s[i] = a
			return s
		}
	}
	return append(s, a)
}

// OptionIDs collects the selected option ids of all answers that carry one,
// in answer order. Multi-select answers keep their option ids inside the
// value and are not included here.
func (s AnswerSet) OptionIDs() []string {
	ids := make([]string, 0, len(s))
	for _, a := range s {
		if a.OptionID != "" {
			ids = append(ids, a.OptionID)
		}
	}
	return ids
}
