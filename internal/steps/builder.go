// Package steps builds the ordered step sequence a quiz session walks
// through: the questions in their original order, interstitial content
// spliced in at configured points, and the trailing summary and result
// steps. A sequence is built once per quiz load and never reordered.
package steps

import "github.com/avelinsk/quizflow/internal/quiz"

// Type identifies what a step presents.
type Type string

const (
	TypeQuestion     Type = "question"
	TypeInfo         Type = "info"
	TypeExpertReview Type = "expert-review"
	TypeCommunity    Type = "community"
	TypeSummary      Type = "summary"
	TypeResult       Type = "result"
)

// Interstitial is the payload of a non-question content step.
type Interstitial struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
}

// Summary is the payload of the summary step. Score and result text start
// as placeholders and are replaced once resolution runs.
type Summary struct {
	Score             float64 `json:"score"`
	ResultTitle       string  `json:"resultTitle"`
	ResultDescription string  `json:"resultDescription"`
}

// Step is one position in the quiz presentation sequence. Exactly one of
// the payload fields is set, matching Type.
type Step struct {
	Index    int            `json:"index"`
	Type     Type           `json:"type"`
	Question *quiz.Question `json:"question,omitempty"`
	Content  *Interstitial  `json:"content,omitempty"`
	Summary  *Summary       `json:"summary,omitempty"`
}

// Insertion splices one interstitial step into the sequence directly after
// the question at AfterQuestionIndex (an index into the original question
// list, not into the built sequence). Insertions sharing an index keep
// their relative order. An insertion whose index is beyond the question
// list is skipped silently.
type Insertion struct {
	AfterQuestionIndex int
	Type               Type
	Content            Interstitial
}

// DefaultInsertions reproduces the funnel's editorial layout: a science
// info card after the 23rd question and the expert-review plus community
// cards after the 25th.
func DefaultInsertions() []Insertion {
	return []Insertion{
		{
			AfterQuestionIndex: 22,
			Type:               TypeInfo,
			Content: Interstitial{
				ID:      "science-info",
				Title:   "Backed by behavioral science",
				Content: "Your answers so far already outline a pattern. The remaining questions sharpen it.",
			},
		},
		{
			AfterQuestionIndex: 24,
			Type:               TypeExpertReview,
			Content: Interstitial{
				ID:    "expert-review",
				Title: "Reviewed by productivity coaches",
			},
		},
		{
			AfterQuestionIndex: 24,
			Type:               TypeCommunity,
			Content: Interstitial{
				ID:    "community",
				Title: "Join thousands who finished this assessment",
			},
		},
	}
}

// placeholderSummary seeds the summary step before resolution runs.
func placeholderSummary() *Summary {
	return &Summary{
		Score:             0,
		ResultTitle:       "Calculating your result",
		ResultDescription: "Hold on while we match your answers.",
	}
}

// Build walks the question list in order and emits the full step sequence:
// one question step per question, the configured insertions after their
// question indices, then exactly one summary step and one terminal result
// step. The output is append-only during construction and immutable after.
func Build(questions []quiz.Question, insertions []Insertion) []Step {
	out := make([]Step, 0, len(questions)+len(insertions)+2)

	appendStep := func(s Step) {
		s.Index = len(out)
		out = append(out, s)
	}

	for i := range questions {
		q := questions[i]
		appendStep(Step{Type: TypeQuestion, Question: &q})
		for _, ins := range insertions {
			if ins.AfterQuestionIndex != i {
				continue
			}
			content := ins.Content
			appendStep(Step{Type: ins.Type, Content: &content})
		}
	}

	appendStep(Step{Type: TypeSummary, Summary: placeholderSummary()})
	appendStep(Step{Type: TypeResult})
	return out
}
