// Package session tracks one visitor's walk through a quiz: current
// position in the step sequence, the answers collected so far, derived
// progress and milestone instrumentation. The state machine itself is
// pure; persistence and event emission live in the Manager.
package session

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/avelinsk/quizflow/internal/quiz"
	"github.com/avelinsk/quizflow/internal/score"
)

// Milestone progress marks, in percent.
const (
	MilestoneQuarter      = 25
	MilestoneHalf         = 50
	MilestoneThreeQuarter = 75
)

// Session is the persisted state of one quiz walkthrough. One session is
// owned by one visitor; there are no concurrent writers.
type Session struct {
	ID          string         `json:"id"`
	QuizID      string         `json:"quizId"`
	Slug        string         `json:"slug"`
	VisitorID   string         `json:"visitorId,omitempty"`
	CurrentStep int            `json:"currentStep"`
	TotalSteps  int            `json:"totalSteps"`
	Answers     quiz.AnswerSet `json:"answers"`
	AgeRange    string         `json:"ageRange,omitempty"`

	// Milestone75Fired is the one-shot guard for the 75% milestone. It is
	// re-armed when the visitor navigates back below 75%.
	Milestone75Fired bool `json:"milestone75Fired"`

	// Calculated gates result resolution so repeated result reads do not
	// re-run scoring or double-count analytics.
	Calculated bool              `json:"calculated"`
	Outcome    *score.Resolution `json:"outcome,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New creates a session at step zero with a fresh ID.
func New(quizID, slug, visitorID string, totalSteps int) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:         uuid.NewString(),
		QuizID:     quizID,
		Slug:       slug,
		VisitorID:  visitorID,
		TotalSteps: totalSteps,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// SetAnswer upserts one answer keyed by step: replace if the step was
// already answered, append otherwise. Never fails; the caller is
// responsible for sending a value consistent with the step's question type.
func (s *Session) SetAnswer(a quiz.Answer) {
	s.Answers = s.Answers.Upsert(a)
}

// Progress is the percentage of steps completed, rounded to the nearest
// integer. Zero while the step model is not yet known.
func (s *Session) Progress() int {
	if s.TotalSteps <= 0 {
		return 0
	}
	return int(math.Round(float64(s.CurrentStep) / float64(s.TotalSteps) * 100))
}

// Advance moves forward by exactly one step. At the last step it is a
// silent no-op. It returns whether the position changed and the milestone
// percentages crossed by the move. Rounded progress can jump over an exact
// mark when the step count does not divide evenly, so 25 and 50 fire on
// crossing; 75 fires once upon reaching or passing it until re-armed.
func (s *Session) Advance() (moved bool, milestones []int) {
	if s.TotalSteps <= 0 || s.CurrentStep >= s.TotalSteps-1 {
		return false, nil
	}
	prev := s.Progress()
	s.CurrentStep++

	p := s.Progress()
	if prev < MilestoneQuarter && p >= MilestoneQuarter {
		milestones = append(milestones, MilestoneQuarter)
	}
	if prev < MilestoneHalf && p >= MilestoneHalf {
		milestones = append(milestones, MilestoneHalf)
	}
	if p >= MilestoneThreeQuarter && !s.Milestone75Fired {
		s.Milestone75Fired = true
		milestones = append(milestones, MilestoneThreeQuarter)
	}
	return true, milestones
}

// Retreat moves backward by exactly one step; a silent no-op at step 0.
// Dropping back below the 75% mark re-arms the one-shot milestone guard.
func (s *Session) Retreat() bool {
	if s.CurrentStep <= 0 {
		return false
	}
	s.CurrentStep--
	if s.Progress() < MilestoneThreeQuarter {
		s.Milestone75Fired = false
	}
	return true
}

// Reset clears the collected answers, the position, the derived age-range
// selection and the milestone guard, and discards any resolved outcome.
// The visitor identity survives a reset.
func (s *Session) Reset() {
	s.Answers = nil
	s.CurrentStep = 0
	s.AgeRange = ""
	s.Milestone75Fired = false
	s.Calculated = false
	s.Outcome = nil
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	out := *s
	if s.Answers != nil {
		out.Answers = make(quiz.AnswerSet, len(s.Answers))
		copy(out.Answers, s.Answers)
	}
	if s.Outcome != nil {
		outcome := *s.Outcome
		out.Outcome = &outcome
	}
	return &out
}
