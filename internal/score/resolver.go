// Package score aggregates answer option weights into a total score and
// resolves it to the result record shown to the user. Resolution failures
// are absorbed at the public boundary: the user always sees a result, in
// the worst case the generic fallback.
package score

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/avelinsk/quizflow/internal/engine"
	"github.com/avelinsk/quizflow/internal/quiz"
	"github.com/avelinsk/quizflow/internal/store"
	"github.com/avelinsk/quizflow/internal/telemetry"
)

// Resolution is the outcome of score/result resolution.
type Resolution struct {
	Score       float64 `json:"score"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Insight     string  `json:"insight,omitempty"`
	Fallback    bool    `json:"-"`
}

// FallbackResolution is what the user sees when any part of resolution
// fails. The texts are part of the product contract.
func FallbackResolution(computedScore float64) Resolution {
	return Resolution{
		Score:       computedScore,
		Title:       "Your Productivity Assessment",
		Description: "Thank you for completing the quiz!",
		Fallback:    true,
	}
}

// Resolver computes scores and matches results against the data store.
type Resolver struct {
	store store.Store
	log   zerolog.Logger
}

// NewResolver creates a resolver backed by the given store.
func NewResolver(st store.Store, log zerolog.Logger) *Resolver {
	return &Resolver{store: st, log: log}
}

// Resolve computes the score and looks up the matching result and insight.
// Errors propagate so the failure path stays testable; the returned
// Resolution always carries the best-effort score, even on error.
func (r *Resolver) Resolve(ctx context.Context, quizID string, answers quiz.AnswerSet) (Resolution, error) {
	res := Resolution{}

	total, err := r.computeScore(ctx, answers)
	if err != nil {
		return res, fmt.Errorf("compute score: %w", err)
	}
	res.Score = total

	result, err := r.store.ResultForScore(ctx, quizID, total)
	if err != nil {
		return res, fmt.Errorf("result for score %v: %w", total, err)
	}
	res.Title = result.Title
	res.Description = result.Description

	rules, err := r.store.RulesByQuiz(ctx, quizID)
	if err != nil {
		return res, fmt.Errorf("rules for quiz %s: %w", quizID, err)
	}
	if matched := engine.Match(answers, rules); matched != nil {
		res.Insight = matched.Insight
	}

	return res, nil
}

// ResolveOrFallback is the public boundary: any resolution failure is
// logged and replaced with the fixed fallback payload, never surfaced.
func (r *Resolver) ResolveOrFallback(ctx context.Context, quizID string, answers quiz.AnswerSet) Resolution {
	res, err := r.Resolve(ctx, quizID, answers)
	if err != nil {
		r.log.Warn().Err(err).Str("quiz_id", quizID).Msg("result resolution failed, using fallback")
		telemetry.ResultsResolved.WithLabelValues("fallback").Inc()
		return FallbackResolution(res.Score)
	}
	telemetry.ResultsResolved.WithLabelValues("resolved").Inc()
	return res
}

// computeScore sums the stored weight of every answer that carries a
// selected option id. Multi-select composites and option-less answers
// contribute nothing.
func (r *Resolver) computeScore(ctx context.Context, answers quiz.AnswerSet) (float64, error) {
	ids := answers.OptionIDs()
	if len(ids) == 0 {
		return 0, nil
	}
	values, err := r.store.OptionValues(ctx, ids)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, id := range ids {
		total += values[id]
	}
	return total, nil
}
