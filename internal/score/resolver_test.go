package score

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/avelinsk/quizflow/internal/quiz"
	"github.com/avelinsk/quizflow/internal/store"
)

func seedStore(t *testing.T) (*store.MemoryStore, string) {
	t.Helper()
	st := store.NewMemoryStore()
	q, err := st.UpsertQuiz(context.Background(), store.UpsertQuizParams{
		Quiz: quiz.Quiz{Slug: "focus-check", Title: "Focus Check"},
		Questions: []quiz.Question{
			{
				Type: quiz.QuestionRadio,
				Text: "How often do you plan your day?",
				Options: []quiz.Option{
					{ID: "plan-never", Text: "Never", Value: 0},
					{ID: "plan-daily", Text: "Daily", Value: 3},
				},
			},
			{
				Type: quiz.QuestionRadio,
				Text: "Do you batch similar tasks?",
				Options: []quiz.Option{
					{ID: "batch-no", Text: "No", Value: 1},
					{ID: "batch-yes", Text: "Yes", Value: 4},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("seed quiz: %v", err)
	}
	return st, q.ID
}

func TestResolve_ScoreAndResult(t *testing.T) {
	ctx := context.Background()
	st, quizID := seedStore(t)
	if err := st.UpsertResults(ctx, quizID, []quiz.Result{
		{Title: "Getting Started", Description: "Room to grow.", MinScore: 0, MaxScore: 4},
		{Title: "Focused", Description: "You run a tight ship.", MinScore: 5, MaxScore: 10},
	}); err != nil {
		t.Fatalf("seed results: %v", err)
	}

	answers := quiz.AnswerSet{
		{Step: 0, Value: quiz.Text("Daily"), OptionID: "plan-daily"},
		{Step: 1, Value: quiz.Text("Yes"), OptionID: "batch-yes"},
	}

	r := NewResolver(st, zerolog.Nop())
	res, err := r.Resolve(ctx, quizID, answers)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Score != 7 {
		t.Fatalf("score = %v, want 7", res.Score)
	}
	if res.Title != "Focused" {
		t.Fatalf("title = %q, want Focused", res.Title)
	}
	if res.Fallback {
		t.Fatal("resolution marked as fallback")
	}
}

func TestResolve_InsightFromMatchedRule(t *testing.T) {
	ctx := context.Background()
	st, quizID := seedStore(t)
	if err := st.UpsertResults(ctx, quizID, []quiz.Result{
		{Title: "Any", Description: "any", MinScore: 0, MaxScore: 100},
	}); err != nil {
		t.Fatalf("seed results: %v", err)
	}
	if err := st.UpsertRules(ctx, quizID, []quiz.Rule{
		{
			Condition: quiz.Condition{Type: quiz.CondEquals, Step: quiz.StepRef(0), Value: "Daily"},
			Insight:   "Daily planning is your anchor habit.",
		},
	}); err != nil {
		t.Fatalf("seed rules: %v", err)
	}

	answers := quiz.AnswerSet{{Step: 0, Value: quiz.Text("Daily"), OptionID: "plan-daily"}}
	r := NewResolver(st, zerolog.Nop())
	res, err := r.Resolve(ctx, quizID, answers)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Insight != "Daily planning is your anchor habit." {
		t.Fatalf("insight = %q", res.Insight)
	}
}

func TestResolve_NoMatchingRange(t *testing.T) {
	ctx := context.Background()
	st, quizID := seedStore(t)

	r := NewResolver(st, zerolog.Nop())
	answers := quiz.AnswerSet{{Step: 0, Value: quiz.Text("Daily"), OptionID: "plan-daily"}}
	res, err := r.Resolve(ctx, quizID, answers)
	if err == nil {
		t.Fatal("Resolve succeeded with no result ranges")
	}
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound in chain", err)
	}
	// The best-effort score survives the failure so fallbacks can show it.
	if res.Score != 3 {
		t.Fatalf("score on error = %v, want 3", res.Score)
	}
}

func TestResolveOrFallback(t *testing.T) {
	ctx := context.Background()
	st, quizID := seedStore(t)

	r := NewResolver(st, zerolog.Nop())
	answers := quiz.AnswerSet{{Step: 0, Value: quiz.Text("Daily"), OptionID: "plan-daily"}}
	res := r.ResolveOrFallback(ctx, quizID, answers)
	if !res.Fallback {
		t.Fatal("expected fallback resolution")
	}
	if res.Title != "Your Productivity Assessment" || res.Description != "Thank you for completing the quiz!" {
		t.Fatalf("fallback payload = %+v", res)
	}
	if res.Score != 3 {
		t.Fatalf("fallback score = %v, want 3", res.Score)
	}
}

func TestComputeScore_IgnoresOptionlessAnswers(t *testing.T) {
	ctx := context.Background()
	st, quizID := seedStore(t)
	if err := st.UpsertResults(ctx, quizID, []quiz.Result{
		{Title: "Any", Description: "any", MinScore: 0, MaxScore: 100},
	}); err != nil {
		t.Fatalf("seed results: %v", err)
	}

	answers := quiz.AnswerSet{
		{Step: 0, Value: quiz.Text("Daily"), OptionID: "plan-daily"},
		{Step: 1, Value: quiz.Multi([]string{"a", "b"}...)},
		{Step: 2, Value: quiz.Bool(true)},
	}
	r := NewResolver(st, zerolog.Nop())
	res, err := r.Resolve(ctx, quizID, answers)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Score != 3 {
		t.Fatalf("score = %v, want 3 (only the option-backed answer counts)", res.Score)
	}
}
