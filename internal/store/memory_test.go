package store

import (
	"context"
	"errors"
	"testing"

	"github.com/avelinsk/quizflow/internal/quiz"
)

func TestMemoryStore_UpsertQuizRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	q, err := m.UpsertQuiz(ctx, UpsertQuizParams{
		Quiz: quiz.Quiz{Slug: "focus-check", Title: "Focus Check"},
		Questions: []quiz.Question{
			{Type: quiz.QuestionRadio, Text: "Q1", Options: []quiz.Option{
				{Text: "a", Value: 1},
				{Text: "b", Value: 2},
			}},
		},
	})
	if err != nil {
		t.Fatalf("UpsertQuiz: %v", err)
	}
	if q.ID == "" {
		t.Fatal("quiz got no id")
	}

	got, err := m.QuizBySlug(ctx, "focus-check")
	if err != nil {
		t.Fatalf("QuizBySlug: %v", err)
	}
	if got.ID != q.ID || got.Title != "Focus Check" {
		t.Fatalf("fetched quiz = %+v", got)
	}

	questions, err := m.QuestionsByQuiz(ctx, q.ID)
	if err != nil {
		t.Fatalf("QuestionsByQuiz: %v", err)
	}
	if len(questions) != 1 || len(questions[0].Options) != 2 {
		t.Fatalf("questions = %+v", questions)
	}
	for _, opt := range questions[0].Options {
		if opt.ID == "" {
			t.Fatal("option got no id")
		}
	}
}

func TestMemoryStore_UpsertQuizKeepsIdentityOnSlugConflict(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	first, err := m.UpsertQuiz(ctx, UpsertQuizParams{
		Quiz: quiz.Quiz{Slug: "focus-check", Title: "v1"},
		Questions: []quiz.Question{
			{Text: "old", Options: []quiz.Option{{ID: "old-opt", Value: 9}}},
		},
	})
	if err != nil {
		t.Fatalf("UpsertQuiz: %v", err)
	}

	second, err := m.UpsertQuiz(ctx, UpsertQuizParams{
		Quiz: quiz.Quiz{Slug: "focus-check", Title: "v2"},
		Questions: []quiz.Question{
			{Text: "new", Options: []quiz.Option{{ID: "new-opt", Value: 2}}},
		},
	})
	if err != nil {
		t.Fatalf("repeat UpsertQuiz: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("slug conflict changed id: %s -> %s", first.ID, second.ID)
	}
	if second.Title != "v2" {
		t.Fatalf("title = %q, want v2", second.Title)
	}

	// Old option weights are gone, new ones are live.
	values, err := m.OptionValues(ctx, []string{"old-opt", "new-opt"})
	if err != nil {
		t.Fatalf("OptionValues: %v", err)
	}
	if _, ok := values["old-opt"]; ok {
		t.Fatal("stale option weight survived the upsert")
	}
	if values["new-opt"] != 2 {
		t.Fatalf("new-opt weight = %v, want 2", values["new-opt"])
	}
}

func TestMemoryStore_ResultForScore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	err := m.UpsertResults(ctx, "quiz-1", []quiz.Result{
		{Title: "Mid", MinScore: 11, MaxScore: 20},
		{Title: "Low", MinScore: 0, MaxScore: 10},
		{Title: "High", MinScore: 21, MaxScore: 30},
	})
	if err != nil {
		t.Fatalf("UpsertResults: %v", err)
	}

	tests := []struct {
		score   float64
		want    string
		wantErr bool
	}{
		{0, "Low", false},
		{10, "Low", false},
		{10.5, "", true}, // gap between ranges
		{11, "Mid", false},
		{25, "High", false},
		{31, "", true},
		{-1, "", true},
	}
	for _, tc := range tests {
		got, err := m.ResultForScore(ctx, "quiz-1", tc.score)
		if tc.wantErr {
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("score %v: err = %v, want ErrNotFound", tc.score, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("score %v: %v", tc.score, err)
			continue
		}
		if got.Title != tc.want {
			t.Errorf("score %v: matched %q, want %q", tc.score, got.Title, tc.want)
		}
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	if _, err := m.QuizBySlug(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("QuizBySlug err = %v, want ErrNotFound", err)
	}
	if _, err := m.ResultForScore(ctx, "missing", 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ResultForScore err = %v, want ErrNotFound", err)
	}

	// Absent quiz ids read as empty lists, not errors.
	rules, err := m.RulesByQuiz(ctx, "missing")
	if err != nil || len(rules) != 0 {
		t.Fatalf("RulesByQuiz = %v, %v", rules, err)
	}
}

func TestMemoryStore_ListQuizzesOrder(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	for _, slug := range []string{"beta", "alpha"} {
		if _, err := m.UpsertQuiz(ctx, UpsertQuizParams{Quiz: quiz.Quiz{Slug: slug, Title: slug}}); err != nil {
			t.Fatalf("UpsertQuiz %s: %v", slug, err)
		}
	}

	list, err := m.ListQuizzes(ctx)
	if err != nil {
		t.Fatalf("ListQuizzes: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
}

func TestMemoryStore_UpsertRulesAssignsIDs(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	err := m.UpsertRules(ctx, "quiz-1", []quiz.Rule{
		{Condition: quiz.Condition{Type: quiz.CondEquals, Step: quiz.StepRef(0), Value: "yes"}, Insight: "hello"},
	})
	if err != nil {
		t.Fatalf("UpsertRules: %v", err)
	}
	rules, err := m.RulesByQuiz(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("RulesByQuiz: %v", err)
	}
	if len(rules) != 1 || rules[0].ID == "" {
		t.Fatalf("rules = %+v", rules)
	}
}
