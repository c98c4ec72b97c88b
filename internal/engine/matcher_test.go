package engine

import (
	"testing"

	"github.com/avelinsk/quizflow/internal/quiz"
)

func TestMatch_PrefersMoreComplexRule(t *testing.T) {
	answers := quiz.AnswerSet{
		{Step: 0, Value: quiz.Text("Morning")},
		{Step: 1, Value: quiz.Number(8)},
	}

	general := quiz.Rule{
		ID:        "general",
		Condition: quiz.Condition{Type: quiz.CondEquals, Step: quiz.StepRef(0), Value: "Morning"},
		Insight:   "generic insight",
	}
	specific := quiz.Rule{
		ID: "specific",
		Condition: quiz.Condition{Type: quiz.CondAnd, Rules: []quiz.Condition{
			{Type: quiz.CondEquals, Step: quiz.StepRef(0), Value: "Morning"},
			{Type: quiz.CondGreaterThan, Step: quiz.StepRef(1), Value: 5},
		}},
		Insight: "specific insight",
	}

	// Input order puts the general rule first; complexity ordering must
	// still pick the specific one.
	got := Match(answers, []quiz.Rule{general, specific})
	if got == nil || got.ID != "specific" {
		t.Fatalf("Match() = %+v, want rule %q", got, "specific")
	}
}

func TestMatch_StableTieBreak(t *testing.T) {
	answers := quiz.AnswerSet{{Step: 0, Value: quiz.Text("AA")}}

	// Identical condition shape, identical serialized size; the first rule
	// in input order must win.
	first := quiz.Rule{ID: "first", Condition: quiz.Condition{Type: quiz.CondContains, Step: quiz.StepRef(0), Value: "A"}}
	second := quiz.Rule{ID: "second", Condition: quiz.Condition{Type: quiz.CondContains, Step: quiz.StepRef(0), Value: "A"}}

	if c1, c2 := Complexity(first.Condition), Complexity(second.Condition); c1 != c2 {
		t.Fatalf("test setup: complexities differ (%d vs %d)", c1, c2)
	}

	got := Match(answers, []quiz.Rule{first, second})
	if got == nil || got.ID != "first" {
		t.Fatalf("Match() = %+v, want rule %q", got, "first")
	}
}

func TestMatch_Deterministic(t *testing.T) {
	answers := quiz.AnswerSet{{Step: 0, Value: quiz.Text("Morning")}}
	rules := []quiz.Rule{
		{ID: "a", Condition: quiz.Condition{Type: quiz.CondEquals, Step: quiz.StepRef(0), Value: "Morning"}},
		{ID: "b", Condition: quiz.Condition{Type: quiz.CondContains, Step: quiz.StepRef(0), Value: "Morn"}},
	}

	want := Match(answers, rules)
	if want == nil {
		t.Fatal("Match() = nil, want a rule")
	}
	for i := 0; i < 50; i++ {
		if got := Match(answers, rules); got == nil || got.ID != want.ID {
			t.Fatalf("Match() not deterministic: got %+v, want %q", got, want.ID)
		}
	}
}

func TestMatch_NoMatch(t *testing.T) {
	answers := quiz.AnswerSet{{Step: 0, Value: quiz.Text("Morning")}}

	if got := Match(answers, nil); got != nil {
		t.Fatalf("Match() = %+v for empty rule set, want nil", got)
	}

	rules := []quiz.Rule{
		{ID: "a", Condition: quiz.Condition{Type: quiz.CondEquals, Step: quiz.StepRef(0), Value: "Evening"}},
		{ID: "b", Condition: quiz.Condition{Type: "bogus"}},
	}
	if got := Match(answers, rules); got != nil {
		t.Fatalf("Match() = %+v, want nil", got)
	}
}

func TestMatch_DoesNotMutateInput(t *testing.T) {
	answers := quiz.AnswerSet{{Step: 0, Value: quiz.Text("Morning")}}
	rules := []quiz.Rule{
		{ID: "small", Condition: quiz.Condition{Type: quiz.CondEquals, Step: quiz.StepRef(0), Value: "x"}},
		{ID: "big", Condition: quiz.Condition{Type: quiz.CondAnd, Rules: []quiz.Condition{
			{Type: quiz.CondEquals, Step: quiz.StepRef(0), Value: "Morning"},
			{Type: quiz.CondContains, Step: quiz.StepRef(0), Value: "Morn"},
		}}},
	}

	Match(answers, rules)
	if rules[0].ID != "small" || rules[1].ID != "big" {
		t.Fatalf("Match() reordered the input slice: %q, %q", rules[0].ID, rules[1].ID)
	}
}
