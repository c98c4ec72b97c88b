package engine

import (
	"testing"

	"github.com/avelinsk/quizflow/internal/quiz"
)

func TestEvaluate_Leaves(t *testing.T) {
	answers := quiz.AnswerSet{
		{Step: 0, Value: quiz.Text("Morning")},
		{Step: 1, Value: quiz.Bool(true)},
		{Step: 2, Value: quiz.Number(7)},
		{Step: 3, Value: quiz.Multi("optA", "optB")},
		{Step: 4, Value: quiz.Text("oh yes indeed")},
	}

	tests := []struct {
		name string
		cond quiz.Condition
		want bool
	}{
		{name: "equals text true", cond: quiz.Condition{Type: quiz.CondEquals, Step: quiz.StepRef(0), Value: "Morning"}, want: true},
		{name: "equals text false", cond: quiz.Condition{Type: quiz.CondEquals, Step: quiz.StepRef(0), Value: "Evening"}, want: false},
		{name: "equals type mismatch", cond: quiz.Condition{Type: quiz.CondEquals, Step: quiz.StepRef(0), Value: true}, want: false},
		{name: "equals bool true", cond: quiz.Condition{Type: quiz.CondEquals, Step: quiz.StepRef(1), Value: true}, want: true},
		{name: "equals number int literal", cond: quiz.Condition{Type: quiz.CondEquals, Step: quiz.StepRef(2), Value: 7}, want: true},
		{name: "equals multi same set any order", cond: quiz.Condition{Type: quiz.CondEquals, Step: quiz.StepRef(3), Value: []any{"optB", "optA"}}, want: true},
		{name: "equals multi subset", cond: quiz.Condition{Type: quiz.CondEquals, Step: quiz.StepRef(3), Value: []any{"optA"}}, want: false},
		{name: "contains multi membership", cond: quiz.Condition{Type: quiz.CondContains, Step: quiz.StepRef(3), Value: "optA"}, want: true},
		{name: "contains multi missing", cond: quiz.Condition{Type: quiz.CondContains, Step: quiz.StepRef(3), Value: "optC"}, want: false},
		{name: "contains substring", cond: quiz.Condition{Type: quiz.CondContains, Step: quiz.StepRef(4), Value: "yes"}, want: true},
		{name: "contains substring of number", cond: quiz.Condition{Type: quiz.CondContains, Step: quiz.StepRef(2), Value: "7"}, want: true},
		{name: "greaterThan true", cond: quiz.Condition{Type: quiz.CondGreaterThan, Step: quiz.StepRef(2), Value: 5}, want: true},
		{name: "greaterThan false", cond: quiz.Condition{Type: quiz.CondGreaterThan, Step: quiz.StepRef(2), Value: 7}, want: false},
		{name: "greaterThan coerced rule value", cond: quiz.Condition{Type: quiz.CondGreaterThan, Step: quiz.StepRef(2), Value: "5"}, want: true},
		{name: "greaterThan non-numeric answer", cond: quiz.Condition{Type: quiz.CondGreaterThan, Step: quiz.StepRef(0), Value: 5}, want: false},
		{name: "lessThan true", cond: quiz.Condition{Type: quiz.CondLessThan, Step: quiz.StepRef(2), Value: 10}, want: true},
		{name: "unanswered step", cond: quiz.Condition{Type: quiz.CondEquals, Step: quiz.StepRef(99), Value: "x"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.cond, answers); got != tt.want {
				t.Fatalf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluate_Branches(t *testing.T) {
	answers := quiz.AnswerSet{
		{Step: 0, Value: quiz.Text("Morning")},
		{Step: 1, Value: quiz.Number(3)},
	}

	eqMorning := quiz.Condition{Type: quiz.CondEquals, Step: quiz.StepRef(0), Value: "Morning"}
	eqEvening := quiz.Condition{Type: quiz.CondEquals, Step: quiz.StepRef(0), Value: "Evening"}
	gtTwo := quiz.Condition{Type: quiz.CondGreaterThan, Step: quiz.StepRef(1), Value: 2}

	tests := []struct {
		name string
		cond quiz.Condition
		want bool
	}{
		{name: "and all true", cond: quiz.Condition{Type: quiz.CondAnd, Rules: []quiz.Condition{eqMorning, gtTwo}}, want: true},
		{name: "and one false", cond: quiz.Condition{Type: quiz.CondAnd, Rules: []quiz.Condition{eqMorning, eqEvening}}, want: false},
		{name: "and empty", cond: quiz.Condition{Type: quiz.CondAnd}, want: false},
		{name: "or any true", cond: quiz.Condition{Type: quiz.CondOr, Rules: []quiz.Condition{eqEvening, gtTwo}}, want: true},
		{name: "or none true", cond: quiz.Condition{Type: quiz.CondOr, Rules: []quiz.Condition{eqEvening}}, want: false},
		{name: "or empty", cond: quiz.Condition{Type: quiz.CondOr}, want: false},
		{name: "nested", cond: quiz.Condition{Type: quiz.CondAnd, Rules: []quiz.Condition{
			eqMorning,
			{Type: quiz.CondOr, Rules: []quiz.Condition{eqEvening, gtTwo}},
		}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.cond, answers); got != tt.want {
				t.Fatalf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Malformed conditions must evaluate to false, never panic.
func TestEvaluate_Totality(t *testing.T) {
	answers := quiz.AnswerSet{{Step: 0, Value: quiz.Text("x")}}

	tests := []struct {
		name string
		cond quiz.Condition
	}{
		{name: "unknown type", cond: quiz.Condition{Type: "between", Step: quiz.StepRef(0), Value: 1}},
		{name: "missing step", cond: quiz.Condition{Type: quiz.CondEquals, Value: "x"}},
		{name: "missing value", cond: quiz.Condition{Type: quiz.CondEquals, Step: quiz.StepRef(0)}},
		{name: "zero condition", cond: quiz.Condition{}},
		{name: "unsupported value shape", cond: quiz.Condition{Type: quiz.CondEquals, Step: quiz.StepRef(0), Value: map[string]any{"a": 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.cond, answers); got {
				t.Fatalf("Evaluate() = true for malformed condition, want false")
			}
		})
	}

	if got := Evaluate(quiz.Condition{Type: quiz.CondEquals, Step: quiz.StepRef(0), Value: "x"}, nil); got {
		t.Fatalf("Evaluate() = true against nil answers, want false")
	}
}
