// Package engine evaluates condition trees against collected answers and
// selects the best-matching personalization rule. Evaluation is pure,
// deterministic and total: a malformed condition never raises, it simply
// does not match.
package engine

import (
	"strings"

	"github.com/spf13/cast"

	"github.com/avelinsk/quizflow/internal/quiz"
)

// Evaluate walks a condition tree against the answer set. Unknown node
// types, missing step/value fields and type mismatches all evaluate to
// false. Empty and/or branches evaluate to false as well: a rule with no
// effective conditions matches nothing.
func Evaluate(cond quiz.Condition, answers quiz.AnswerSet) bool {
	switch cond.Type {
	case quiz.CondAnd:
		if len(cond.Rules) == 0 {
			return false
		}
		for _, child := range cond.Rules {
			if !Evaluate(child, answers) {
				return false
			}
		}
		return true

	case quiz.CondOr:
		for _, child := range cond.Rules {
			if Evaluate(child, answers) {
				return true
			}
		}
		return false

	case quiz.CondEquals, quiz.CondContains, quiz.CondGreaterThan, quiz.CondLessThan:
		return evaluateLeaf(cond, answers)

	default:
		return false
	}
}

func evaluateLeaf(cond quiz.Condition, answers quiz.AnswerSet) bool {
	if cond.Step == nil || cond.Value == nil {
		return false
	}
	answer, ok := answers.ByStep(*cond.Step)
	if !ok {
		return false
	}

	switch cond.Type {
	case quiz.CondEquals:
		return checkEquals(answer.Value, cond.Value)
	case quiz.CondContains:
		return checkContains(answer.Value, cond.Value)
	case quiz.CondGreaterThan:
		return checkNumeric(answer.Value, cond.Value, func(a, b float64) bool { return a > b })
	case quiz.CondLessThan:
		return checkNumeric(answer.Value, cond.Value, func(a, b float64) bool { return a < b })
	}
	return false
}

// checkEquals requires strict equality of type and content between the
// answer value and the condition value.
func checkEquals(av quiz.AnswerValue, ruleValue any) bool {
	want, ok := quiz.FromAny(ruleValue)
	if !ok {
		return false
	}
	return av.Equal(want)
}

// checkContains is dual-mode: multi-select answers test option membership,
// scalar answers coerce both sides to text and test substring containment.
// Both behaviors are load-bearing; multi-select matching and free-text-like
// matching go through the same node type.
func checkContains(av quiz.AnswerValue, ruleValue any) bool {
	needle, err := cast.ToStringE(ruleValue)
	if err != nil {
		return false
	}
	if av.IsMulti() {
		return av.ContainsOption(needle)
	}
	return strings.Contains(av.String(), needle)
}

// checkNumeric requires the answer value to be a number; any other kind is
// false, not a type error. The condition value is coerced, so "7" in a
// hand-authored rule still compares.
func checkNumeric(av quiz.AnswerValue, ruleValue any, cmp func(a, b float64) bool) bool {
	got, ok := av.NumberValue()
	if !ok {
		return false
	}
	want, err := cast.ToFloat64E(ruleValue)
	if err != nil {
		return false
	}
	return cmp(got, want)
}
