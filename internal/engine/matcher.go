package engine

import (
	"encoding/json"
	"sort"

	"github.com/avelinsk/quizflow/internal/quiz"
)

// Match selects the single best-matching rule for the answer set, or nil if
// none match. Candidates are tried in descending condition complexity so a
// specific rule beats a general catch-all; rules of equal complexity keep
// their relative input order. The input slice is never mutated.
func Match(answers quiz.AnswerSet, rules []quiz.Rule) *quiz.Rule {
	if len(rules) == 0 {
		return nil
	}

	type candidate struct {
		rule quiz.Rule
		size int
	}
	ordered := make([]candidate, len(rules))
	for i, r := range rules {
		ordered[i] = candidate{rule: r, size: Complexity(r.Condition)}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].size > ordered[j].size
	})

	for i := range ordered {
		if Evaluate(ordered[i].rule.Condition, answers) {
			matched := ordered[i].rule
			return &matched
		}
	}
	return nil
}

// Complexity measures a condition tree as the byte length of its JSON
// serialization. Deliberately a character-count heuristic rather than a
// node count: changing the metric would silently change which rule wins
// when several match the same answers.
func Complexity(cond quiz.Condition) int {
	b, err := json.Marshal(cond)
	if err != nil {
		return 0
	}
	return len(b)
}
