package quiz

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by ValidateRule.
var (
	ErrInvalidRule          = errors.New("invalid rule")
	ErrInvalidConditionType = errors.New("invalid condition type")
	ErrMissingStep          = errors.New("missing step")
	ErrMissingValue         = errors.New("missing value")
	ErrEmptyBranch          = errors.New("empty branch")
)

// maxConditionDepth bounds the accepted tree depth on the write path so a
// hostile payload cannot blow the stack during evaluation.
const maxConditionDepth = 32

// ValidateRule performs strict validation of a personalization Rule. It is
// used on the admin write path only; the evaluator itself stays total and
// treats malformed conditions as non-matching.
func ValidateRule(r Rule) error {
	if r.ID == "" {
		return fmt.Errorf("%w: rule id must not be empty", ErrInvalidRule)
	}
	return validateCondition(r.Condition, 0)
}

func validateCondition(c Condition, depth int) error {
	if depth > maxConditionDepth {
		return fmt.Errorf("%w: condition tree deeper than %d levels", ErrInvalidRule, maxConditionDepth)
	}

	switch c.Type {
	case CondAnd, CondOr:
		if len(c.Rules) == 0 {
			return fmt.Errorf("%w: %q node must have at least one child", ErrEmptyBranch, c.Type)
		}
		for _, child := range c.Rules {
			if err := validateCondition(child, depth+1); err != nil {
				return err
			}
		}
		return nil

	case CondEquals, CondContains, CondGreaterThan, CondLessThan:
		if c.Step == nil {
			return fmt.Errorf("%w: %q node requires a step", ErrMissingStep, c.Type)
		}
		if c.Value == nil {
			return fmt.Errorf("%w: %q node requires a value", ErrMissingValue, c.Type)
		}
		return nil

	default:
		return fmt.Errorf("%w: %q is not supported", ErrInvalidConditionType, c.Type)
	}
}
