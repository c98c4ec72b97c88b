package quiz

// ConditionType identifies a node in a condition tree.
type ConditionType string

// Supported condition node types (string values for clean JSON serialization).
const (
	CondEquals      ConditionType = "equals"
	CondContains    ConditionType = "contains"
	CondGreaterThan ConditionType = "greaterThan"
	CondLessThan    ConditionType = "lessThan"
	CondAnd         ConditionType = "and"
	CondOr          ConditionType = "or"
)

// Condition is one node of a boolean expression tree over collected answers.
// Leaf nodes (equals, contains, greaterThan, lessThan) reference a step and a
// comparison value; branch nodes (and, or) carry child conditions. Trees are
// finite and acyclic; evaluation is a plain recursive walk.
type Condition struct {
	Type  ConditionType `json:"type" yaml:"type"`
	Step  *int          `json:"step,omitempty" yaml:"step,omitempty"`
	Value any           `json:"value,omitempty" yaml:"value,omitempty"`
	Rules []Condition   `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// Leaf reports whether the node compares a single answer rather than
// combining children.
func (c Condition) Leaf() bool {
	switch c.Type {
	case CondEquals, CondContains, CondGreaterThan, CondLessThan:
		return true
	}
	return false
}

// StepRef is a convenience constructor for leaf step references.
func StepRef(step int) *int { return &step }
