package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind discriminates the AnswerValue union.
type ValueKind string

const (
	ValueText   ValueKind = "text"
	ValueBool   ValueKind = "bool"
	ValueNumber ValueKind = "number"
	ValueMulti  ValueKind = "multi"
)

// AnswerValue is the tagged union of everything an answer can hold: a text
// label, a boolean, a number, or the set of selected option ids for a
// multi-select step. Scalars serialize as bare JSON scalars and multi-select
// as a JSON array of option ids, so the wire shape matches what clients
// already send.
type AnswerValue struct {
	kind    ValueKind
	text    string
	boolean bool
	number  float64
	options []string
}

// Text wraps a text label.
func Text(s string) AnswerValue { return AnswerValue{kind: ValueText, text: s} }

// Bool wraps a boolean answer.
func Bool(b bool) AnswerValue { return AnswerValue{kind: ValueBool, boolean: b} }

// Number wraps a numeric answer.
func Number(f float64) AnswerValue { return AnswerValue{kind: ValueNumber, number: f} }

// Multi wraps the selected option ids of a multi-select answer.
func Multi(optionIDs ...string) AnswerValue {
	ids := make([]string, len(optionIDs))
	copy(ids, optionIDs)
	return AnswerValue{kind: ValueMulti, options: ids}
}

// Kind reports which variant the value holds. The zero value reports an
// empty kind and matches nothing.
func (v AnswerValue) Kind() ValueKind { return v.kind }

// TextValue returns the text label, if this is a text value.
func (v AnswerValue) TextValue() (string, bool) { return v.text, v.kind == ValueText }

// BoolValue returns the boolean, if this is a boolean value.
func (v AnswerValue) BoolValue() (bool, bool) { return v.boolean, v.kind == ValueBool }

// NumberValue returns the number, if this is a numeric value.
func (v AnswerValue) NumberValue() (float64, bool) { return v.number, v.kind == ValueNumber }

// Options returns the selected option ids, if this is a multi-select value.
func (v AnswerValue) Options() ([]string, bool) { return v.options, v.kind == ValueMulti }

// IsMulti reports whether the value is a multi-select composite.
func (v AnswerValue) IsMulti() bool { return v.kind == ValueMulti }

// ContainsOption reports whether a multi-select value includes the given
// option id. False for scalar values.
func (v AnswerValue) ContainsOption(id string) bool {
	if v.kind != ValueMulti {
		return false
	}
	for _, opt := range v.options {
		if opt == id {
			return true
		}
	}
	return false
}

// String renders the value as text: the label itself, "true"/"false", the
// shortest decimal form of the number, or the option ids joined for display.
func (v AnswerValue) String() string {
	switch v.kind {
	case ValueText:
		return v.text
	case ValueBool:
		return strconv.FormatBool(v.boolean)
	case ValueNumber:
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	case ValueMulti:
		out := ""
		for i, opt := range v.options {
			if i > 0 {
				out += ","
			}
			out += opt
		}
		return out
	}
	return ""
}

// Equal reports strict equality: same kind and same content. Multi-select
// values compare as sets of option ids, independent of selection order.
func (v AnswerValue) Equal(o AnswerValue) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case ValueText:
		return v.text == o.text
	case ValueBool:
		return v.boolean == o.boolean
	case ValueNumber:
		return v.number == o.number
	case ValueMulti:
		if len(v.options) != len(o.options) {
			return false
		}
		seen := make(map[string]struct{}, len(v.options))
		for _, id := range v.options {
			seen[id] = struct{}{}
		}
		for _, id := range o.options {
			if _, ok := seen[id]; !ok {
				return false
			}
		}
		return true
	}
	return false
}

// MarshalJSON encodes scalars as bare JSON scalars and multi-select as an
// array of option ids.
func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueText:
		return json.Marshal(v.text)
	case ValueBool:
		return json.Marshal(v.boolean)
	case ValueNumber:
		return json.Marshal(v.number)
	case ValueMulti:
		if v.options == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(v.options)
	}
	return []byte("null"), nil
}

// UnmarshalJSON sniffs the JSON shape: string, bool, number, or array of
// strings. Anything else is rejected.
func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	switch t := raw.(type) {
	case string:
		*v = Text(t)
	case bool:
		*v = Bool(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return fmt.Errorf("invalid numeric answer value %q: %w", t.String(), err)
		}
		*v = Number(f)
	case []any:
		ids := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("multi-select answer value must be a list of option ids, got %T", item)
			}
			ids = append(ids, s)
		}
		*v = AnswerValue{kind: ValueMulti, options: ids}
	case nil:
		*v = AnswerValue{}
	default:
		return fmt.Errorf("unsupported answer value type %T", raw)
	}
	return nil
}

// FromAny converts a dynamically-typed value (as produced by decoding
// untyped JSON or YAML) into an AnswerValue. Unsupported shapes report false.
func FromAny(raw any) (AnswerValue, bool) {
	switch t := raw.(type) {
	case string:
		return Text(t), true
	case bool:
		return Bool(t), true
	case int:
		return Number(float64(t)), true
	case int64:
		return Number(float64(t)), true
	case float64:
		return Number(t), true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return AnswerValue{}, false
		}
		return Number(f), true
	case []string:
		return Multi(t...), true
	case []any:
		ids := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return AnswerValue{}, false
			}
			ids = append(ids, s)
		}
		return AnswerValue{kind: ValueMulti, options: ids}, true
	}
	return AnswerValue{}, false
}
