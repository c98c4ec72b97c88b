package quiz

import (
	"encoding/json"
	"testing"
)

func TestAnswerValue_JSONRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want AnswerValue
	}{
		{"text", `"Daily"`, Text("Daily")},
		{"bool", `true`, Bool(true)},
		{"number", `4.5`, Number(4.5)},
		{"integer number", `7`, Number(7)},
		{"multi", `["opt-a","opt-b"]`, Multi("opt-a", "opt-b")},
		{"empty multi", `[]`, Multi()},
		{"null is zero value", `null`, AnswerValue{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got AnswerValue
			if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
				t.Fatalf("Unmarshal(%s): %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("Unmarshal(%s) = %v, want %v", tt.in, got, tt.want)
			}

			out, err := json.Marshal(got)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			var back AnswerValue
			if err := json.Unmarshal(out, &back); err != nil {
				t.Fatalf("re-Unmarshal(%s): %v", out, err)
			}
			if !back.Equal(got) {
				t.Fatalf("round trip changed value: %s -> %s", tt.in, out)
			}
		})
	}
}

func TestAnswerValue_UnmarshalRejectsBadShapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"object", `{"a":1}`},
		{"mixed array", `["opt-a",2]`},
		{"array of arrays", `[["opt-a"]]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v AnswerValue
			if err := json.Unmarshal([]byte(tt.in), &v); err == nil {
				t.Fatalf("Unmarshal(%s) succeeded, want error", tt.in)
			}
		})
	}
}

func TestAnswerValue_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b AnswerValue
		want bool
	}{
		{"same text", Text("yes"), Text("yes"), true},
		{"different text", Text("yes"), Text("no"), false},
		{"kind mismatch", Text("true"), Bool(true), false},
		{"multi order ignored", Multi("a", "b"), Multi("b", "a"), true},
		{"multi extra element", Multi("a", "b"), Multi("a", "b", "c"), false},
		{"zero values", AnswerValue{}, AnswerValue{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Fatalf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestAnswerValue_ContainsOption(t *testing.T) {
	v := Multi("opt-a", "opt-b")
	if !v.ContainsOption("opt-a") {
		t.Fatal("ContainsOption(opt-a) = false, want true")
	}
	if v.ContainsOption("opt-c") {
		t.Fatal("ContainsOption(opt-c) = true, want false")
	}
	if Text("opt-a").ContainsOption("opt-a") {
		t.Fatal("scalar ContainsOption = true, want false")
	}
}

func TestAnswerValue_String(t *testing.T) {
	tests := []struct {
		v    AnswerValue
		want string
	}{
		{Text("hello"), "hello"},
		{Bool(false), "false"},
		{Number(3), "3"},
		{Number(2.5), "2.5"},
		{Multi("a", "b"), "a,b"},
		{AnswerValue{}, ""},
	}

	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Fatalf("String(%#v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestFromAny(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want AnswerValue
		ok   bool
	}{
		{"string", "x", Text("x"), true},
		{"int", 3, Number(3), true},
		{"float", 1.5, Number(1.5), true},
		{"json number", json.Number("42"), Number(42), true},
		{"string slice", []string{"a"}, Multi("a"), true},
		{"any slice of strings", []any{"a", "b"}, Multi("a", "b"), true},
		{"any slice mixed", []any{"a", 1}, AnswerValue{}, false},
		{"map", map[string]any{}, AnswerValue{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromAny(tt.in)
			if ok != tt.ok {
				t.Fatalf("FromAny(%v) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Fatalf("FromAny(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
