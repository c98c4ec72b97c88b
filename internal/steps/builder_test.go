package steps

import (
	"fmt"
	"testing"

	"github.com/avelinsk/quizflow/internal/quiz"
)

func makeQuestions(n int) []quiz.Question {
	qs := make([]quiz.Question, n)
	for i := range qs {
		qs[i] = quiz.Question{ID: fmt.Sprintf("q%d", i), Type: quiz.QuestionRadio, Text: fmt.Sprintf("Question %d", i)}
	}
	return qs
}

func typesOf(steps []Step) []Type {
	out := make([]Type, len(steps))
	for i, s := range steps {
		out[i] = s.Type
	}
	return out
}

func TestBuild_DefaultLayout(t *testing.T) {
	got := Build(makeQuestions(30), DefaultInsertions())

	if len(got) != 35 {
		t.Fatalf("len = %d, want 35 (30 questions + 3 insertions + summary + result)", len(got))
	}

	// questions[0..22], info, questions[23..24], expert-review, community,
	// questions[25..29], summary, result
	wantAt := map[int]Type{
		22: TypeQuestion,
		23: TypeInfo,
		24: TypeQuestion,
		25: TypeQuestion,
		26: TypeExpertReview,
		27: TypeCommunity,
		28: TypeQuestion,
		33: TypeSummary,
		34: TypeResult,
	}
	types := typesOf(got)
	for idx, want := range wantAt {
		if types[idx] != want {
			t.Fatalf("step[%d].Type = %q, want %q (full layout: %v)", idx, types[idx], want, types)
		}
	}

	// Question order must be preserved through the splices.
	if got[24].Question.ID != "q23" || got[25].Question.ID != "q24" || got[28].Question.ID != "q25" {
		t.Fatalf("question order broken around insertions: %s, %s, %s",
			got[24].Question.ID, got[25].Question.ID, got[28].Question.ID)
	}

	for i, s := range got {
		if s.Index != i {
			t.Fatalf("step[%d].Index = %d", i, s.Index)
		}
	}
}

func TestBuild_ShortListSkipsInsertions(t *testing.T) {
	tests := []struct {
		name      string
		questions int
		wantLen   int
	}{
		{name: "no questions", questions: 0, wantLen: 2},
		{name: "below first insertion", questions: 10, wantLen: 12},
		{name: "between insertions", questions: 24, wantLen: 27}, // info fires, 24-index pair does not
		{name: "exactly at second insertion", questions: 25, wantLen: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(makeQuestions(tt.questions), DefaultInsertions())
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d (layout: %v)", len(got), tt.wantLen, typesOf(got))
			}
			if got[len(got)-2].Type != TypeSummary || got[len(got)-1].Type != TypeResult {
				t.Fatalf("sequence must end summary, result; got %v", typesOf(got))
			}
		})
	}
}

func TestBuild_CustomInsertionsKeepOrder(t *testing.T) {
	ins := []Insertion{
		{AfterQuestionIndex: 1, Type: TypeExpertReview, Content: Interstitial{ID: "a"}},
		{AfterQuestionIndex: 1, Type: TypeCommunity, Content: Interstitial{ID: "b"}},
		{AfterQuestionIndex: 0, Type: TypeInfo, Content: Interstitial{ID: "c"}},
	}
	got := Build(makeQuestions(3), ins)

	want := []Type{TypeQuestion, TypeInfo, TypeQuestion, TypeExpertReview, TypeCommunity, TypeQuestion, TypeSummary, TypeResult}
	types := typesOf(got)
	if len(types) != len(want) {
		t.Fatalf("layout %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("layout %v, want %v", types, want)
		}
	}

	// Same-index insertions keep configuration order.
	if got[3].Content.ID != "a" || got[4].Content.ID != "b" {
		t.Fatalf("same-index insertions reordered: %s then %s", got[3].Content.ID, got[4].Content.ID)
	}
}

func TestBuild_SummaryPlaceholder(t *testing.T) {
	got := Build(makeQuestions(1), nil)
	summary := got[len(got)-2]
	if summary.Summary == nil {
		t.Fatal("summary step has no payload")
	}
	if summary.Summary.Score != 0 || summary.Summary.ResultTitle == "" {
		t.Fatalf("summary placeholder = %+v", summary.Summary)
	}
}
