package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/avelinsk/quizflow/internal/testutil"
)

// Walks a whole funnel through the HTTP surface: start, answer every
// question, navigate to the terminal step, resolve the result.
func TestFunnelWalkthrough(t *testing.T) {
	srv, st := testutil.NewTestServer(t, "walkthrough-key")
	router := srv.Router()
	ctx := context.Background()

	const questions = 3
	if _, err := testutil.SeedQuiz(ctx, st, "deep-work", questions); err != nil {
		t.Fatalf("seed quiz: %v", err)
	}

	start := testutil.HTTPRequest{
		Method: http.MethodPost,
		Path:   "/v1/sessions",
		Body:   `{"slug":"deep-work","visitorId":"visitor-1"}`,
	}
	rr := start.Do(t, router)
	if rr.Code != http.StatusCreated {
		t.Fatalf("start session: status %d, body %s", rr.Code, rr.Body.String())
	}
	var started struct {
		Session struct {
			ID         string `json:"id"`
			TotalSteps int    `json:"totalSteps"`
		} `json:"session"`
		Steps []struct {
			Type string `json:"type"`
		} `json:"steps"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &started); err != nil {
		t.Fatalf("decode start response: %v", err)
	}
	// questions + summary + result
	if started.Session.TotalSteps != questions+2 {
		t.Fatalf("totalSteps = %d, want %d", started.Session.TotalSteps, questions+2)
	}
	if got := started.Steps[len(started.Steps)-1].Type; got != "result" {
		t.Fatalf("last step type = %q, want result", got)
	}
	id := started.Session.ID

	for i := 0; i < questions; i++ {
		answer := testutil.HTTPRequest{
			Method: http.MethodPut,
			Path:   "/v1/sessions/" + id + "/answers",
			Body: fmt.Sprintf(`{"step":%d,"value":"Often","selectedOptionId":"deep-work-q%d-high"}`,
				i, i),
		}
		if rr := answer.Do(t, router); rr.Code != http.StatusOK {
			t.Fatalf("answer step %d: status %d, body %s", i, rr.Code, rr.Body.String())
		}
		next := testutil.HTTPRequest{Method: http.MethodPost, Path: "/v1/sessions/" + id + "/next"}
		if rr := next.Do(t, router); rr.Code != http.StatusOK {
			t.Fatalf("next after step %d: status %d", i, rr.Code)
		}
	}

	result := testutil.HTTPRequest{Method: http.MethodGet, Path: "/v1/sessions/" + id + "/result"}
	rr = result.Do(t, router)
	if rr.Code != http.StatusOK {
		t.Fatalf("result: status %d, body %s", rr.Code, rr.Body.String())
	}
	var resolved struct {
		Session struct {
			Calculated bool `json:"calculated"`
		} `json:"session"`
		Result struct {
			Score float64 `json:"score"`
			Title string  `json:"title"`
		} `json:"result"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resolved); err != nil {
		t.Fatalf("decode result response: %v", err)
	}
	if !resolved.Session.Calculated {
		t.Fatal("session not marked calculated")
	}
	if want := float64(3 * questions); resolved.Result.Score != want {
		t.Fatalf("score = %v, want %v", resolved.Result.Score, want)
	}
	if resolved.Result.Title != "Default" {
		t.Fatalf("result title = %q, want Default", resolved.Result.Title)
	}
}
