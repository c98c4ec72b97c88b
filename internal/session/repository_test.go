package session

import (
	"context"
	"errors"
	"testing"

	"github.com/avelinsk/quizflow/internal/quiz"
)

func TestMemoryRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	s := New("quiz-1", "focus-check", "visitor-1", 5)
	if err := repo.Save(ctx, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Load(ctx, s.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID != s.ID || got.Slug != "focus-check" || got.TotalSteps != 5 {
		t.Fatalf("loaded session = %+v", got)
	}

	// The repository hands out copies: mutating a loaded session must not
	// leak back into the stored one.
	got.CurrentStep = 3
	got.SetAnswer(quiz.Answer{Step: 0, Value: quiz.Text("yes")})

	again, err := repo.Load(ctx, s.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if again.CurrentStep != 0 || len(again.Answers) != 0 {
		t.Fatalf("stored session mutated through a loaded copy: %+v", again)
	}
}

func TestMemoryRepository_LoadMissing(t *testing.T) {
	repo := NewMemoryRepository()
	if _, err := repo.Load(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	s := New("quiz-1", "focus-check", "", 3)
	if err := repo.Save(ctx, s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Load(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err after delete = %v, want ErrNotFound", err)
	}
	// Deleting an absent session is a no-op.
	if err := repo.Delete(ctx, s.ID); err != nil {
		t.Fatalf("repeat Delete: %v", err)
	}
}
