// Package seed loads quiz definitions from a YAML file into the store.
// It backs local development and single-tenant deployments where quiz
// content is versioned alongside the service instead of managed over the
// admin API.
package seed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/avelinsk/quizflow/internal/quiz"
	"github.com/avelinsk/quizflow/internal/store"
)

// File is the on-disk quiz definition format.
type File struct {
	Quizzes []Entry `yaml:"quizzes" json:"quizzes"`
}

// Entry is one quiz with its full content.
type Entry struct {
	Quiz      quiz.Quiz       `yaml:"quiz" json:"quiz"`
	Questions []quiz.Question `yaml:"questions" json:"questions"`
	Rules     []quiz.Rule     `yaml:"rules" json:"rules,omitempty"`
	Results   []quiz.Result   `yaml:"results" json:"results,omitempty"`
}

// Parse reads and validates a seed file.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	for _, entry := range f.Quizzes {
		if entry.Quiz.Slug == "" {
			return nil, fmt.Errorf("seed quiz %q: missing slug", entry.Quiz.Title)
		}
		for i, rule := range entry.Rules {
			if err := quiz.ValidateRule(rule); err != nil {
				return nil, fmt.Errorf("seed quiz %q rule %d: %w", entry.Quiz.Slug, i, err)
			}
		}
		for i, res := range entry.Results {
			if res.MaxScore < res.MinScore {
				return nil, fmt.Errorf("seed quiz %q result %d: maxScore below minScore", entry.Quiz.Slug, i)
			}
		}
	}
	return &f, nil
}

// Apply loads the file at path and upserts every quiz it defines.
func Apply(ctx context.Context, st store.Store, path string, log zerolog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return err
	}

	for _, entry := range f.Quizzes {
		q, err := st.UpsertQuiz(ctx, store.UpsertQuizParams{Quiz: entry.Quiz, Questions: entry.Questions})
		if err != nil {
			return fmt.Errorf("seed quiz %q: %w", entry.Quiz.Slug, err)
		}
		if err := st.UpsertRules(ctx, q.ID, entry.Rules); err != nil {
			return fmt.Errorf("seed rules for %q: %w", entry.Quiz.Slug, err)
		}
		if err := st.UpsertResults(ctx, q.ID, entry.Results); err != nil {
			return fmt.Errorf("seed results for %q: %w", entry.Quiz.Slug, err)
		}
		log.Info().
			Str("slug", q.Slug).
			Int("questions", len(entry.Questions)).
			Int("rules", len(entry.Rules)).
			Int("results", len(entry.Results)).
			Msg("quiz seeded")
	}
	return nil
}

// Watch re-applies the seed file whenever it changes, until ctx is
// cancelled. A broken edit logs and keeps the last good content; editors
// that replace the file are picked up by watching the parent directory.
func Watch(ctx context.Context, st store.Store, path string, log zerolog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("seed watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	go func() {
		defer watcher.Close()
		target := filepath.Clean(path)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				if err := Apply(ctx, st, path, log); err != nil {
					log.Error().Err(err).Str("path", path).Msg("seed reload failed, keeping previous content")
					continue
				}
				log.Info().Str("path", path).Msg("seed reloaded")
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error().Err(err).Msg("seed watcher error")
			}
		}
	}()
	return nil
}
