package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avelinsk/quizflow/internal/quiz"
)

// PostgresStore is a PostgreSQL implementation of the Store interface.
// Schema lives in internal/db/schema.sql; the store assumes the tables
// exist.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) QuizBySlug(ctx context.Context, slug string) (*quiz.Quiz, error) {
	var q quiz.Quiz
	err := p.pool.QueryRow(ctx,
		`SELECT id, slug, title, description, created_at FROM quizzes WHERE slug = $1`,
		slug,
	).Scan(&q.ID, &q.Slug, &q.Title, &q.Description, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("quiz by slug: %w", err)
	}
	return &q, nil
}

func (p *PostgresStore) ListQuizzes(ctx context.Context) ([]quiz.Quiz, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, slug, title, description, created_at FROM quizzes ORDER BY created_at DESC, slug`)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var out []quiz.Quiz
	for rows.Next() {
		var q quiz.Quiz
		if err := rows.Scan(&q.ID, &q.Slug, &q.Title, &q.Description, &q.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (p *PostgresStore) QuestionsByQuiz(ctx context.Context, quizID string) ([]quiz.Question, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT q.id, q.quiz_id, q.type, q.text,
		        COALESCE(json_agg(json_build_object(
		            'id', o.id, 'text', o.text, 'value', o.value, 'orderNumber', o.order_number
		        ) ORDER BY o.order_number) FILTER (WHERE o.id IS NOT NULL), '[]')
		 FROM questions q
		 LEFT JOIN options o ON o.question_id = q.id
		 WHERE q.quiz_id = $1
		 GROUP BY q.id, q.quiz_id, q.type, q.text, q.ord
		 ORDER BY q.ord`,
		quizID)
	if err != nil {
		return nil, fmt.Errorf("questions by quiz: %w", err)
	}
	defer rows.Close()

	var out []quiz.Question
	for rows.Next() {
		var (
			q       quiz.Question
			rawOpts []byte
		)
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Type, &q.Text, &rawOpts); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(rawOpts, &q.Options); err != nil {
			return nil, fmt.Errorf("decode options for question %s: %w", q.ID, err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (p *PostgresStore) OptionValues(ctx context.Context, optionIDs []string) (map[string]float64, error) {
	if len(optionIDs) == 0 {
		return map[string]float64{}, nil
	}
	rows, err := p.pool.Query(ctx,
		`SELECT id, value FROM options WHERE id = ANY($1)`, optionIDs)
	if err != nil {
		return nil, fmt.Errorf("option values: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64, len(optionIDs))
	for rows.Next() {
		var (
			id string
			v  float64
		)
		if err := rows.Scan(&id, &v); err != nil {
			return nil, err
		}
		out[id] = v
	}
	return out, rows.Err()
}

func (p *PostgresStore) RulesByQuiz(ctx context.Context, quizID string) ([]quiz.Rule, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, condition, insight FROM rules WHERE quiz_id = $1 ORDER BY ord`, quizID)
	if err != nil {
		return nil, fmt.Errorf("rules by quiz: %w", err)
	}
	defer rows.Close()

	var out []quiz.Rule
	for rows.Next() {
		var (
			r       quiz.Rule
			rawCond []byte
		)
		if err := rows.Scan(&r.ID, &rawCond, &r.Insight); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(rawCond, &r.Condition); err != nil {
			return nil, fmt.Errorf("decode condition for rule %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *PostgresStore) ResultsByQuiz(ctx context.Context, quizID string) ([]quiz.Result, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, quiz_id, title, description, min_score, max_score, created_at
		 FROM results WHERE quiz_id = $1 ORDER BY min_score`, quizID)
	if err != nil {
		return nil, fmt.Errorf("results by quiz: %w", err)
	}
	defer rows.Close()

	var out []quiz.Result
	for rows.Next() {
		var r quiz.Result
		if err := rows.Scan(&r.ID, &r.QuizID, &r.Title, &r.Description, &r.MinScore, &r.MaxScore, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *PostgresStore) ResultForScore(ctx context.Context, quizID string, score float64) (*quiz.Result, error) {
	var r quiz.Result
	err := p.pool.QueryRow(ctx,
		`SELECT id, quiz_id, title, description, min_score, max_score, created_at
		 FROM results
		 WHERE quiz_id = $1 AND min_score <= $2 AND max_score >= $2
		 ORDER BY min_score
		 LIMIT 1`,
		quizID, score,
	).Scan(&r.ID, &r.QuizID, &r.Title, &r.Description, &r.MinScore, &r.MaxScore, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("result for score: %w", err)
	}
	return &r, nil
}

func (p *PostgresStore) UpsertQuiz(ctx context.Context, params UpsertQuizParams) (*quiz.Quiz, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	q := params.Quiz
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO quizzes (id, slug, title, description, created_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (slug) DO UPDATE SET title = EXCLUDED.title, description = EXCLUDED.description
		 RETURNING id, created_at`,
		q.ID, q.Slug, q.Title, q.Description,
	).Scan(&q.ID, &q.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert quiz: %w", err)
	}

	// Question lists are replaced wholesale; options go with them.
	if _, err := tx.Exec(ctx, `DELETE FROM questions WHERE quiz_id = $1`, q.ID); err != nil {
		return nil, fmt.Errorf("clear questions: %w", err)
	}

	for i, question := range params.Questions {
		if question.ID == "" {
			question.ID = uuid.NewString()
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO questions (id, quiz_id, ord, type, text) VALUES ($1, $2, $3, $4, $5)`,
			question.ID, q.ID, i, question.Type, question.Text,
		); err != nil {
			return nil, fmt.Errorf("insert question %d: %w", i, err)
		}
		for _, opt := range question.Options {
			if opt.ID == "" {
				opt.ID = uuid.NewString()
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO options (id, question_id, text, value, order_number)
				 VALUES ($1, $2, $3, $4, $5)`,
				opt.ID, question.ID, opt.Text, opt.Value, opt.OrderNumber,
			); err != nil {
				return nil, fmt.Errorf("insert option for question %d: %w", i, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &q, nil
}

func (p *PostgresStore) UpsertRules(ctx context.Context, quizID string, rules []quiz.Rule) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM rules WHERE quiz_id = $1`, quizID); err != nil {
		return fmt.Errorf("clear rules: %w", err)
	}
	for i, r := range rules {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		cond, err := json.Marshal(r.Condition)
		if err != nil {
			return fmt.Errorf("encode condition for rule %s: %w", r.ID, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO rules (id, quiz_id, ord, condition, insight) VALUES ($1, $2, $3, $4, $5)`,
			r.ID, quizID, i, cond, r.Insight,
		); err != nil {
			return fmt.Errorf("insert rule %s: %w", r.ID, err)
		}
	}
	return tx.Commit(ctx)
}

func (p *PostgresStore) UpsertResults(ctx context.Context, quizID string, results []quiz.Result) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM results WHERE quiz_id = $1`, quizID); err != nil {
		return fmt.Errorf("clear results: %w", err)
	}
	for _, r := range results {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO results (id, quiz_id, title, description, min_score, max_score, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, now())`,
			r.ID, quizID, r.Title, r.Description, r.MinScore, r.MaxScore,
		); err != nil {
			return fmt.Errorf("insert result %s: %w", r.ID, err)
		}
	}
	return tx.Commit(ctx)
}

func (p *PostgresStore) RecordAnswer(ctx context.Context, rec AnswerRecord) error {
	value, err := json.Marshal(rec.Answer.Value)
	if err != nil {
		return fmt.Errorf("encode answer value: %w", err)
	}
	recordedAt := rec.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO answers (session_id, quiz_id, step, value, question_id, option_id, recorded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.SessionID, rec.QuizID, rec.Answer.Step, value, rec.Answer.QuestionID, rec.Answer.OptionID, recordedAt,
	)
	if err != nil {
		return fmt.Errorf("record answer: %w", err)
	}
	return nil
}

// Close closes the database connection pool.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}
