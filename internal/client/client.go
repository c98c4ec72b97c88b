// Package client is an HTTP client for the quizflow API, used by the
// quizctl command line tool.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avelinsk/quizflow/internal/quiz"
)

// Client is an HTTP client for the quizflow API
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// QuizContent is a quiz definition as the API exchanges it.
type QuizContent struct {
	Quiz      quiz.Quiz       `json:"quiz"`
	Questions []quiz.Question `json:"questions"`
}

// ListQuizzes retrieves all published quizzes.
func (c *Client) ListQuizzes(ctx context.Context) ([]quiz.Quiz, error) {
	var result struct {
		Quizzes []quiz.Quiz `json:"quizzes"`
	}
	if err := c.get(ctx, "/v1/quizzes", &result); err != nil {
		return nil, err
	}
	return result.Quizzes, nil
}

// GetQuiz retrieves one quiz with its questions by slug.
func (c *Client) GetQuiz(ctx context.Context, slug string) (*QuizContent, error) {
	var content QuizContent
	if err := c.get(ctx, "/v1/quizzes/"+slug, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// GetRules retrieves a quiz's insight rules. Requires the admin key.
func (c *Client) GetRules(ctx context.Context, slug string) ([]quiz.Rule, error) {
	var result struct {
		Rules []quiz.Rule `json:"rules"`
	}
	if err := c.get(ctx, "/v1/admin/quizzes/"+slug+"/rules", &result); err != nil {
		return nil, err
	}
	return result.Rules, nil
}

// GetResults retrieves a quiz's result ranges. Requires the admin key.
func (c *Client) GetResults(ctx context.Context, slug string) ([]quiz.Result, error) {
	var result struct {
		Results []quiz.Result `json:"results"`
	}
	if err := c.get(ctx, "/v1/admin/quizzes/"+slug+"/results", &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// UpsertQuiz creates or replaces a quiz and its question list.
func (c *Client) UpsertQuiz(ctx context.Context, content QuizContent) error {
	return c.put(ctx, "/v1/admin/quizzes", content)
}

// UpsertRules replaces a quiz's insight rules.
func (c *Client) UpsertRules(ctx context.Context, slug string, rules []quiz.Rule) error {
	return c.put(ctx, "/v1/admin/quizzes/"+slug+"/rules", map[string]any{"rules": rules})
}

// UpsertResults replaces a quiz's result ranges.
func (c *Client) UpsertResults(ctx context.Context, slug string, results []quiz.Result) error {
	return c.put(ctx, "/v1/admin/quizzes/"+slug+"/results", map[string]any{"results": results})
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) put(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return apiError(resp)
	}
	return nil
}

func apiError(resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(bodyBytes))
}
