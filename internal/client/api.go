package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/math-practice/backend/internal/models"
)

// API is the server contract the session drives.
type API interface {
	GenerateProblem(ctx context.Context, req models.GenerateProblemRequest) (*models.GenerateProblemResponse, error)
	SubmitAnswer(ctx context.Context, req models.SubmitAnswerRequest) (*models.SubmitAnswerResponse, error)
}

// APIError is a non-2xx reply. Message comes from the server's error envelope
// when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// HTTPClient talks to the math practice server over JSON.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient targets baseURL, e.g. http://localhost:8080. The timeout
// sits above the server's AI timeout so the server reports first.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 45 * time.Second},
	}
}

func (c *HTTPClient) GenerateProblem(ctx context.Context, req models.GenerateProblemRequest) (*models.GenerateProblemResponse, error) {
	var resp models.GenerateProblemResponse
	if err := c.post(ctx, "/api/math-problem", req, &resp); err != nil {
		return nil, err
	}
	if resp.SessionID == "" || resp.ProblemText == "" {
		return nil, fmt.Errorf("incomplete problem in response")
	}
	return &resp, nil
}

func (c *HTTPClient) SubmitAnswer(ctx context.Context, req models.SubmitAnswerRequest) (*models.SubmitAnswerResponse, error) {
	// Pointers tell a missing field apart from false or 0.
	var raw struct {
		IsCorrect     *bool    `json:"is_correct"`
		FeedbackText  string   `json:"feedback_text"`
		CorrectAnswer *float64 `json:"correct_answer"`
		SubmissionID  string   `json:"submission_id"`
	}
	if err := c.post(ctx, "/api/math-problem/submit", req, &raw); err != nil {
		return nil, err
	}
	if raw.IsCorrect == nil || raw.CorrectAnswer == nil || raw.FeedbackText == "" {
		return nil, fmt.Errorf("incomplete verdict in response")
	}
	return &models.SubmitAnswerResponse{
		IsCorrect:     *raw.IsCorrect,
		FeedbackText:  raw.FeedbackText,
		CorrectAnswer: *raw.CorrectAnswer,
		SubmissionID:  raw.SubmissionID,
	}, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope models.ErrorResponse
		msg := http.StatusText(resp.StatusCode)
		if json.Unmarshal(data, &envelope) == nil && envelope.Error != "" {
			msg = envelope.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
