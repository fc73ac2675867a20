package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sentimentMarket/internal/ports"
)

const defaultBaseURL = "https://api-inference.huggingface.co/models/"

// Client implements the ports.SentimentScorer interface using the Hugging
// Face hosted-inference API for a financial text-classification model
// (FinBERT by default). The returned score is P(positive) - P(negative),
// which lands in [-1, 1].
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	logger     ports.Logger
}

// Config holds configuration specific to the sentiment adapter.
type Config struct {
	Model   string // e.g. "ProsusAI/finbert"
	Token   string // HF API token; required by the hosted endpoint
	BaseURL string // Override for tests
	Timeout time.Duration
	Logger  ports.Logger
}

// New creates a new sentiment scorer adapter.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for sentiment client")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: sentiment model name is required", ports.ErrConfigurationError)
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   strings.TrimSuffix(baseURL, "/") + "/" + cfg.Model,
		token:      cfg.Token,
		logger:     cfg.Logger,
	}, nil
}

type classification struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type apiError struct {
	Error string `json:"error"`
}

// Score classifies a headline and returns positive minus negative probability.
// Empty text scores 0.0 without a network call.
func (c *Client) Score(ctx context.Context, text string) (float64, error) {
	op := "Score"
	if strings.TrimSpace(text) == "" {
		return 0.0, nil
	}

	payload, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return 0, fmt.Errorf("%s failed: %w: %w", op, ports.ErrInvalidRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("%s failed: %w: %w", op, ports.ErrInvalidRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, c.handleError(ctx, err, op)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("%s failed reading response: %w: %w", op, ports.ErrScorerUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, c.handleStatus(ctx, resp.StatusCode, body, op)
	}

	// The classification endpoint returns one label/score list per input.
	var results [][]classification
	if err := json.Unmarshal(body, &results); err != nil {
		return 0, fmt.Errorf("%s failed decoding response: %w: %w", op, ports.ErrScorerUnavailable, err)
	}
	if len(results) == 0 || len(results[0]) == 0 {
		return 0, fmt.Errorf("%s failed: %w: empty classification result", op, ports.ErrScorerUnavailable)
	}

	var pos, neg float64
	for _, cls := range results[0] {
		switch strings.ToLower(cls.Label) {
		case "positive":
			pos = cls.Score
		case "negative":
			neg = cls.Score
		}
	}
	return pos - neg, nil
}

func (c *Client) handleStatus(ctx context.Context, status int, body []byte, op string) error {
	var detail apiError
	_ = json.Unmarshal(body, &detail)

	var mapped error
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		mapped = ports.ErrAuthenticationFailed
	case http.StatusTooManyRequests:
		mapped = ports.ErrRateLimited
	case http.StatusServiceUnavailable:
		// The hosted endpoint answers 503 while the model container warms up.
		mapped = ports.ErrModelLoading
	default:
		mapped = ports.ErrScorerUnavailable
	}
	err := fmt.Errorf("%s failed: %w: status %d: %s", op, mapped, status, detail.Error)
	c.logger.Error(ctx, err, "Sentiment request failed", map[string]interface{}{
		"operation": op, "status": status,
	})
	return err
}

func (c *Client) handleError(ctx context.Context, err error, op string) error {
	var finalErr error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		finalErr = fmt.Errorf("%s failed: %w: %w", op, ports.ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		finalErr = fmt.Errorf("%s canceled: %w: %w", op, ports.ErrContextCanceled, err)
	default:
		finalErr = fmt.Errorf("%s failed: %w: %w", op, ports.ErrConnectionFailed, err)
	}
	c.logger.Error(ctx, err, "Sentiment request failed", map[string]interface{}{"operation": op})
	return finalErr
}
