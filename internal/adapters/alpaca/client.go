package alpaca

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"sentimentMarket/internal/domain"
	"sentimentMarket/internal/ports"
)

const (
	defaultBaseURL = "https://data.alpaca.markets/v2/stocks/bars"
	defaultLimit   = 400 // roughly one trading day of minute bars
	defaultFeed    = "iex"
)

// Client implements the ports.BarSource interface against the Alpaca Market
// Data v2 REST API. Alpaca has no official Go SDK, so requests are issued
// directly over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	secretKey  string
	symbol     string
	limit      int
	feed       string
	logger     ports.Logger
}

// Config holds configuration specific to the Alpaca client adapter.
type Config struct {
	APIKey    string
	SecretKey string
	Symbol    string        // Instrument ticker, e.g. "QQQ"
	Limit     int           // Max bars per fetch; defaults to 400
	Feed      string        // Data feed; defaults to "iex"
	BaseURL   string        // Override for tests
	Timeout   time.Duration // HTTP client timeout
	// InsecureTLS disables certificate verification. Some corporate proxies
	// re-sign TLS traffic; this keeps the pipeline usable behind them at the
	// cost of transport security. Off unless explicitly requested.
	InsecureTLS bool
	Logger      ports.Logger
}

// New creates a new Alpaca client adapter.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Alpaca client")
	}
	if cfg.Symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", ports.ErrConfigurationError)
	}
	if cfg.APIKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("%w: Alpaca API key and secret are required", ports.ErrConfigurationError)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	feed := cfg.Feed
	if feed == "" {
		feed = defaultFeed
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		cfg.Logger.Warn(context.Background(), "TLS certificate verification DISABLED for Alpaca requests")
	}

	return &Client{
		httpClient: &http.Client{Transport: transport, Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		secretKey:  cfg.SecretKey,
		symbol:     cfg.Symbol,
		limit:      limit,
		feed:       feed,
		logger:     cfg.Logger,
	}, nil
}

// barPayload mirrors one bar object in the Alpaca response.
type barPayload struct {
	Timestamp time.Time `json:"t"`
	Open      float64   `json:"o"`
	High      float64   `json:"h"`
	Low       float64   `json:"l"`
	Close     float64   `json:"c"`
	Volume    float64   `json:"v"`
}

type barsResponse struct {
	Bars map[string][]barPayload `json:"bars"`
}

// Bars fetches one-minute bars starting at the given UTC instant.
// An empty result with a nil error means Alpaca had no data for the instant.
func (c *Client) Bars(ctx context.Context, instant time.Time) ([]*domain.Bar, error) {
	op := "Bars"

	params := url.Values{}
	params.Set("symbols", c.symbol)
	params.Set("timeframe", "1Min")
	params.Set("start", instant.UTC().Format("2006-01-02T15:04:05Z"))
	params.Set("limit", fmt.Sprintf("%d", c.limit))
	params.Set("feed", c.feed)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w: %w", op, ports.ErrInvalidRequest, err)
	}
	req.Header.Set("APCA-API-KEY-ID", c.apiKey)
	req.Header.Set("APCA-API-SECRET-KEY", c.secretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleStatus(ctx, resp, op)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s failed reading response: %w: %w", op, ports.ErrProviderUnavailable, err)
	}

	var parsed barsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%s failed decoding response: %w: %w", op, ports.ErrProviderUnavailable, err)
	}

	payload := parsed.Bars[c.symbol]
	bars := make([]*domain.Bar, 0, len(payload))
	for _, b := range payload {
		bars = append(bars, &domain.Bar{
			Timestamp: b.Timestamp,
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		})
	}

	c.logger.Debug(ctx, "Fetched bars", map[string]interface{}{
		"symbol": c.symbol, "start": instant.UTC().Format(time.RFC3339), "count": len(bars),
	})
	return bars, nil
}

// handleStatus translates non-200 responses into standardized ports errors.
func (c *Client) handleStatus(ctx context.Context, resp *http.Response, op string) error {
	var mapped error
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		mapped = ports.ErrAuthenticationFailed
	case http.StatusTooManyRequests:
		mapped = ports.ErrRateLimited
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		mapped = ports.ErrInvalidRequest
	case http.StatusNotFound:
		mapped = ports.ErrNotFound
	default:
		mapped = ports.ErrProviderUnavailable
	}
	err := fmt.Errorf("%s failed: %w: provider returned status %d", op, mapped, resp.StatusCode)
	c.logger.Error(ctx, err, "Alpaca request failed", map[string]interface{}{
		"operation": op, "status": resp.StatusCode,
	})
	return err
}

// handleError translates transport-level errors into standardized ports errors.
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
	c.logger.Error(ctx, err, "Alpaca request failed", map[string]interface{}{"operation": op})
	return finalErr
}
