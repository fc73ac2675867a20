package binancebars

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"sentimentMarket/internal/domain"
	"sentimentMarket/internal/ports"

	binance "github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
)

// Client implements the ports.BarSource interface using the go-binance
// library, for runs against crypto symbols (e.g. BTCUSDT) instead of
// equities. Kline endpoints are public, so API keys are optional.
type Client struct {
	spotClient *binance.Client
	symbol     string
	limit      int
	logger     ports.Logger
}

// Config holds configuration specific to the Binance bars adapter.
type Config struct {
	APIKey    string
	SecretKey string
	Symbol    string // e.g. "BTCUSDT"
	Limit     int    // Max bars per fetch; defaults to 400
	Logger    ports.Logger
}

// New creates a new Binance bar source adapter.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Binance bars client")
	}
	if cfg.Symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", ports.ErrConfigurationError)
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = 400
	}
	return &Client{
		spotClient: binance.NewClient(cfg.APIKey, cfg.SecretKey),
		symbol:     cfg.Symbol,
		limit:      limit,
		logger:     cfg.Logger,
	}, nil
}

// Bars fetches one-minute klines starting at the given UTC instant.
func (c *Client) Bars(ctx context.Context, instant time.Time) ([]*domain.Bar, error) {
	op := "Bars"
	klines, err := c.spotClient.NewKlinesService().
		Symbol(c.symbol).
		Interval("1m").
		StartTime(instant.UTC().UnixMilli()).
		Limit(c.limit).
		Do(ctx)
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}

	bars := make([]*domain.Bar, 0, len(klines))
	for _, k := range klines {
		bar, err := translateKline(k)
		if err != nil {
			return nil, c.handleError(ctx, fmt.Errorf("failed to translate kline: %w", err), op)
		}
		bars = append(bars, bar)
	}

	c.logger.Debug(ctx, "Fetched bars", map[string]interface{}{
		"symbol": c.symbol, "start": instant.UTC().Format(time.RFC3339), "count": len(bars),
	})
	return bars, nil
}

// translateKline converts a go-binance kline (string prices) into a domain Bar.
func translateKline(k *binance.Kline) (*domain.Bar, error) {
	open, err := strconv.ParseFloat(k.Open, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing open price %q: %w", k.Open, err)
	}
	high, err := strconv.ParseFloat(k.High, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing high price %q: %w", k.High, err)
	}
	low, err := strconv.ParseFloat(k.Low, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing low price %q: %w", k.Low, err)
	}
	closeP, err := strconv.ParseFloat(k.Close, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing close price %q: %w", k.Close, err)
	}
	volume, err := strconv.ParseFloat(k.Volume, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing volume %q: %w", k.Volume, err)
	}
	return &domain.Bar{
		Timestamp: time.UnixMilli(k.OpenTime).UTC(),
		Open:      open,
		High:      high,
		Low:       low,
		Close:     closeP,
		Volume:    volume,
	}, nil
}

// handleError translates common Binance API errors into standardized ports errors.
func (c *Client) handleError(ctx context.Context, err error, op string) error {
	if err == nil {
		return nil
	}

	fields := map[string]interface{}{"operation": op, "originalError": err.Error()}

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		fields["apiErrorCode"] = apiErr.Code
		fields["apiErrorMessage"] = apiErr.Message

		var mappedErr error
		switch apiErr.Code {
		case -1003: // Too many requests
			mappedErr = ports.ErrRateLimited
		case -1022: // Invalid signature
			mappedErr = ports.ErrAuthenticationFailed
		case -1100, -1101, -1102, -1103, -1104, -1105, -1106, -1120, -1121:
			mappedErr = ports.ErrInvalidRequest
		case -2014, -2015: // API-key format invalid / bad permissions
			mappedErr = ports.ErrAuthenticationFailed
		default:
			mappedErr = ports.ErrProviderUnavailable
		}
		finalErr := fmt.Errorf("%s failed: %w: %w", op, mappedErr, err)
		c.logger.Error(ctx, err, fmt.Sprintf("%s failed with API error", op), fields)
		return finalErr
	}

	var finalErr error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		finalErr = fmt.Errorf("%s failed: %w: %w", op, ports.ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		finalErr = fmt.Errorf("%s canceled: %w: %w", op, ports.ErrContextCanceled, err)
	default:
		finalErr = fmt.Errorf("%s failed: %w: %w", op, ports.ErrConnectionFailed, err)
	}
	c.logger.Error(ctx, err, fmt.Sprintf("%s failed", op), fields)
	return finalErr
}
