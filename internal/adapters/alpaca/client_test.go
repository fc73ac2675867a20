package alpaca

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentimentMarket/internal/ports"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{
		APIKey:    "key",
		SecretKey: "secret",
		Symbol:    "QQQ",
		BaseURL:   server.URL,
		Logger:    &mockLogger{},
	})
	require.NoError(t, err)
	return client, server
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{APIKey: "k", SecretKey: "s", Symbol: "QQQ"})
	assert.Error(t, err, "logger is required")

	_, err = New(Config{APIKey: "k", SecretKey: "s", Logger: &mockLogger{}})
	assert.ErrorIs(t, err, ports.ErrConfigurationError)

	_, err = New(Config{Symbol: "QQQ", Logger: &mockLogger{}})
	assert.ErrorIs(t, err, ports.ErrConfigurationError)
}

func TestBars(t *testing.T) {
	const payload = `{
		"bars": {
			"QQQ": [
				{"t": "2024-02-05T14:30:00Z", "o": 100.0, "h": 101.0, "l": 99.5, "c": 100.5, "v": 1200},
				{"t": "2024-02-05T14:31:00Z", "o": 100.5, "h": 102.0, "l": 100.0, "c": 101.5, "v": 900}
			]
		}
	}`

	var gotQuery map[string]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"symbols":   r.URL.Query().Get("symbols"),
			"timeframe": r.URL.Query().Get("timeframe"),
			"start":     r.URL.Query().Get("start"),
			"limit":     r.URL.Query().Get("limit"),
			"feed":      r.URL.Query().Get("feed"),
			"key":       r.Header.Get("APCA-API-KEY-ID"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	})

	instant := time.Date(2024, 2, 5, 14, 30, 0, 0, time.UTC)
	bars, err := client.Bars(context.Background(), instant)
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, "QQQ", gotQuery["symbols"])
	assert.Equal(t, "1Min", gotQuery["timeframe"])
	assert.Equal(t, "2024-02-05T14:30:00Z", gotQuery["start"])
	assert.Equal(t, "400", gotQuery["limit"])
	assert.Equal(t, "iex", gotQuery["feed"])
	assert.Equal(t, "key", gotQuery["key"])

	assert.Equal(t, 100.0, bars[0].Open)
	assert.Equal(t, 101.0, bars[0].High)
	assert.Equal(t, 99.5, bars[0].Low)
	assert.Equal(t, 100.5, bars[0].Close)
	assert.Equal(t, 101.5, bars[1].Close)
}

func TestBars_EmptyResult(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bars": {}}`))
	})

	bars, err := client.Bars(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, bars, "no data for the instant is not an error")
}

func TestBars_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: ports.ErrAuthenticationFailed},
		{name: "forbidden", status: http.StatusForbidden, wantErr: ports.ErrAuthenticationFailed},
		{name: "rate limited", status: http.StatusTooManyRequests, wantErr: ports.ErrRateLimited},
		{name: "bad request", status: http.StatusBadRequest, wantErr: ports.ErrInvalidRequest},
		{name: "server error", status: http.StatusInternalServerError, wantErr: ports.ErrProviderUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			_, err := client.Bars(context.Background(), time.Now())
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}

func TestBars_ContextTimeout(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"bars": {}}`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.Bars(ctx, time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ports.ErrTimeout) || errors.Is(err, ports.ErrConnectionFailed))
}
