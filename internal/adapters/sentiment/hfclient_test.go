package sentiment

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

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

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{
		Model:   "ProsusAI/finbert",
		Token:   "token",
		BaseURL: server.URL,
		Logger:  &mockLogger{},
	})
	require.NoError(t, err)
	return client
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{Model: "m"})
	assert.Error(t, err, "logger is required")

	_, err = New(Config{Logger: &mockLogger{}})
	assert.ErrorIs(t, err, ports.ErrConfigurationError)
}

func TestScore(t *testing.T) {
	var gotBody map[string]string
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotBody)
		w.Write([]byte(`[[
			{"label": "positive", "score": 0.85},
			{"label": "negative", "score": 0.05},
			{"label": "neutral", "score": 0.10}
		]]`))
	})

	score, err := client.Score(context.Background(), "Company beats earnings estimates")
	require.NoError(t, err)
	assert.InDelta(t, 0.80, score, 1e-9)
	assert.Equal(t, "Bearer token", gotAuth)
	assert.Equal(t, "Company beats earnings estimates", gotBody["inputs"])
}

func TestScore_NegativeHeadline(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[
			{"label": "positive", "score": 0.03},
			{"label": "negative", "score": 0.91},
			{"label": "neutral", "score": 0.06}
		]]`))
	})

	score, err := client.Score(context.Background(), "Company files for bankruptcy")
	require.NoError(t, err)
	assert.InDelta(t, -0.88, score, 1e-9)
}

func TestScore_EmptyTextSkipsNetwork(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	score, err := client.Score(context.Background(), "   ")
	require.NoError(t, err)
	assert.Zero(t, score)
	assert.False(t, called)
}

func TestScore_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "model loading", status: http.StatusServiceUnavailable, body: `{"error": "Model ProsusAI/finbert is currently loading"}`, wantErr: ports.ErrModelLoading},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error": "unauthorized"}`, wantErr: ports.ErrAuthenticationFailed},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{}`, wantErr: ports.ErrRateLimited},
		{name: "server error", status: http.StatusInternalServerError, body: `{}`, wantErr: ports.ErrScorerUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := client.Score(context.Background(), "headline")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestScore_EmptyClassification(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := client.Score(context.Background(), "headline")
	assert.ErrorIs(t, err, ports.ErrScorerUnavailable)
}
