package timealign

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLogger struct {
	warnMsgs []string
}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.warnMsgs = append(m.warnMsgs, msg)
}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

func newTestAligner(t *testing.T) (*Aligner, *mockLogger) {
	t.Helper()
	ml := &mockLogger{}
	aligner, err := New(Config{MarketTimezone: "America/New_York", Logger: ml})
	require.NoError(t, err)
	return aligner, ml
}

func TestAlign(t *testing.T) {
	aligner, _ := newTestAligner(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		date   string
		time   string
		want   time.Time
		wantOK bool
	}{
		{
			// EST (UTC-5): 09:30 New York is 14:30 UTC.
			name:   "date only defaults to market open, winter",
			date:   "2024-02-05",
			want:   time.Date(2024, 2, 5, 14, 30, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			// EDT (UTC-4): 09:30 New York is 13:30 UTC.
			name:   "date only defaults to market open, summer",
			date:   "2024-07-10",
			want:   time.Date(2024, 7, 10, 13, 30, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "explicit time, winter",
			date:   "2024-02-05",
			time:   "11:45",
			want:   time.Date(2024, 2, 5, 16, 45, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "explicit time with seconds",
			date:   "2024-02-05",
			time:   "11:45:30",
			want:   time.Date(2024, 2, 5, 16, 45, 30, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "twelve-hour clock",
			date:   "2024-02-05",
			time:   "2:15 PM",
			want:   time.Date(2024, 2, 5, 19, 15, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "US slash date",
			date:   "02/05/2024",
			want:   time.Date(2024, 2, 5, 14, 30, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "datetime glued into the date column",
			date:   "2024-02-05 00:00:00",
			want:   time.Date(2024, 2, 5, 14, 30, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "unparseable time falls back to market open",
			date:   "2024-02-05",
			time:   "not a time",
			want:   time.Date(2024, 2, 5, 14, 30, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "unparseable date fails the row",
			date:   "garbage",
			wantOK: false,
		},
		{
			name:   "empty date fails the row",
			date:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := aligner.Align(ctx, tt.date, tt.time)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
				assert.Equal(t, time.UTC, got.Location())
			}
		})
	}
}

func TestAlign_FailureLogsRawInputs(t *testing.T) {
	aligner, ml := newTestAligner(t)

	_, ok := aligner.Align(context.Background(), "garbage", "also garbage")
	assert.False(t, ok)
	assert.NotEmpty(t, ml.warnMsgs, "a failed alignment must emit a diagnostic")
}

func TestNew_UnknownZoneFallsBackToFixedOffset(t *testing.T) {
	ml := &mockLogger{}
	aligner, err := New(Config{MarketTimezone: "Not/AZone", Logger: ml})
	require.NoError(t, err)
	assert.NotEmpty(t, ml.warnMsgs)

	// The fixed UTC-5 fallback ignores DST, so even a summer date maps
	// 09:30 local to 14:30 UTC.
	got, ok := aligner.Align(context.Background(), "2024-07-10", "")
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2024, 7, 10, 14, 30, 0, 0, time.UTC)))
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "2024-02-05", NormalizeDate("02/05/2024"))
	assert.Equal(t, "2024-02-05", NormalizeDate("2024-02-05 00:00:00"))
	assert.Equal(t, "garbage", NormalizeDate("garbage"))
}

func TestNormalizeClock(t *testing.T) {
	assert.Equal(t, "09:30:00", NormalizeClock("9:30 AM"))
	assert.Equal(t, "14:15:00", NormalizeClock("14:15"))
	assert.Equal(t, "", NormalizeClock(""))
	assert.Equal(t, "garbage", NormalizeClock("garbage"))
}
