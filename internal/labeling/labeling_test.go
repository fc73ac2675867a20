package labeling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sentimentMarket/internal/domain"
)

func TestLabel(t *testing.T) {
	labeler := NewLabeler(0.05)

	tests := []struct {
		name      string
		sentiment float64
		move60    float64
		want      domain.AccuracyLabel
	}{
		{name: "positive sentiment, price up", sentiment: 0.10, move60: 1.0, want: domain.LabelAgree},
		{name: "positive sentiment, price down", sentiment: 0.10, move60: -1.0, want: domain.LabelDisagree},
		{name: "negative sentiment, price down", sentiment: -0.10, move60: -1.0, want: domain.LabelAgree},
		{name: "negative sentiment, price up", sentiment: -0.10, move60: 1.0, want: domain.LabelDisagree},
		{name: "neutral sentiment, price up", sentiment: 0.02, move60: 1.0, want: domain.LabelNoSignal},
		{name: "neutral sentiment, price down", sentiment: -0.02, move60: -1.0, want: domain.LabelNoSignal},
		{name: "sentiment exactly at threshold", sentiment: 0.05, move60: 1.0, want: domain.LabelNoSignal},
		{name: "sentiment exactly at negative threshold", sentiment: -0.05, move60: -1.0, want: domain.LabelNoSignal},
		{name: "strong sentiment, flat move", sentiment: 0.90, move60: 0.0, want: domain.LabelNoSignal},
		{name: "strong negative sentiment, flat move", sentiment: -0.90, move60: 0.0, want: domain.LabelNoSignal},
		{name: "zero sentiment, zero move", sentiment: 0.0, move60: 0.0, want: domain.LabelNoSignal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := labeler.Label(tt.sentiment, tt.move60)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLabeler_DefaultThreshold(t *testing.T) {
	labeler := NewLabeler(0)

	// 0.04 is inside the default 0.05 neutral band.
	assert.Equal(t, domain.LabelNoSignal, labeler.Label(0.04, 1.0))
	assert.Equal(t, domain.LabelAgree, labeler.Label(0.06, 1.0))
}

func TestLabelCell(t *testing.T) {
	assert.Equal(t, "1", domain.LabelAgree.Cell())
	assert.Equal(t, "0", domain.LabelDisagree.Cell())
	assert.Equal(t, "", domain.LabelNoSignal.Cell())
}
