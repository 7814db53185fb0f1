package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected string
	}{
		{"small", 999, "999"},
		{"thousands", 1500, "1.5K"},
		{"millions", 2300000, "2.3M"},
		{"zero", 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatNumber(tt.input))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "2h 5m", FormatDuration(2*time.Hour+5*time.Minute))
	assert.Equal(t, "45m", FormatDuration(45*time.Minute))
}

func TestFormatAgo(t *testing.T) {
	now := time.Date(2025, 8, 29, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "10s ago", FormatAgo(now.Add(-10*time.Second), now))
	assert.Equal(t, "3m ago", FormatAgo(now.Add(-3*time.Minute), now))
	assert.Equal(t, "2h ago", FormatAgo(now.Add(-2*time.Hour), now))
	assert.Equal(t, "", FormatAgo(time.Time{}, now))
}

func TestTruncateAndPad(t *testing.T) {
	assert.Equal(t, "hello", TruncateToWidth("hello", 10))
	assert.Equal(t, "hell…", TruncateToWidth("hello world", 5))
	assert.Equal(t, 10, GetDisplayWidth(PadToWidth("abc", 10)))
	assert.Equal(t, 4, GetDisplayWidth(PadToWidth("日本語です", 4)))
}
