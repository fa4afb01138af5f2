package loteca

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		in         string
		home, away int
	}{
		{"3-1", 3, 1},
		{"2–0", 2, 0},
		{"1—4", 1, 4},
		{" 2 - 2 ", 2, 2},
		{"3.0-1.0", 3, 1},
		{"abc", 0, 0},
		{"", 0, 0},
		{"nan", 0, 0},
		{"3", 0, 0},
		{"-", 0, 0},
		{"a-1", 0, 0},
	}
	for _, tt := range tests {
		h, a := ParseScore(tt.in)
		assert.Equal(t, tt.home, h, "home goals for %q", tt.in)
		assert.Equal(t, tt.away, a, "away goals for %q", tt.in)
	}
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, ResultWin, Outcome(2, 1))
	assert.Equal(t, ResultDraw, Outcome(2, 2))
	assert.Equal(t, ResultLoss, Outcome(0, 1))
}
