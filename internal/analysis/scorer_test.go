package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateScore(t *testing.T) {
	tests := []struct {
		name             string
		love, like, pass int
		expected         float64
	}{
		{name: "weights love double", love: 3, like: 1, pass: 2, expected: 5},
		{name: "all zero", expected: 0},
		{name: "passes push negative", love: 0, like: 1, pass: 4, expected: -3},
		{name: "love only", love: 4, expected: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateScore(tt.love, tt.like, tt.pass))
		})
	}
}

func TestWithScoreIgnoresStoredValue(t *testing.T) {
	a := Activity{Name: "Kayak", LoveVotes: 2, LikeVotes: 1, Score: 99}

	scored := a.WithScore()

	assert.Equal(t, 5.0, scored.Score)
	assert.Equal(t, 99.0, a.Score, "receiver must not change")
	assert.Equal(t, ScoreOf(Activity{LoveVotes: 2, LikeVotes: 1}), scored.Score)
}

func TestActivityGroups(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "blank", input: "   ", expected: nil},
		{name: "single", input: "Team A", expected: []string{"Team A"}},
		{name: "several", input: "Team A / Team B / Chaperones", expected: []string{"Team A", "Team B", "Chaperones"}},
		{name: "drops blank labels", input: "Team A /  / Team B", expected: []string{"Team A", "Team B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Activity{GroupNames: tt.input}.Groups())
		})
	}
}
