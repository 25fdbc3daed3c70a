package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupPredicates(t *testing.T) {
	tests := []struct {
		name                                            string
		love, like, pass                                int
		consensus, controversial, polarizing, unanimous bool
	}{
		{name: "two loves only", love: 2, consensus: true},
		{name: "three loves only", love: 3, consensus: true, unanimous: true},
		{name: "three loves and a like", love: 3, like: 1, consensus: true},
		{name: "split vote", love: 1, pass: 1, controversial: true},
		{name: "one love two passes", love: 1, pass: 2, controversial: true, polarizing: true},
		{name: "one love three passes", love: 1, pass: 3, polarizing: true},
		{name: "likes only", like: 4},
		{name: "nothing", love: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Activity{LoveVotes: tt.love, LikeVotes: tt.like, PassVotes: tt.pass}
			assert.Equal(t, tt.consensus, IsConsensus(a), "consensus")
			assert.Equal(t, tt.controversial, IsControversial(a), "controversial")
			assert.Equal(t, tt.polarizing, IsPolarizing(a), "polarizing")
			assert.Equal(t, tt.unanimous, IsUnanimous(a), "unanimous")
		})
	}
}

func TestGroupDynamics(t *testing.T) {
	ds := NewDataset([]Activity{
		act("Tacos", "Food", "$8", 3, 0, 0),
		act("Opera", "Culture", "$80", 1, 0, 2),
		act("Karaoke", "Entertainment", "$15", 2, 1, 2),
	})

	g := ds.GroupDynamics()

	require.Len(t, g.Consensus, 1)
	assert.Equal(t, "Tacos", g.Consensus[0].Name)
	require.Len(t, g.Unanimous, 1)
	assert.Equal(t, "Tacos", g.Unanimous[0].Name)
	assert.Len(t, g.Controversial, 2)
	assert.Len(t, g.Polarizing, 2)
}

func TestVotingPatterns(t *testing.T) {
	ds := NewDataset([]Activity{
		act("Tacos", "Food", "$8", 3, 1, 0),
		act("Opera", "Culture", "$80", 1, 0, 3),
	})

	p := ds.VotingPatterns()

	assert.Equal(t, 8, p.TotalVotes)
	assert.Equal(t, 50.0, p.LovePercentage)
	assert.Equal(t, 12.5, p.LikePercentage)
	assert.Equal(t, 37.5, p.PassPercentage)
	assert.Equal(t, 4.0, p.Engagement)
}

func TestVotingPatternsWithoutVotes(t *testing.T) {
	p := NewDataset([]Activity{act("Quiet", "Other", "Free", 0, 0, 0)}).VotingPatterns()

	assert.Equal(t, VotingPatterns{}, p)
}
