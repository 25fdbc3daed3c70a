package analysis

// Each predicate is evaluated on its own; an activity may satisfy several.

func IsConsensus(a Activity) bool {
	return a.LoveVotes >= 2 && a.PassVotes == 0
}

func IsControversial(a Activity) bool {
	diff := a.LoveVotes - a.PassVotes
	return a.LoveVotes >= 1 && a.PassVotes >= 1 && diff >= -1 && diff <= 1
}

func IsPolarizing(a Activity) bool {
	return a.PassVotes >= 2 && a.LoveVotes >= 1
}

func IsUnanimous(a Activity) bool {
	return a.LoveVotes >= 3 && a.LikeVotes == 0 && a.PassVotes == 0
}

func (d *Dataset) GroupDynamics() GroupDynamics {
	g := GroupDynamics{
		Consensus:     []Activity{},
		Controversial: []Activity{},
		Polarizing:    []Activity{},
		Unanimous:     []Activity{},
	}
	for _, a := range d.Activities() {
		if IsConsensus(a) {
			g.Consensus = append(g.Consensus, a)
		}
		if IsControversial(a) {
			g.Controversial = append(g.Controversial, a)
		}
		if IsPolarizing(a) {
			g.Polarizing = append(g.Polarizing, a)
		}
		if IsUnanimous(a) {
			g.Unanimous = append(g.Unanimous, a)
		}
	}
	return g
}

func (d *Dataset) VotingPatterns() VotingPatterns {
	t := d.TotalStats()
	total := t.TotalLoveVotes + t.TotalLikeVotes + t.TotalPassVotes
	return VotingPatterns{
		TotalVotes:     total,
		LovePercentage: percentage(t.TotalLoveVotes, total),
		LikePercentage: percentage(t.TotalLikeVotes, total),
		PassPercentage: percentage(t.TotalPassVotes, total),
		Engagement:     float64(total) / float64(max(t.TotalActivities, 1)),
	}
}
