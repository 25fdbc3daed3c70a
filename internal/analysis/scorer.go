package analysis

const (
	loveWeight = 2.0
	likeWeight = 1.0
	passWeight = -1.0
)

// CalculateScore is the weighted vote score. It is not clamped and may go negative.
func CalculateScore(love, like, pass int) float64 {
	return loveWeight*float64(love) + likeWeight*float64(like) + passWeight*float64(pass)
}

// ScoreOf recomputes the score from an activity's votes, ignoring any stored value.
func ScoreOf(a Activity) float64 {
	return CalculateScore(a.LoveVotes, a.LikeVotes, a.PassVotes)
}

// WithScore returns a copy of a with Score derived from its votes.
func (a Activity) WithScore() Activity {
	a.Score = ScoreOf(a)
	return a
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
