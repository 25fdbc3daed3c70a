package analysis

const (
	BinExcellent = "Excellent (8+)"
	BinGood      = "Good (5-7)"
	BinAverage   = "Average (2-4)"
	BinPoor      = "Poor (0-1)"
	BinNegative  = "Negative (<0)"
)

var binOrder = []string{BinExcellent, BinGood, BinAverage, BinPoor, BinNegative}

// ScoreBinFor places a score in its histogram bin. Bins are bounded below only,
// so fractional scores land in the bin whose lower edge they cleared.
func ScoreBinFor(score float64) string {
	switch {
	case score >= 8:
		return BinExcellent
	case score >= 5:
		return BinGood
	case score >= 2:
		return BinAverage
	case score >= 0:
		return BinPoor
	default:
		return BinNegative
	}
}

func (d *Dataset) ScoreDistribution() []ScoreBin {
	counts := make(map[string]int, len(binOrder))
	for _, a := range d.Activities() {
		counts[ScoreBinFor(a.Score)]++
	}
	total := d.Len()
	bins := make([]ScoreBin, 0, len(binOrder))
	for _, name := range binOrder {
		if counts[name] == 0 {
			continue
		}
		bins = append(bins, ScoreBin{
			Range:      name,
			Count:      counts[name],
			Percentage: percentage(counts[name], total),
		})
	}
	return bins
}
