package analysis

import (
	"cmp"
	"slices"
)

const (
	DefaultTopN   = 10
	OtherCategory = "Other"
)

// Dataset is an immutable snapshot of voted activities. It keeps its own copy
// of the input and every query hands back fresh slices, so callers can share a
// *Dataset across goroutines without locking.
type Dataset struct {
	activities []Activity
}

// NewDataset copies activities into a new snapshot.
func NewDataset(activities []Activity) *Dataset {
	return &Dataset{activities: slices.Clone(activities)}
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.activities)
}

// Activities returns a copy of the snapshot contents in load order.
func (d *Dataset) Activities() []Activity {
	if d == nil {
		return []Activity{}
	}
	out := make([]Activity, len(d.activities))
	copy(out, d.activities)
	return out
}

// TopActivities returns the n highest scoring activities. Equal scores keep
// their load order. n <= 0 means DefaultTopN.
func (d *Dataset) TopActivities(n int) []Activity {
	if n <= 0 {
		n = DefaultTopN
	}
	sorted := d.Activities()
	slices.SortStableFunc(sorted, func(a, b Activity) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return sorted[:min(n, len(sorted))]
}

type categoryBucket struct {
	name  string
	count int
	sum   float64
	top   Activity
}

// buckets groups by category in first-seen order. Blank categories fall into OtherCategory.
func (d *Dataset) buckets() []*categoryBucket {
	index := make(map[string]*categoryBucket)
	var order []*categoryBucket
	for _, a := range d.Activities() {
		name := a.Category
		if name == "" {
			name = OtherCategory
		}
		b, ok := index[name]
		if !ok {
			b = &categoryBucket{name: name, top: a}
			index[name] = b
			order = append(order, b)
		} else if a.Score > b.top.Score {
			b.top = a
		}
		b.count++
		b.sum += a.Score
	}
	return order
}

func (d *Dataset) CategoryStats() []CategoryStat {
	buckets := d.buckets()
	stats := make([]CategoryStat, 0, len(buckets))
	for _, b := range buckets {
		stats = append(stats, CategoryStat{
			Category: b.name,
			Count:    b.count,
			AvgScore: mean(b.sum, b.count),
		})
	}
	slices.SortStableFunc(stats, func(a, b CategoryStat) int {
		return cmp.Compare(b.AvgScore, a.AvgScore)
	})
	return stats
}

// CategoryLeaders reports the best activity of each category. Ties go to the
// activity encountered first.
func (d *Dataset) CategoryLeaders() []CategoryLeader {
	buckets := d.buckets()
	leaders := make([]CategoryLeader, 0, len(buckets))
	for _, b := range buckets {
		leaders = append(leaders, CategoryLeader{
			Category:    b.name,
			TopActivity: b.top,
			AvgScore:    mean(b.sum, b.count),
			Count:       b.count,
		})
	}
	slices.SortStableFunc(leaders, func(a, b CategoryLeader) int {
		return cmp.Compare(b.AvgScore, a.AvgScore)
	})
	return leaders
}

func (d *Dataset) TotalStats() Totals {
	var t Totals
	var sum float64
	for _, a := range d.Activities() {
		t.TotalActivities++
		t.TotalLoveVotes += a.LoveVotes
		t.TotalLikeVotes += a.LikeVotes
		t.TotalPassVotes += a.PassVotes
		sum += a.Score
	}
	t.AvgScore = mean(sum, t.TotalActivities)
	return t
}

// AvailableCategories lists distinct non-empty categories in ascending order.
func (d *Dataset) AvailableCategories() []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, a := range d.Activities() {
		if a.Category == "" {
			continue
		}
		if _, ok := seen[a.Category]; ok {
			continue
		}
		seen[a.Category] = struct{}{}
		out = append(out, a.Category)
	}
	slices.Sort(out)
	return out
}

// Summary computes every view at once.
func (d *Dataset) Summary(topN int) Summary {
	return Summary{
		Totals:              d.TotalStats(),
		TopActivities:       d.TopActivities(topN),
		CategoryStats:       d.CategoryStats(),
		CategoryLeaders:     d.CategoryLeaders(),
		BudgetAnalysis:      d.BudgetAnalysis(),
		GroupDynamics:       d.GroupDynamics(),
		VotingPatterns:      d.VotingPatterns(),
		ScoreDistribution:   d.ScoreDistribution(),
		AvailableCategories: d.AvailableCategories(),
	}
}
