package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceValue(t *testing.T) {
	tests := []struct {
		name  string
		price string
		value float64
		ok    bool
	}{
		{name: "dollar amount", price: "$30", value: 30, ok: true},
		{name: "decimal", price: "$12.50", value: 12.5, ok: true},
		{name: "thousands separator dropped", price: "$1,200", value: 1200, ok: true},
		{name: "range keeps lower bound", price: "$1-25", value: 1, ok: true},
		{name: "trailing text", price: "15 per person", value: 15, ok: true},
		{name: "leading dot", price: ".5", value: 0.5, ok: true},
		{name: "negative", price: "-5", value: -5, ok: true},
		{name: "zero", price: "$0", value: 0, ok: true},
		{name: "not available", price: "N/A", ok: false},
		{name: "free text", price: "Free", ok: false},
		{name: "empty", price: "", ok: false},
		{name: "lone dash", price: "-", ok: false},
		{name: "double dash", price: "--5", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := PriceValue(tt.price)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.value, v, 1e-9)
			}
		})
	}
}

func TestPriceTier(t *testing.T) {
	tests := []struct {
		price    string
		expected string
	}{
		{price: "Free", expected: TierFree},
		{price: "$0", expected: TierFree},
		{price: "$0.50", expected: TierBudget},
		{price: "$25", expected: TierBudget},
		{price: "$25.01", expected: TierModerate},
		{price: "$30", expected: TierModerate},
		{price: "$50", expected: TierModerate},
		{price: "$51", expected: TierPremium},
		{price: "$100", expected: TierPremium},
		{price: "$101", expected: TierLuxury},
		{price: "N/A", expected: ""},
		{price: "free", expected: ""},
		{price: "-10", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			assert.Equal(t, tt.expected, PriceTier(tt.price))
		})
	}
}

func TestBudgetAnalysis(t *testing.T) {
	tiers := sampleDataset().BudgetAnalysis()

	require.Len(t, tiers, 4)

	assert.Equal(t, TierFree, tiers[0].Tier)
	assert.Equal(t, 2, tiers[0].Count)
	assert.Equal(t, 5.5, tiers[0].AvgScore)
	assert.Equal(t, "Hiking", tiers[0].BestValue.Name)

	assert.Equal(t, TierBudget, tiers[1].Tier)
	assert.Equal(t, 2, tiers[1].Count)
	assert.Equal(t, 0.5, tiers[1].AvgScore)
	assert.Equal(t, "Museum", tiers[1].BestValue.Name)

	assert.Equal(t, TierModerate, tiers[2].Tier)
	assert.Equal(t, "Escape Room", tiers[2].BestValue.Name)

	assert.Equal(t, TierLuxury, tiers[3].Tier, "empty premium tier omitted")
	assert.Equal(t, 1, tiers[3].Count)
}

func TestBudgetAnalysisSinglePrice(t *testing.T) {
	tiers := NewDataset([]Activity{act("Escape Room", "Entertainment", "$30", 1, 0, 0)}).BudgetAnalysis()

	require.Len(t, tiers, 1)
	assert.Equal(t, TierModerate, tiers[0].Tier)
}

func TestBudgetAnalysisBestValueTie(t *testing.T) {
	tiers := NewDataset([]Activity{
		act("Pizza", "Food", "$10", 1, 0, 0),
		act("Burgers", "Food", "$12", 1, 0, 0),
	}).BudgetAnalysis()

	require.Len(t, tiers, 1)
	assert.Equal(t, "Pizza", tiers[0].BestValue.Name)
}
