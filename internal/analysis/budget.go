package analysis

import (
	"strconv"
	"strings"
)

const FreePrice = "Free"

const (
	TierFree     = "Free"
	TierBudget   = "Budget ($1-25)"
	TierModerate = "Moderate ($26-50)"
	TierPremium  = "Premium ($51-100)"
	TierLuxury   = "Luxury ($100+)"
)

var tierOrder = []string{TierFree, TierBudget, TierModerate, TierPremium, TierLuxury}

// PriceValue extracts a number from a display price such as "$25" or "€12.50 pp".
// Everything except digits, '.' and '-' is dropped, then the longest leading
// decimal literal is parsed. ok is false when no number can be read.
func PriceValue(price string) (value float64, ok bool) {
	var b strings.Builder
	for _, r := range price {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	s := b.String()

	end := 0
	if end < len(s) && s[end] == '-' {
		end++
	}
	digits := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// PriceTier classifies a display price. It returns "" for prices that are
// unreadable or negative.
func PriceTier(price string) string {
	if price == FreePrice {
		return TierFree
	}
	v, ok := PriceValue(price)
	switch {
	case !ok || v < 0:
		return ""
	case v == 0:
		return TierFree
	case v <= 25:
		return TierBudget
	case v <= 50:
		return TierModerate
	case v <= 100:
		return TierPremium
	default:
		return TierLuxury
	}
}

// BudgetAnalysis groups activities by price tier. Empty tiers are left out and
// the rest keep the fixed Free..Luxury order.
func (d *Dataset) BudgetAnalysis() []BudgetTier {
	members := make(map[string][]Activity, len(tierOrder))
	for _, a := range d.Activities() {
		if tier := PriceTier(a.Price); tier != "" {
			members[tier] = append(members[tier], a)
		}
	}

	tiers := make([]BudgetTier, 0, len(tierOrder))
	for _, name := range tierOrder {
		acts := members[name]
		if len(acts) == 0 {
			continue
		}
		var sum float64
		best := acts[0]
		for _, a := range acts {
			sum += a.Score
			if a.Score > best.Score {
				best = a
			}
		}
		tiers = append(tiers, BudgetTier{
			Tier:       name,
			Activities: acts,
			AvgScore:   mean(sum, len(acts)),
			Count:      len(acts),
			BestValue:  best,
		})
	}
	return tiers
}
