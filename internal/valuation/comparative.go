package valuation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/propfolio/listing-engine/internal/model"
)

// MoneyScale is the number of decimal places for monetary rounding.
const MoneyScale int32 = 2

// ComparativeValue is the output of the comparable-sales approach.
type ComparativeValue struct {
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	ValueRange     model.ValueRange `json:"value_range"`
	PricePerSqft   decimal.Decimal `json:"price_per_sqft"`
}

// CompareToMarket values a subject by its comparables.
//
// Price-per-sqft is computed for every comparable with a positive area and
// the median (not the mean — resistant to outlier listings) is multiplied
// by the subject area. The value range is the 10th/90th percentile bracket
// of comparable prices. Deterministic for identical inputs: any synthetic
// comparable generation lives behind ComparableSource, never here.
//
// Empty comparables or a zero subject area yield a zero estimate, never an
// error.
func CompareToMarket(subjectAreaSqft float64, comps []model.ComparableProperty) ComparativeValue {
	if len(comps) == 0 {
		return ComparativeValue{
			EstimatedValue: decimal.Zero,
			ValueRange:     model.ValueRange{Low: decimal.Zero, High: decimal.Zero},
			PricePerSqft:   decimal.Zero,
		}
	}

	var perSqft []decimal.Decimal
	for _, c := range comps {
		if c.AreaSqft > 0 {
			perSqft = append(perSqft, c.Price.Div(decimal.NewFromFloat(c.AreaSqft)))
		}
	}

	ppsf := median(perSqft)

	estimated := decimal.Zero
	if subjectAreaSqft > 0 && ppsf.IsPositive() {
		estimated = ppsf.Mul(decimal.NewFromFloat(subjectAreaSqft)).Round(MoneyScale)
	}

	return ComparativeValue{
		EstimatedValue: estimated,
		ValueRange:     priceRange(comps),
		PricePerSqft:   ppsf.Round(MoneyScale),
	}
}

// median returns the middle value of vals (mean of the two middles for an
// even count). Zero for an empty slice.
func median(vals []decimal.Decimal) decimal.Decimal {
	if len(vals) == 0 {
		return decimal.Zero
	}
	sorted := make([]decimal.Decimal, len(vals))
	copy(sorted, vals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2))
}

// priceRange brackets comparable prices at the 10th and 90th percentiles.
// Index math follows ⌊n/10⌋ and ⌊0.9n⌋, clamped into [0, n-1].
func priceRange(comps []model.ComparableProperty) model.ValueRange {
	prices := make([]decimal.Decimal, len(comps))
	for i, c := range comps {
		prices[i] = c.Price
	}
	sort.Slice(prices, func(i, j int) bool { return prices[i].LessThan(prices[j]) })

	n := len(prices)
	lowIdx := clampIndex(n/10, n)
	highIdx := clampIndex(n*9/10, n)

	return model.ValueRange{Low: prices[lowIdx], High: prices[highIdx]}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
