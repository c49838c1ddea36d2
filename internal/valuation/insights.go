package valuation

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/propfolio/listing-engine/internal/model"
)

// Thresholds for insight rules.
const (
	fairPricedBandPct    = 5.0
	overpricedConcernPct = 10.0
	underpricedActPct    = -5.0
	strongLocationScore  = 80
	highDemandScore      = 70
)

// GenerateInsights derives the summary, strengths, concerns, and
// recommendations for a valuation. Every applicable rule fires; ordering is
// fixed (strengths, then concerns, then recommendations) and the two
// constant recommendations — inspection and fee review — are always
// appended last.
func GenerateInsights(askingPrice, estimatedValue decimal.Decimal, market model.MarketSnapshot) model.Insights {
	gapPct := priceGapPct(askingPrice, estimatedValue)

	ins := model.Insights{
		Summary:         summarize(gapPct),
		Strengths:       []string{},
		Concerns:        []string{},
		Recommendations: []string{},
	}

	if market.Trend == model.TrendIncreasing {
		ins.Strengths = append(ins.Strengths, "Strong market appreciation trend")
	}
	if market.LocationScore > strongLocationScore {
		ins.Strengths = append(ins.Strengths, "Excellent location rating")
	}
	if market.DemandScore > highDemandScore {
		ins.Strengths = append(ins.Strengths, "High buyer demand in the area")
	}

	if gapPct > overpricedConcernPct {
		ins.Concerns = append(ins.Concerns, "Property is overpriced compared to similar listings")
	}
	if market.InventoryLevel == model.InventoryHigh {
		ins.Concerns = append(ins.Concerns, "High inventory may lead to price negotiations")
	}

	if gapPct < underpricedActPct {
		ins.Recommendations = append(ins.Recommendations, "Act quickly - this is below market value")
	}
	if market.Velocity == model.VelocityHot {
		ins.Recommendations = append(ins.Recommendations, "Competitive market - be prepared for multiple offers")
	}
	ins.Recommendations = append(ins.Recommendations,
		"Get a professional inspection before purchasing",
		"Review HOA fees and property taxes in detail",
	)

	return ins
}

// priceGapPct is (price − estimated) / estimated × 100. A zero estimate
// yields 0 rather than dividing.
func priceGapPct(price, estimated decimal.Decimal) float64 {
	if estimated.IsZero() {
		return 0
	}
	gap, _ := price.Sub(estimated).
		Div(estimated).
		Mul(decimal.NewFromInt(100)).
		Float64()
	return gap
}

// summarize picks the summary line on a three-way |gap| tie-break.
func summarize(gapPct float64) string {
	switch {
	case math.Abs(gapPct) < fairPricedBandPct:
		return "This property is fairly priced according to current market conditions."
	case gapPct < 0:
		return fmt.Sprintf("This property is priced %.1f%% below market value - a potential good deal.", math.Abs(gapPct))
	default:
		return fmt.Sprintf("This property is priced %.1f%% above market value - consider negotiating.", gapPct)
	}
}
