package valuation

import "github.com/propfolio/listing-engine/internal/model"

// Confidence scoring weights. The 95 ceiling is deliberate: the engine
// never claims near-certainty.
const (
	confidenceBase       = 50.0
	perComparablePoints  = 3.0
	comparablePointsCap  = 30.0
	perRecentPoints      = 2.0
	recentPointsCap      = 10.0
	stableMarketPoints   = 10.0
	recentDaysOnMarket   = 60
	MaxConfidenceScore   = 95.0
)

// ConfidenceScore rates valuation reliability in [0, 95] from comparable
// count, comparable recency, and market stability:
//
//	score = 50 + min(3·count, 30) + min(2·recent, 10) + 10 if trend stable/increasing
//
// where recent counts comparables on market for under 60 days.
func ConfidenceScore(comps []model.ComparableProperty, market model.MarketSnapshot) float64 {
	score := confidenceBase

	score += min(float64(len(comps))*perComparablePoints, comparablePointsCap)

	recent := 0
	for _, c := range comps {
		if c.DaysOnMarket < recentDaysOnMarket {
			recent++
		}
	}
	score += min(float64(recent)*perRecentPoints, recentPointsCap)

	if market.Trend == model.TrendStable || market.Trend == model.TrendIncreasing {
		score += stableMarketPoints
	}

	if score > MaxConfidenceScore {
		score = MaxConfidenceScore
	}
	if score < 0 {
		score = 0
	}
	return score
}
