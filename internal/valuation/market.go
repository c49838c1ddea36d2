package valuation

import (
	"context"

	"github.com/propfolio/listing-engine/internal/model"
)

// MarketAnalyzer produces a market trend snapshot for a location.
//
// Implementations backed by a live market-data feed must preserve the
// output shape and ranges (DemandScore/LocationScore in [0,100], YoY change
// a signed percentage) and must return the same snapshot for the same
// location. A failed or empty read fails closed with a neutral snapshot —
// it never errors.
type MarketAnalyzer interface {
	Snapshot(ctx context.Context, city, country string) model.MarketSnapshot
}

// ReferenceAnalyzer is the deterministic built-in MarketAnalyzer. It is
// parameterized only on having some location; no external call is made.
type ReferenceAnalyzer struct{}

// NewReferenceAnalyzer creates the built-in analyzer.
func NewReferenceAnalyzer() *ReferenceAnalyzer {
	return &ReferenceAnalyzer{}
}

// Snapshot returns the reference market read for a located subject, or the
// neutral snapshot when no location is given.
func (a *ReferenceAnalyzer) Snapshot(_ context.Context, city, country string) model.MarketSnapshot {
	if city == "" && country == "" {
		return NeutralSnapshot()
	}

	return model.MarketSnapshot{
		Trend:              model.TrendIncreasing,
		YoYPriceChange:     8.5,
		MedianDaysOnMarket: 45,
		InventoryLevel:     model.InventoryLow,
		DemandScore:        85,
		LocationScore:      92,
		Velocity:           model.VelocityHot,
		Forecast: model.AppreciationForecast{
			OneYear:   6.2,
			ThreeYear: 18.5,
			FiveYear:  32.0,
		},
		NeighborhoodRating: 4.5,
	}
}

// NeutralSnapshot is the fail-closed market read: stable, mid-scale scores,
// zero forecast. Used when no location data is available.
func NeutralSnapshot() model.MarketSnapshot {
	return model.MarketSnapshot{
		Trend:              model.TrendStable,
		YoYPriceChange:     0,
		MedianDaysOnMarket: 60,
		InventoryLevel:     model.InventoryModerate,
		DemandScore:        50,
		LocationScore:      50,
		Velocity:           model.VelocityWarm,
		Forecast:           model.AppreciationForecast{},
		NeighborhoodRating: 3.0,
	}
}
