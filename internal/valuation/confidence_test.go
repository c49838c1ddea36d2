package valuation

import (
	"testing"

	"github.com/propfolio/listing-engine/internal/model"
)

func snapshotWithTrend(trend model.MarketTrend) model.MarketSnapshot {
	s := NeutralSnapshot()
	s.Trend = trend
	return s
}

func TestConfidenceScore_NoComparables(t *testing.T) {
	// Base 50 plus the 10-point stability bonus.
	got := ConfidenceScore(nil, snapshotWithTrend(model.TrendStable))
	if got != 60 {
		t.Errorf("expected 60, got %v", got)
	}
}

func TestConfidenceScore_DecreasingMarketNoBonus(t *testing.T) {
	got := ConfidenceScore(nil, snapshotWithTrend(model.TrendDecreasing))
	if got != 50 {
		t.Errorf("expected 50, got %v", got)
	}
}

func TestConfidenceScore_ComparableCountCapped(t *testing.T) {
	// 20 stale comparables: count bonus caps at 30, no recency points.
	comps := make([]model.ComparableProperty, 20)
	for i := range comps {
		comps[i].DaysOnMarket = 120
	}
	got := ConfidenceScore(comps, snapshotWithTrend(model.TrendDecreasing))
	if got != 80 {
		t.Errorf("expected 80 (50 + capped 30), got %v", got)
	}
}

func TestConfidenceScore_RecencyBonusCapped(t *testing.T) {
	// 10 fresh comparables: 50 + 30 + min(20, 10) = 90.
	comps := make([]model.ComparableProperty, 10)
	for i := range comps {
		comps[i].DaysOnMarket = 20
	}
	got := ConfidenceScore(comps, snapshotWithTrend(model.TrendDecreasing))
	if got != 90 {
		t.Errorf("expected 90, got %v", got)
	}
}

func TestConfidenceScore_NeverExceedsCeiling(t *testing.T) {
	comps := make([]model.ComparableProperty, 50)
	for i := range comps {
		comps[i].DaysOnMarket = 5
	}
	got := ConfidenceScore(comps, snapshotWithTrend(model.TrendIncreasing))
	if got != MaxConfidenceScore {
		t.Errorf("expected cap at %v, got %v", MaxConfidenceScore, got)
	}
}

func TestConfidenceScore_SixtyDayBoundaryNotRecent(t *testing.T) {
	comps := []model.ComparableProperty{
		{DaysOnMarket: 59},
		{DaysOnMarket: 60},
	}
	// 50 + 2*3 + 1*2 (only the 59-day one is recent) = 58.
	got := ConfidenceScore(comps, snapshotWithTrend(model.TrendDecreasing))
	if got != 58 {
		t.Errorf("expected 58, got %v", got)
	}
}
