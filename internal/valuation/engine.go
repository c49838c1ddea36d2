// Package valuation implements the comparable-sales valuation engine:
// point estimate with a bounded value range, market trend snapshot,
// reliability scoring, and buyer-facing insights.
//
// Every function here is a deterministic, side-effect-free function of its
// inputs. The only suspension point is the comparable fetch, which is a
// collaborator read: an empty or failed fetch is valid input and propagates
// as degenerate (zero) values, never as an error from this package.
//
// All monetary values use shopspring/decimal — never float64 for money.
package valuation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/propfolio/listing-engine/internal/model"
)

var (
	// ErrInvalidPrice is returned for a negative asking price.
	ErrInvalidPrice = errors.New("valuation: price must not be negative")

	// ErrInvalidArea is returned for a negative subject area.
	ErrInvalidArea = errors.New("valuation: area must not be negative")
)

// Good-buy and investment scoring parameters. The scoring function is
// intentionally additive and reproducible for identical inputs.
const (
	goodBuyMaxRatio = 1.05

	investmentBase     = 50
	maxComparablesKept = 5
)

// ComparableSource supplies comparable properties for a subject. A failed
// fetch is treated as "no comparables" by the engine.
type ComparableSource interface {
	Find(ctx context.Context, subject model.SubjectProperty) ([]model.ComparableProperty, error)
}

// Engine orchestrates the valuation pipeline. It is stateless and safe for
// concurrent use.
type Engine struct {
	source ComparableSource
	market MarketAnalyzer
}

// NewEngine creates a valuation engine with the given collaborators.
func NewEngine(source ComparableSource, market MarketAnalyzer) *Engine {
	return &Engine{source: source, market: market}
}

// ValueProperty runs the full pipeline: comparables, comparative value,
// market analysis, confidence, insights. Pass nil comps to fetch them from
// the ComparableSource.
//
// The five steps always run in sequence — confidence and insights consume
// the market read — and never short-circuit: degenerate values from an
// earlier step propagate through.
func (e *Engine) ValueProperty(ctx context.Context, subject model.SubjectProperty, comps []model.ComparableProperty) (model.ValuationResult, error) {
	if subject.Price.IsNegative() {
		return model.ValuationResult{}, ErrInvalidPrice
	}
	if subject.AreaSqft < 0 {
		return model.ValuationResult{}, ErrInvalidArea
	}

	if comps == nil {
		fetched, err := e.source.Find(ctx, subject)
		if err != nil {
			// Collaborator failure is recovered locally: value with no
			// comparables rather than escalating.
			slog.Warn("comparable fetch failed, valuing without comparables",
				"city", subject.City, "country", subject.Country, "err", err)
			fetched = nil
		}
		comps = fetched
	}

	comparative := CompareToMarket(subject.AreaSqft, comps)
	market := e.market.Snapshot(ctx, subject.City, subject.Country)
	confidence := ConfidenceScore(comps, market)
	insights := GenerateInsights(subject.Price, comparative.EstimatedValue, market)

	kept := comps
	if len(kept) > maxComparablesKept {
		kept = kept[:maxComparablesKept]
	}

	return model.ValuationResult{
		EstimatedValue:  comparative.EstimatedValue,
		ValueRange:      comparative.ValueRange,
		ConfidenceScore: confidence,
		PricePerSqft:    comparative.PricePerSqft,
		Market:          market,
		Comparables:     kept,
		Insights:        insights,
		IsGoodBuy:       isGoodBuy(subject.Price, comparative.EstimatedValue),
		InvestmentScore: investmentScore(subject.Price, comparative.EstimatedValue, market),
		ValuedAt:        time.Now().UTC(),
	}, nil
}

// isGoodBuy: asking price within 5% of (or below) the estimate. Always
// false for a zero estimate.
func isGoodBuy(price, estimated decimal.Decimal) bool {
	if !estimated.IsPositive() {
		return false
	}
	ratio, _ := price.Div(estimated).Float64()
	return ratio <= goodBuyMaxRatio
}

// investmentScore is the 0-100 composite heuristic: base 50, adjusted by
// price-vs-value band, market trend, location quality, and the 5-year
// appreciation forecast.
func investmentScore(price, estimated decimal.Decimal, market model.MarketSnapshot) int {
	score := investmentBase

	if estimated.IsPositive() {
		ratio, _ := price.Div(estimated).Float64()
		switch {
		case ratio < 0.95:
			score += 20
		case ratio < 1.0:
			score += 10
		case ratio > 1.1:
			score -= 15
		}
	}

	switch market.Trend {
	case model.TrendIncreasing:
		score += 15
	case model.TrendDecreasing:
		score -= 10
	}

	score += (market.LocationScore - 50) / 5

	if market.Forecast.FiveYear > 25 {
		score += 10
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
