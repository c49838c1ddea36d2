// Package comparables provides ComparableSource implementations: a
// deterministic synthetic generator for environments without a listing
// feed, and a store-backed source that queries persisted listings.
//
// Synthetic data generation lives here and only here — keeping it out of
// the valuation math keeps the scoring deterministic and testable.
package comparables

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/propfolio/listing-engine/internal/model"
)

// syntheticCount is how many comparables the generator produces.
const syntheticCount = 10

// SyntheticSource fabricates comparables around the subject's own
// attributes. Fully deterministic: the same subject always yields the same
// comparables. Prices fan out ±15% and areas ±10% around the subject.
type SyntheticSource struct{}

// NewSyntheticSource creates the generator.
func NewSyntheticSource() *SyntheticSource {
	return &SyntheticSource{}
}

// Find generates ten comparables spread around the subject.
func (s *SyntheticSource) Find(_ context.Context, subject model.SubjectProperty) ([]model.ComparableProperty, error) {
	comps := make([]model.ComparableProperty, 0, syntheticCount)

	for i := 0; i < syntheticCount; i++ {
		priceVariance := 1 + float64(i-5)*0.03
		areaVariance := 1 + float64(i-5)*0.02

		price := subject.Price.Mul(decimal.NewFromFloat(priceVariance)).Round(0)
		area := float64(int(subject.AreaSqft * areaVariance))

		bathrooms := subject.Bathrooms
		if bathrooms == 0 {
			bathrooms = 2
		}

		comps = append(comps, model.ComparableProperty{
			Address:       fmt.Sprintf("Comparable Property %d", i+1),
			Price:         price,
			Bedrooms:      subject.Bedrooms,
			Bathrooms:     bathrooms,
			AreaSqft:      area,
			DaysOnMarket:  15 + i*3,
			SaleDate:      "2025-11-01",
			DistanceMiles: 0.5 + float64(i)*0.2,
		})
	}

	return comps, nil
}

// ComparableQuerier is the slice of the store the listing-backed source
// needs.
type ComparableQuerier interface {
	FindComparables(ctx context.Context, subject model.SubjectProperty, limit int) ([]model.ComparableProperty, error)
}

// StoreSource serves comparables from persisted listings in the same city
// and of the same type as the subject.
type StoreSource struct {
	querier ComparableQuerier
	limit   int
}

// NewStoreSource creates a store-backed source returning at most limit
// comparables per call.
func NewStoreSource(querier ComparableQuerier, limit int) *StoreSource {
	if limit <= 0 {
		limit = syntheticCount
	}
	return &StoreSource{querier: querier, limit: limit}
}

// Find queries the store for comparable listings.
func (s *StoreSource) Find(ctx context.Context, subject model.SubjectProperty) ([]model.ComparableProperty, error) {
	return s.querier.FindComparables(ctx, subject, s.limit)
}
