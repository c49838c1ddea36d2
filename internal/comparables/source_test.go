package comparables

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/propfolio/listing-engine/internal/model"
)

func testSubject() model.SubjectProperty {
	return model.SubjectProperty{
		Price:    decimal.NewFromInt(2850000),
		Bedrooms: 4,
		AreaSqft: 2100,
		City:     "Dubai",
		Country:  "UAE",
		Type:     model.TypeVilla,
	}
}

func TestSyntheticSource_Count(t *testing.T) {
	comps, err := NewSyntheticSource().Find(context.Background(), testSubject())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comps) != 10 {
		t.Errorf("expected 10 comparables, got %d", len(comps))
	}
}

func TestSyntheticSource_Deterministic(t *testing.T) {
	src := NewSyntheticSource()
	ctx := context.Background()

	first, _ := src.Find(ctx, testSubject())
	second, _ := src.Find(ctx, testSubject())

	for i := range first {
		if !first[i].Price.Equal(second[i].Price) {
			t.Errorf("comparable %d: price differs between runs: %s vs %s",
				i, first[i].Price, second[i].Price)
		}
		if first[i].AreaSqft != second[i].AreaSqft {
			t.Errorf("comparable %d: area differs between runs", i)
		}
	}
}

func TestSyntheticSource_PricesFanAroundSubject(t *testing.T) {
	comps, _ := NewSyntheticSource().Find(context.Background(), testSubject())

	subjectPrice := decimal.NewFromInt(2850000)
	low := subjectPrice.Mul(decimal.NewFromFloat(0.84))
	high := subjectPrice.Mul(decimal.NewFromFloat(1.13))

	for i, c := range comps {
		if c.Price.LessThan(low) || c.Price.GreaterThan(high) {
			t.Errorf("comparable %d price %s outside variance band", i, c.Price)
		}
	}
}

func TestSyntheticSource_InheritsSubjectAttributes(t *testing.T) {
	comps, _ := NewSyntheticSource().Find(context.Background(), testSubject())

	for i, c := range comps {
		if c.Bedrooms != 4 {
			t.Errorf("comparable %d: expected 4 bedrooms, got %d", i, c.Bedrooms)
		}
		if c.Address == "" {
			t.Errorf("comparable %d: expected an address", i)
		}
	}
}

func TestSyntheticSource_DefaultBathrooms(t *testing.T) {
	subject := testSubject()
	subject.Bathrooms = 0

	comps, _ := NewSyntheticSource().Find(context.Background(), subject)
	for i, c := range comps {
		if c.Bathrooms != 2 {
			t.Errorf("comparable %d: expected default 2 bathrooms, got %d", i, c.Bathrooms)
		}
	}
}

// stubQuerier records the limit it was called with.
type stubQuerier struct {
	limit int
	err   error
}

func (q *stubQuerier) FindComparables(_ context.Context, _ model.SubjectProperty, limit int) ([]model.ComparableProperty, error) {
	q.limit = limit
	return nil, q.err
}

func TestStoreSource_PassesLimit(t *testing.T) {
	q := &stubQuerier{}
	src := NewStoreSource(q, 7)

	if _, err := src.Find(context.Background(), testSubject()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.limit != 7 {
		t.Errorf("expected limit 7, got %d", q.limit)
	}
}

func TestStoreSource_DefaultLimit(t *testing.T) {
	q := &stubQuerier{}
	src := NewStoreSource(q, 0)

	src.Find(context.Background(), testSubject())
	if q.limit != 10 {
		t.Errorf("expected default limit 10, got %d", q.limit)
	}
}

func TestStoreSource_PropagatesError(t *testing.T) {
	q := &stubQuerier{err: errors.New("db down")}
	src := NewStoreSource(q, 5)

	if _, err := src.Find(context.Background(), testSubject()); err == nil {
		t.Errorf("expected querier error to propagate")
	}
}
