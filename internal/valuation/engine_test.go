package valuation

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/propfolio/listing-engine/internal/model"
)

// stubSource returns a fixed comparable set.
type stubSource struct {
	comps []model.ComparableProperty
	err   error
}

func (s *stubSource) Find(_ context.Context, _ model.SubjectProperty) ([]model.ComparableProperty, error) {
	return s.comps, s.err
}

func testSubject() model.SubjectProperty {
	return model.SubjectProperty{
		Price:    d(2850000),
		Bedrooms: 4,
		AreaSqft: 2100,
		City:     "Dubai",
		Country:  "UAE",
		Type:     model.TypeVilla,
	}
}

// --- Pipeline tests ---

func TestValueProperty_FullScenario(t *testing.T) {
	// Subject at 2,850,000 over 2,100 sqft against comparables with a
	// median of 1,350/sqft: estimate 2,835,000, asking 0.53% above it.
	engine := NewEngine(&stubSource{comps: compsAtPpsf(10, 1350)}, NewReferenceAnalyzer())

	result, err := engine.ValueProperty(context.Background(), testSubject(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.EstimatedValue.Equal(d(2835000)) {
		t.Errorf("expected estimate 2835000, got %s", result.EstimatedValue)
	}
	if !result.IsGoodBuy {
		t.Errorf("asking 0.53%% above estimate is within the 5%% good-buy band")
	}
	if result.ConfidenceScore != 95 {
		t.Errorf("expected confidence 95, got %v", result.ConfidenceScore)
	}
	// Base 50, trend +15, location (92-50)/5 = +8, forecast +10.
	if result.InvestmentScore != 83 {
		t.Errorf("expected investment score 83, got %d", result.InvestmentScore)
	}
	if len(result.Comparables) != 5 {
		t.Errorf("expected 5 kept comparables, got %d", len(result.Comparables))
	}
	if result.ValuedAt.IsZero() {
		t.Errorf("expected valuation timestamp to be set")
	}
}

func TestValueProperty_ExplicitComparablesSkipSource(t *testing.T) {
	// Passing comparables directly must not touch the source.
	engine := NewEngine(&stubSource{err: errors.New("source must not be called")}, NewReferenceAnalyzer())

	comps := compsAtPpsf(4, 1000)
	result, err := engine.ValueProperty(context.Background(), testSubject(), comps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.EstimatedValue.IsZero() {
		t.Errorf("expected non-zero estimate from explicit comparables")
	}
}

func TestValueProperty_SourceFailureRecovered(t *testing.T) {
	// A failed comparable fetch degrades to an empty set; it never errors.
	engine := NewEngine(&stubSource{err: errors.New("feed down")}, NewReferenceAnalyzer())

	result, err := engine.ValueProperty(context.Background(), testSubject(), nil)
	if err != nil {
		t.Fatalf("expected recovery, got error: %v", err)
	}
	if !result.EstimatedValue.IsZero() {
		t.Errorf("expected zero estimate with no comparables, got %s", result.EstimatedValue)
	}
	if result.IsGoodBuy {
		t.Errorf("zero estimate can never be a good buy")
	}
}

func TestValueProperty_EmptyComparables(t *testing.T) {
	engine := NewEngine(&stubSource{}, NewReferenceAnalyzer())

	result, err := engine.ValueProperty(context.Background(), testSubject(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.EstimatedValue.IsZero() {
		t.Errorf("expected zero estimate, got %s", result.EstimatedValue)
	}
	if !result.ValueRange.Low.IsZero() || !result.ValueRange.High.IsZero() {
		t.Errorf("expected zero range, got [%s, %s]", result.ValueRange.Low, result.ValueRange.High)
	}
	// Confidence and insights still run against the market read.
	if result.ConfidenceScore == 0 {
		t.Errorf("confidence must still be scored without comparables")
	}
	if result.Insights.Summary == "" {
		t.Errorf("insights must still be generated without comparables")
	}
}

func TestValueProperty_NegativePrice(t *testing.T) {
	engine := NewEngine(&stubSource{}, NewReferenceAnalyzer())

	subject := testSubject()
	subject.Price = d(-1)

	_, err := engine.ValueProperty(context.Background(), subject, nil)
	if !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("expected ErrInvalidPrice, got %v", err)
	}
}

func TestValueProperty_NegativeArea(t *testing.T) {
	engine := NewEngine(&stubSource{}, NewReferenceAnalyzer())

	subject := testSubject()
	subject.AreaSqft = -10

	_, err := engine.ValueProperty(context.Background(), subject, nil)
	if !errors.Is(err, ErrInvalidArea) {
		t.Errorf("expected ErrInvalidArea, got %v", err)
	}
}

func TestValueProperty_NoLocationGetsNeutralMarket(t *testing.T) {
	engine := NewEngine(&stubSource{}, NewReferenceAnalyzer())

	subject := testSubject()
	subject.City = ""
	subject.Country = ""

	result, err := engine.ValueProperty(context.Background(), subject, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Market.Trend != model.TrendStable {
		t.Errorf("expected neutral stable trend, got %s", result.Market.Trend)
	}
	if result.Market.LocationScore != 50 {
		t.Errorf("expected neutral location score 50, got %d", result.Market.LocationScore)
	}
}

// --- Good buy tests ---

func TestIsGoodBuy_Boundary(t *testing.T) {
	tests := []struct {
		name      string
		price     float64
		estimated float64
		want      bool
	}{
		{"below estimate", 900000, 1000000, true},
		{"exactly at estimate", 1000000, 1000000, true},
		{"exactly 5 percent over", 1050000, 1000000, true},
		{"just over the band", 1060000, 1000000, false},
		{"zero estimate", 1000000, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isGoodBuy(d(tt.price), d(tt.estimated)); got != tt.want {
				t.Errorf("isGoodBuy(%v, %v) = %v, want %v", tt.price, tt.estimated, got, tt.want)
			}
		})
	}
}

// --- Investment score tests ---

func TestInvestmentScore_PriceBands(t *testing.T) {
	market := NeutralSnapshot() // stable trend, location 50: no adjustments

	tests := []struct {
		name  string
		price float64
		want  int
	}{
		{"well under value", 900000, 70},
		{"slightly under value", 980000, 60},
		{"at value", 1000000, 50},
		{"slightly over value", 1050000, 50},
		{"well over value", 1150000, 35},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := investmentScore(d(tt.price), d(1000000), market)
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestInvestmentScore_TrendAdjustments(t *testing.T) {
	base := NeutralSnapshot()

	up := base
	up.Trend = model.TrendIncreasing
	if got := investmentScore(d(1000000), d(1000000), up); got != 65 {
		t.Errorf("increasing trend: expected 65, got %d", got)
	}

	down := base
	down.Trend = model.TrendDecreasing
	if got := investmentScore(d(1000000), d(1000000), down); got != 40 {
		t.Errorf("decreasing trend: expected 40, got %d", got)
	}
}

func TestInvestmentScore_ZeroEstimateSkipsPriceBand(t *testing.T) {
	got := investmentScore(d(1000000), decimal.Zero, NeutralSnapshot())
	if got != 50 {
		t.Errorf("expected base score 50 with zero estimate, got %d", got)
	}
}

func TestInvestmentScore_Clamped(t *testing.T) {
	worst := model.MarketSnapshot{
		Trend:         model.TrendDecreasing,
		LocationScore: 0,
	}
	// 50 - 15 - 10 - 10 = 15; verify no underflow with a terrible deal.
	if got := investmentScore(d(2000000), d(1000000), worst); got < 0 || got > 100 {
		t.Errorf("score %d outside [0, 100]", got)
	}

	best := model.MarketSnapshot{
		Trend:         model.TrendIncreasing,
		LocationScore: 100,
		Forecast:      model.AppreciationForecast{FiveYear: 40},
	}
	if got := investmentScore(d(800000), d(1000000), best); got > 100 {
		t.Errorf("score %d exceeds 100", got)
	}
}
