// Package model defines the core domain types shared across the listing engine.
// All monetary values use shopspring/decimal — never float64 for money.
// Scores, ratios, and percentages stay float64/int; they are not money.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PropertyType enumerates supported property categories.
type PropertyType string

const (
	TypeApartment  PropertyType = "apartment"
	TypeVilla      PropertyType = "villa"
	TypeTownhouse  PropertyType = "townhouse"
	TypePenthouse  PropertyType = "penthouse"
	TypeLand       PropertyType = "land"
	TypeCommercial PropertyType = "commercial"
)

// PropertyStatus enumerates the listing lifecycle.
type PropertyStatus string

const (
	StatusAvailable PropertyStatus = "available"
	StatusSold      PropertyStatus = "sold"
	StatusReserved  PropertyStatus = "reserved"
	StatusOffMarket PropertyStatus = "off_market"
)

// Property is a stored listing.
type Property struct {
	ID            string          `json:"id" db:"id"`
	Title         string          `json:"title" db:"title"`
	Description   string          `json:"description,omitempty" db:"description"`
	Type          PropertyType    `json:"property_type" db:"property_type"`
	Status        PropertyStatus  `json:"status" db:"status"`
	Country       string          `json:"country" db:"country"`
	City          string          `json:"city" db:"city"`
	Area          string          `json:"area,omitempty" db:"area"`
	Address       string          `json:"address,omitempty" db:"address"`
	Bedrooms      int             `json:"bedrooms" db:"bedrooms"`
	Bathrooms     int             `json:"bathrooms" db:"bathrooms"`
	AreaSqft      float64         `json:"area_sqft" db:"area_sqft"`
	Price         decimal.Decimal `json:"price" db:"price"`
	DeveloperName string          `json:"developer_name,omitempty" db:"developer_name"`
	Features      []string        `json:"features,omitempty"`
	Views         int             `json:"views" db:"views"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// Subject returns the valuation view of a stored listing.
func (p *Property) Subject() SubjectProperty {
	return SubjectProperty{
		Price:     p.Price,
		Bedrooms:  p.Bedrooms,
		Bathrooms: p.Bathrooms,
		AreaSqft:  p.AreaSqft,
		City:      p.City,
		Country:   p.Country,
		Type:      p.Type,
	}
}

// PropertyFilter holds search criteria for listings. Zero values mean
// "not filtered" for every field except Skip/Limit.
type PropertyFilter struct {
	Country   string          `json:"country,omitempty"`
	City      string          `json:"city,omitempty"`
	Type      PropertyType    `json:"property_type,omitempty"`
	MinPrice  decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice  decimal.Decimal `json:"max_price,omitempty"`
	Bedrooms  int             `json:"bedrooms,omitempty"`
	Bathrooms int             `json:"bathrooms,omitempty"`
	MinArea   float64         `json:"min_area,omitempty"`
	MaxArea   float64         `json:"max_area,omitempty"`
	Skip      int             `json:"skip,omitempty"`
	Limit     int             `json:"limit,omitempty"`
}

// SubjectProperty is the immutable input to a valuation. It carries no
// identity beyond the call.
type SubjectProperty struct {
	Price     decimal.Decimal `json:"price"`
	Bedrooms  int             `json:"bedrooms"`
	Bathrooms int             `json:"bathrooms"`
	AreaSqft  float64         `json:"area_sqft"`
	City      string          `json:"city"`
	Country   string          `json:"country"`
	Type      PropertyType    `json:"property_type"`
}

// ComparableProperty is a reference sale/listing used to value a subject.
// Produced fresh per valuation call; never persisted. Comparables with
// AreaSqft <= 0 are excluded from price-per-area aggregation but still
// counted everywhere else.
type ComparableProperty struct {
	Address       string          `json:"address"`
	Price         decimal.Decimal `json:"price"`
	Bedrooms      int             `json:"bedrooms"`
	Bathrooms     int             `json:"bathrooms"`
	AreaSqft      float64         `json:"area_sqft"`
	DaysOnMarket  int             `json:"days_on_market"`
	SaleDate      string          `json:"sale_date"`
	DistanceMiles float64         `json:"distance_miles"`
}

// ValueRange is the 10th/90th percentile bracket of comparable prices.
// Low <= High always; {0,0} when the comparables list is empty.
type ValueRange struct {
	Low  decimal.Decimal `json:"low"`
	High decimal.Decimal `json:"high"`
}

// MarketTrend is the direction of the local market.
type MarketTrend string

const (
	TrendIncreasing MarketTrend = "increasing"
	TrendStable     MarketTrend = "stable"
	TrendDecreasing MarketTrend = "decreasing"
)

// InventoryLevel is the supply side of the local market.
type InventoryLevel string

const (
	InventoryLow      InventoryLevel = "low"
	InventoryModerate InventoryLevel = "moderate"
	InventoryHigh     InventoryLevel = "high"
)

// MarketVelocity is how quickly listings move.
type MarketVelocity string

const (
	VelocityHot  MarketVelocity = "hot"
	VelocityWarm MarketVelocity = "warm"
	VelocityCold MarketVelocity = "cold"
)

// AppreciationForecast is the projected price appreciation in percent.
type AppreciationForecast struct {
	OneYear   float64 `json:"1_year"`
	ThreeYear float64 `json:"3_year"`
	FiveYear  float64 `json:"5_year"`
}

// MarketSnapshot is a per-call market trend read for one location.
// Stateless; never persisted. DemandScore and LocationScore are in [0,100].
type MarketSnapshot struct {
	Trend              MarketTrend          `json:"market_trend"`
	YoYPriceChange     float64              `json:"yoy_price_change"`
	MedianDaysOnMarket int                  `json:"median_days_on_market"`
	InventoryLevel     InventoryLevel       `json:"inventory_level"`
	DemandScore        int                  `json:"demand_score"`
	LocationScore      int                  `json:"location_score"`
	Velocity           MarketVelocity       `json:"market_velocity"`
	Forecast           AppreciationForecast `json:"appreciation_forecast"`
	NeighborhoodRating float64              `json:"neighborhood_rating"`
}

// Insights are the human-readable outputs of a valuation.
type Insights struct {
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Concerns        []string `json:"concerns"`
	Recommendations []string `json:"recommendations"`
}

// ValuationResult is the full output of the valuation engine. The caller
// owns it once returned; the engine holds no reference after return.
type ValuationResult struct {
	EstimatedValue  decimal.Decimal      `json:"estimated_value"`
	ValueRange      ValueRange           `json:"value_range"`
	ConfidenceScore float64              `json:"confidence_score"`
	PricePerSqft    decimal.Decimal      `json:"price_per_sqft"`
	Market          MarketSnapshot       `json:"market_analysis"`
	Comparables     []ComparableProperty `json:"comparable_properties"`
	Insights        Insights             `json:"insights"`
	IsGoodBuy       bool                 `json:"is_good_buy"`
	InvestmentScore int                  `json:"investment_score"`
	ValuedAt        time.Time            `json:"valuation_date"`
}

// ValuationRecord is a persisted valuation for a stored listing.
// Persistence is owned by the service layer, never by the engine.
type ValuationRecord struct {
	ID              string          `json:"id" db:"id"`
	PropertyID      string          `json:"property_id" db:"property_id"`
	EstimatedValue  decimal.Decimal `json:"estimated_value" db:"estimated_value"`
	ConfidenceScore float64         `json:"confidence_score" db:"confidence_score"`
	Method          string          `json:"valuation_method" db:"valuation_method"`
	Result          ValuationResult `json:"result"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// LoanTerms is the input to a mortgage calculation. Callers are expected
// to pass DownPayment < PropertyPrice; a non-positive loan amount produces
// a degenerate (non-positive) result rather than an error.
type LoanTerms struct {
	PropertyPrice decimal.Decimal `json:"property_price"`
	DownPayment   decimal.Decimal `json:"down_payment"`
	TermYears     int             `json:"loan_term_years"`
	RatePct       *float64        `json:"interest_rate,omitempty"` // nil → resolve via RateProvider
	Country       string          `json:"country"`
	LoanType      string          `json:"loan_type"`
}

// AmortizationEntry is one period of a loan schedule. Periods are 1-based;
// Balance is clamped to zero on the final entry.
type AmortizationEntry struct {
	Period    int             `json:"month"`
	Payment   decimal.Decimal `json:"payment"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Balance   decimal.Decimal `json:"balance"`
}

// AffordabilityMetrics derives income requirements from a monthly payment
// using the 28% front-end rule.
type AffordabilityMetrics struct {
	RequiredAnnualIncome  decimal.Decimal `json:"required_annual_income"`
	RequiredMonthlyIncome decimal.Decimal `json:"required_monthly_income"`
	HousingExpenseRatio   int             `json:"housing_expense_ratio"`
	PaymentToPriceRatio   float64         `json:"payment_to_price_ratio"`
}

// MortgageResult merges the amortization and affordability outputs.
// TotalMonthlyPayment folds in flat-rate property tax (1%/yr) and
// insurance (0.5%/yr) estimates — a modeling proxy, not a tax lookup.
type MortgageResult struct {
	LoanAmount          decimal.Decimal      `json:"loan_amount"`
	DownPayment         decimal.Decimal      `json:"down_payment"`
	DownPaymentPct      float64              `json:"down_payment_percentage"`
	InterestRate        float64              `json:"interest_rate"`
	TermYears           int                  `json:"loan_term_years"`
	MonthlyPayment      decimal.Decimal      `json:"monthly_payment"`
	MonthlyPropertyTax  decimal.Decimal      `json:"monthly_property_tax"`
	MonthlyInsurance    decimal.Decimal      `json:"monthly_insurance"`
	TotalMonthlyPayment decimal.Decimal      `json:"total_monthly_payment"`
	TotalPayment        decimal.Decimal      `json:"total_payment"`
	TotalInterest       decimal.Decimal      `json:"total_interest"`
	Schedule            []AmortizationEntry  `json:"amortization_schedule"`
	Affordability       AffordabilityMetrics `json:"affordability"`
	CalculatedAt        time.Time            `json:"calculation_date"`
}

// EligibilityCriterion is one pass/fail check of a borrower.
type EligibilityCriterion struct {
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
	Passed    bool    `json:"passed"`
}

// EligibilityResult is the outcome of a four-criterion borrower check.
// Eligible is the AND of all criteria; Criteria order is fixed:
// front-end, back-end, credit score, down-payment ratio.
type EligibilityResult struct {
	Eligible                bool                   `json:"eligible"`
	Criteria                []EligibilityCriterion `json:"criteria"`
	EstimatedMonthlyPayment decimal.Decimal        `json:"estimated_monthly_payment"`
	MaxAffordablePrice      decimal.Decimal        `json:"max_affordable_price"`
	Recommendations         []string               `json:"recommendations"`
}
