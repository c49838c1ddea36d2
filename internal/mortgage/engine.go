// Package mortgage implements the mortgage affordability and eligibility
// engine: fixed-rate amortization, income-requirement analysis, and a
// four-criterion borrower check.
//
// Every computation is a deterministic function of its inputs plus the
// RateProvider read. Degenerate input (non-positive loan amount, zero
// income) produces well-defined degenerate output; only out-of-domain
// input (negative price, non-positive term, credit score outside
// [300, 850]) is an error.
//
// All monetary values use shopspring/decimal — never float64 for money.
package mortgage

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/propfolio/listing-engine/internal/model"
)

var (
	// ErrInvalidCreditScore is returned for a credit score outside [300, 850].
	ErrInvalidCreditScore = errors.New("mortgage: credit score must be between 300 and 850")

	// ErrInvalidIncome is returned for a negative annual income.
	ErrInvalidIncome = errors.New("mortgage: income must not be negative")
)

// Credit scores follow the FICO range.
const (
	creditScoreFloor = 300
	creditScoreCeil  = 850
)

// schedulePeriods is how many leading amortization entries a result carries.
const schedulePeriods = 12

var twelve = decimal.NewFromInt(12)

// Engine orchestrates rate lookup, amortization, affordability, and
// eligibility. Stateless and safe for concurrent use.
type Engine struct {
	rates RateProvider
}

// NewEngine creates a mortgage engine backed by the given rate provider.
func NewEngine(rates RateProvider) *Engine {
	return &Engine{rates: rates}
}

// Calculate produces the full mortgage breakdown for the given terms.
// A nil RatePct resolves through the RateProvider; empty country/loan type
// fall back to the conventional 30-year defaults.
func (e *Engine) Calculate(ctx context.Context, terms model.LoanTerms) (model.MortgageResult, error) {
	if terms.PropertyPrice.IsNegative() {
		return model.MortgageResult{}, ErrInvalidPrice
	}
	if terms.TermYears <= 0 {
		return model.MortgageResult{}, ErrInvalidTerm
	}

	ratePct, err := e.resolveRate(ctx, terms)
	if err != nil {
		return model.MortgageResult{}, err
	}

	loan := terms.PropertyPrice.Sub(terms.DownPayment)

	payment, err := MonthlyPayment(loan, ratePct, terms.TermYears)
	if err != nil {
		return model.MortgageResult{}, err
	}

	n := int64(terms.TermYears * 12)
	totalPayment := payment.Mul(decimal.NewFromInt(n))
	totalInterest := totalPayment.Sub(loan)

	monthlyTax := terms.PropertyPrice.Mul(decimal.NewFromFloat(annualPropertyTaxPct)).Div(twelve)
	monthlyInsurance := terms.PropertyPrice.Mul(decimal.NewFromFloat(annualInsurancePct)).Div(twelve)
	totalMonthly := payment.Add(monthlyTax).Add(monthlyInsurance)

	downPct := 0.0
	if terms.PropertyPrice.IsPositive() {
		downPct, _ = terms.DownPayment.Div(terms.PropertyPrice).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	}

	return model.MortgageResult{
		LoanAmount:          loan.Round(MoneyScale),
		DownPayment:         terms.DownPayment.Round(MoneyScale),
		DownPaymentPct:      downPct,
		InterestRate:        ratePct,
		TermYears:           terms.TermYears,
		MonthlyPayment:      payment.Round(MoneyScale),
		MonthlyPropertyTax:  monthlyTax.Round(MoneyScale),
		MonthlyInsurance:    monthlyInsurance.Round(MoneyScale),
		TotalMonthlyPayment: totalMonthly.Round(MoneyScale),
		TotalPayment:        totalPayment.Round(MoneyScale),
		TotalInterest:       totalInterest.Round(MoneyScale),
		Schedule:            Schedule(loan, payment, ratePct, terms.TermYears, schedulePeriods),
		Affordability:       Affordability(totalMonthly, terms.PropertyPrice),
		CalculatedAt:        time.Now().UTC(),
	}, nil
}

// CheckEligibility evaluates a borrower against the four criteria. The
// mortgage payment is estimated at a fixed 30-year term with table rates,
// independent of any term the borrower might request elsewhere.
func (e *Engine) CheckEligibility(ctx context.Context, propertyPrice, annualIncome, monthlyDebts, downPayment decimal.Decimal, creditScore int) (model.EligibilityResult, error) {
	if propertyPrice.IsNegative() {
		return model.EligibilityResult{}, ErrInvalidPrice
	}
	if annualIncome.IsNegative() {
		return model.EligibilityResult{}, ErrInvalidIncome
	}
	if creditScore < creditScoreFloor || creditScore > creditScoreCeil {
		return model.EligibilityResult{}, ErrInvalidCreditScore
	}

	calc, err := e.Calculate(ctx, model.LoanTerms{
		PropertyPrice: propertyPrice,
		DownPayment:   downPayment,
		TermYears:     eligibilityTermYears,
	})
	if err != nil {
		return model.EligibilityResult{}, err
	}

	monthlyIncome := annualIncome.Div(twelve)
	monthlyMortgage := calc.TotalMonthlyPayment

	criteria := evaluateCriteria(monthlyMortgage, monthlyIncome, monthlyDebts, downPayment, propertyPrice, creditScore)

	eligible := true
	for _, c := range criteria {
		if !c.Passed {
			eligible = false
			break
		}
	}

	// Coarse upper bound on purchasable price, not derived from the
	// annuity formula: 28% of income over 30 years, deflated by 5%.
	maxAffordable := monthlyIncome.
		Mul(frontEndRatioFrac).
		Mul(twelve).
		Mul(decimal.NewFromInt(30)).
		Div(decimal.NewFromFloat(1.05)).
		Round(MoneyScale)

	return model.EligibilityResult{
		Eligible:                eligible,
		Criteria:                criteria,
		EstimatedMonthlyPayment: monthlyMortgage,
		MaxAffordablePrice:      maxAffordable,
		Recommendations:         eligibilityRecommendations(criteria, eligible),
	}, nil
}

// resolveRate returns the explicit rate when provided, otherwise the table
// rate for the (country, loan type) pair with conventional 30-year defaults.
func (e *Engine) resolveRate(ctx context.Context, terms model.LoanTerms) (float64, error) {
	if terms.RatePct != nil {
		if *terms.RatePct < 0 {
			return 0, ErrInvalidRate
		}
		return *terms.RatePct, nil
	}

	country := terms.Country
	if country == "" {
		country = DefaultCountry
	}
	loanType := terms.LoanType
	if loanType == "" {
		loanType = LoanConventional30
	}
	return e.rates.Rate(ctx, country, loanType), nil
}
