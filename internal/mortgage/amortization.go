package mortgage

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"

	"github.com/propfolio/listing-engine/internal/model"
)

var (
	// ErrInvalidTerm is returned for a non-positive loan term.
	ErrInvalidTerm = errors.New("mortgage: loan term must be positive")

	// ErrInvalidRate is returned for a negative interest rate.
	ErrInvalidRate = errors.New("mortgage: interest rate must not be negative")

	// ErrInvalidPrice is returned for a negative property price.
	ErrInvalidPrice = errors.New("mortgage: property price must not be negative")
)

// MoneyScale is the number of decimal places for monetary rounding.
const MoneyScale int32 = 2

// MonthlyPayment computes the fixed monthly payment for a loan via the
// standard annuity formula:
//
//	payment = L · r(1+r)^n / ((1+r)^n − 1),  r = annualRatePct/100/12, n = termYears·12
//
// The zero-rate case is handled explicitly as L/n — not as a limit of the
// formula — to avoid division by zero. The exponentiation runs in float64
// and is converted back to decimal immediately.
//
// The returned payment is full precision; rounding to MoneyScale happens at
// presentation. Feeding the unrounded payment into Schedule is what makes
// the final balance land at zero instead of drifting by accumulated
// rounding error.
//
// A non-positive loan amount produces a degenerate non-positive payment;
// only a non-positive term or negative rate is an error.
func MonthlyPayment(loan decimal.Decimal, annualRatePct float64, termYears int) (decimal.Decimal, error) {
	if termYears <= 0 {
		return decimal.Zero, ErrInvalidTerm
	}
	if annualRatePct < 0 {
		return decimal.Zero, ErrInvalidRate
	}

	n := termYears * 12
	if annualRatePct == 0 {
		return loan.Div(decimal.NewFromInt(int64(n))), nil
	}

	monthlyRate := annualRatePct / 100 / 12
	lf, _ := loan.Float64()
	growth := math.Pow(1+monthlyRate, float64(n))
	payment := lf * monthlyRate * growth / (growth - 1)

	return decimal.NewFromFloat(payment), nil
}

// Schedule generates the first min(periods, n) entries of the amortization
// schedule. Each period: interest = balance·r, principal = payment −
// interest, balance −= principal. The emitted balance is clamped at zero to
// suppress floating-point negative overshoot on the final period.
func Schedule(loan, payment decimal.Decimal, annualRatePct float64, termYears, periods int) []model.AmortizationEntry {
	n := termYears * 12
	if periods > n {
		periods = n
	}
	if periods <= 0 {
		return []model.AmortizationEntry{}
	}

	monthlyRate := decimal.NewFromFloat(annualRatePct / 100 / 12)
	balance := loan

	entries := make([]model.AmortizationEntry, 0, periods)
	for period := 1; period <= periods; period++ {
		interest := balance.Mul(monthlyRate)
		principal := payment.Sub(interest)
		balance = balance.Sub(principal)

		emitted := balance
		if emitted.IsNegative() {
			emitted = decimal.Zero
		}

		entries = append(entries, model.AmortizationEntry{
			Period:    period,
			Payment:   payment.Round(MoneyScale),
			Principal: principal.Round(MoneyScale),
			Interest:  interest.Round(MoneyScale),
			Balance:   emitted.Round(MoneyScale),
		})
	}
	return entries
}
