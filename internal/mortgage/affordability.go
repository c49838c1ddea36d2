package mortgage

import (
	"github.com/shopspring/decimal"

	"github.com/propfolio/listing-engine/internal/model"
)

// Affordability modeling constants. Tax and insurance are flat-rate proxies
// of the property price, not a real tax lookup; the 28% front-end rule is
// the conventional housing-expense ceiling.
const (
	frontEndRatioPct     = 28
	annualPropertyTaxPct = 0.01  // 1% of price per year
	annualInsurancePct   = 0.005 // 0.5% of price per year
)

var frontEndRatioFrac = decimal.NewFromFloat(0.28)

// Affordability derives income requirements from the total monthly payment
// (principal + interest + tax + insurance proxies):
//
//	required monthly income = payment / 0.28, annual = ×12
//	payment-to-price ratio  = payment·12 / price × 100
//
// A zero price yields a zero ratio rather than dividing.
func Affordability(totalMonthlyPayment, propertyPrice decimal.Decimal) model.AffordabilityMetrics {
	monthlyIncome := totalMonthlyPayment.Div(frontEndRatioFrac)

	ratio := 0.0
	if propertyPrice.IsPositive() {
		ratio, _ = totalMonthlyPayment.Mul(decimal.NewFromInt(12)).
			Div(propertyPrice).
			Mul(decimal.NewFromInt(100)).
			Round(2).
			Float64()
	}

	return model.AffordabilityMetrics{
		RequiredAnnualIncome:  monthlyIncome.Mul(decimal.NewFromInt(12)).Round(MoneyScale),
		RequiredMonthlyIncome: monthlyIncome.Round(MoneyScale),
		HousingExpenseRatio:   frontEndRatioPct,
		PaymentToPriceRatio:   ratio,
	}
}
