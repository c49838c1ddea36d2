package mortgage

import "context"

// Supported loan products.
const (
	LoanConventional30 = "conventional_30y"
	LoanConventional15 = "conventional_15y"
	LoanFHA            = "fha"
	LoanVA             = "va"
)

// DefaultCountry is the rate-table fallback for unrecognized countries.
const DefaultCountry = "UAE"

// DefaultRatePct is the conventional 30-year fallback used when neither the
// country nor the loan type resolves in the table.
const DefaultRatePct = 4.5

// RateProvider supplies an annual interest rate (in percent) for a country
// and loan product. Implementations must fall back to a default for
// unrecognized pairs rather than failing.
type RateProvider interface {
	Rate(ctx context.Context, country, loanType string) float64
}

// TableRateProvider is the built-in RateProvider: a fixed table of posted
// bank rates per country and product. It performs no I/O.
type TableRateProvider struct {
	rates map[string]map[string]float64
}

// NewTableRateProvider creates the provider with the default rate table.
func NewTableRateProvider() *TableRateProvider {
	return &TableRateProvider{
		rates: map[string]map[string]float64{
			"UAE": {
				LoanConventional30: 4.5,
				LoanConventional15: 3.8,
				LoanFHA:            4.2,
				LoanVA:             4.0,
			},
			"Saudi Arabia": {
				LoanConventional30: 5.2,
				LoanConventional15: 4.5,
			},
			"Qatar": {
				LoanConventional30: 4.8,
				LoanConventional15: 4.1,
			},
		},
	}
}

// Rate resolves country then loan type, falling back to the default country
// table and finally to DefaultRatePct. Never fails.
func (p *TableRateProvider) Rate(_ context.Context, country, loanType string) float64 {
	table, ok := p.rates[country]
	if !ok {
		table = p.rates[DefaultCountry]
	}
	if rate, ok := table[loanType]; ok {
		return rate
	}
	return DefaultRatePct
}
