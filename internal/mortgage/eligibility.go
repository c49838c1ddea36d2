package mortgage

import (
	"github.com/shopspring/decimal"

	"github.com/propfolio/listing-engine/internal/model"
)

// Eligibility criterion names and thresholds, in their fixed evaluation
// order: front-end, back-end, credit score, down-payment ratio.
const (
	CriterionFrontEnd    = "front_end_ratio"
	CriterionBackEnd     = "back_end_ratio"
	CriterionCreditScore = "credit_score"
	CriterionDownPayment = "down_payment_percent"

	frontEndThresholdPct  = 28.0
	backEndThresholdPct   = 36.0
	minCreditScore        = 620.0
	minDownPaymentPct     = 20.0
	eligibilityTermYears  = 30 // eligibility always checks a 30-year loan
)

// evaluateCriteria runs the four independent borrower checks. Ratios with a
// zero denominator evaluate to 0 and fail — a zero income or price is
// degenerate input, not an error.
func evaluateCriteria(monthlyMortgage, monthlyIncome, monthlyDebts, downPayment, propertyPrice decimal.Decimal, creditScore int) []model.EligibilityCriterion {
	frontEnd := 0.0
	backEnd := 0.0
	incomePositive := monthlyIncome.IsPositive()
	if incomePositive {
		frontEnd, _ = monthlyMortgage.Div(monthlyIncome).Mul(decimal.NewFromInt(100)).Round(2).Float64()
		backEnd, _ = monthlyMortgage.Add(monthlyDebts).Div(monthlyIncome).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	}

	downPct := 0.0
	pricePositive := propertyPrice.IsPositive()
	if pricePositive {
		downPct, _ = downPayment.Div(propertyPrice).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	}

	return []model.EligibilityCriterion{
		{
			Name:      CriterionFrontEnd,
			Value:     frontEnd,
			Threshold: frontEndThresholdPct,
			Passed:    incomePositive && frontEnd <= frontEndThresholdPct,
		},
		{
			Name:      CriterionBackEnd,
			Value:     backEnd,
			Threshold: backEndThresholdPct,
			Passed:    incomePositive && backEnd <= backEndThresholdPct,
		},
		{
			Name:      CriterionCreditScore,
			Value:     float64(creditScore),
			Threshold: minCreditScore,
			Passed:    float64(creditScore) >= minCreditScore,
		},
		{
			Name:      CriterionDownPayment,
			Value:     downPct,
			Threshold: minDownPaymentPct,
			Passed:    pricePositive && downPct >= minDownPaymentPct,
		},
	}
}

// eligibilityRecommendations builds the advice list: one opening line keyed
// on overall eligibility, then one line per failing criterion in the fixed
// criterion order.
func eligibilityRecommendations(criteria []model.EligibilityCriterion, eligible bool) []string {
	recs := make([]string, 0, len(criteria)+1)

	if eligible {
		recs = append(recs, "You qualify for a mortgage! Consider getting pre-approved.")
	} else {
		recs = append(recs, "You don't currently meet all mortgage requirements. Here's what to improve:")
	}

	for _, c := range criteria {
		if c.Passed {
			continue
		}
		switch c.Name {
		case CriterionFrontEnd:
			recs = append(recs, "Reduce housing expenses or increase income to meet the 28% front-end ratio")
		case CriterionBackEnd:
			recs = append(recs, "Pay down existing debts to improve your debt-to-income ratio")
		case CriterionCreditScore:
			recs = append(recs, "Improve your credit score to at least 620")
		case CriterionDownPayment:
			recs = append(recs, "Save for a larger down payment (at least 20%)")
		}
	}
	return recs
}
