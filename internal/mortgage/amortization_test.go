package mortgage

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

// d is a test helper for creating decimals from float64.
func d(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// --- MonthlyPayment tests ---

func TestMonthlyPayment_StandardLoan(t *testing.T) {
	// 2,280,000 at 4.5% over 30 years: 11,552.43/month by the annuity
	// formula.
	payment, err := MonthlyPayment(d(2280000), 4.5, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	diff := payment.Sub(d(11552.43)).Abs()
	if diff.GreaterThan(d(1)) {
		t.Errorf("expected payment near 11552.43, got %s", payment)
	}
}

func TestMonthlyPayment_ZeroRate(t *testing.T) {
	// Zero interest is straight division, not a formula limit.
	payment, err := MonthlyPayment(d(360000), 0, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !payment.Equal(d(1000)) {
		t.Errorf("expected exactly 1000/month at zero rate, got %s", payment)
	}
}

func TestMonthlyPayment_ZeroLoan(t *testing.T) {
	payment, err := MonthlyPayment(decimal.Zero, 4.5, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !payment.IsZero() {
		t.Errorf("expected zero payment for zero loan, got %s", payment)
	}
}

func TestMonthlyPayment_InvalidTerm(t *testing.T) {
	if _, err := MonthlyPayment(d(100000), 4.5, 0); !errors.Is(err, ErrInvalidTerm) {
		t.Errorf("expected ErrInvalidTerm for zero term, got %v", err)
	}
	if _, err := MonthlyPayment(d(100000), 4.5, -5); !errors.Is(err, ErrInvalidTerm) {
		t.Errorf("expected ErrInvalidTerm for negative term, got %v", err)
	}
}

func TestMonthlyPayment_NegativeRate(t *testing.T) {
	if _, err := MonthlyPayment(d(100000), -1, 30); !errors.Is(err, ErrInvalidRate) {
		t.Errorf("expected ErrInvalidRate, got %v", err)
	}
}

// --- Schedule tests ---

func TestSchedule_FirstPeriodSplit(t *testing.T) {
	loan := d(2280000)
	payment, _ := MonthlyPayment(loan, 4.5, 30)

	entries := Schedule(loan, payment, 4.5, 30, 1)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	// First-period interest is exactly loan x 0.375%.
	if !entries[0].Interest.Equal(d(8550)) {
		t.Errorf("expected first interest 8550.00, got %s", entries[0].Interest)
	}
	if entries[0].Period != 1 {
		t.Errorf("periods are 1-based, got %d", entries[0].Period)
	}
}

func TestSchedule_FullTermRetiresLoan(t *testing.T) {
	loan := d(2280000)
	payment, _ := MonthlyPayment(loan, 4.5, 30)

	entries := Schedule(loan, payment, 4.5, 30, 360)
	if len(entries) != 360 {
		t.Fatalf("expected 360 entries, got %d", len(entries))
	}

	final := entries[359].Balance
	if !final.IsZero() {
		t.Errorf("expected final balance 0.00, got %s", final)
	}

	// Principal across the full schedule repays the loan.
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Principal)
	}
	if total.Sub(loan).Abs().GreaterThan(d(2)) {
		t.Errorf("principal sum %s deviates from loan %s", total, loan)
	}
}

func TestSchedule_BalanceMonotonicallyDecreases(t *testing.T) {
	loan := d(500000)
	payment, _ := MonthlyPayment(loan, 5.0, 15)

	entries := Schedule(loan, payment, 5.0, 15, 180)
	prev := loan
	for _, e := range entries {
		if e.Balance.GreaterThan(prev) {
			t.Fatalf("balance increased at period %d: %s -> %s", e.Period, prev, e.Balance)
		}
		prev = e.Balance
	}
}

func TestSchedule_PeriodsCappedAtTerm(t *testing.T) {
	loan := d(120000)
	payment, _ := MonthlyPayment(loan, 4.0, 1)

	entries := Schedule(loan, payment, 4.0, 1, 24)
	if len(entries) != 12 {
		t.Errorf("expected schedule capped at 12 periods, got %d", len(entries))
	}
}

func TestSchedule_ZeroPeriods(t *testing.T) {
	entries := Schedule(d(100000), d(500), 4.5, 30, 0)
	if len(entries) != 0 {
		t.Errorf("expected empty schedule, got %d entries", len(entries))
	}
}

func TestSchedule_ZeroRate(t *testing.T) {
	loan := d(360000)
	payment, _ := MonthlyPayment(loan, 0, 30)

	entries := Schedule(loan, payment, 0, 30, 360)
	if !entries[0].Interest.IsZero() {
		t.Errorf("expected zero interest at zero rate, got %s", entries[0].Interest)
	}
	if !entries[359].Balance.IsZero() {
		t.Errorf("expected final balance 0.00, got %s", entries[359].Balance)
	}
}
