package domain

import (
	"testing"
	"time"
)

func TestLoanValidate(t *testing.T) {
	base := Loan{
		Amount:       5000,
		CurrencyCode: CurrencyVND,
		Terms:        3,
	}

	tests := []struct {
		name     string
		mutate   func(*Loan)
		expected error
	}{
		{"valid", func(l *Loan) {}, nil},
		{"zero amount", func(l *Loan) { l.Amount = 0 }, ErrLoanAmountInvalid},
		{"negative amount", func(l *Loan) { l.Amount = -100 }, ErrLoanAmountInvalid},
		{"zero terms", func(l *Loan) { l.Terms = 0 }, ErrLoanTermsInvalid},
		{"unknown currency", func(l *Loan) { l.CurrencyCode = "USD" }, ErrCurrencyUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan := base
			tt.mutate(&loan)
			if err := loan.Validate(); err != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestScheduledRepaymentUnpaidRemainder(t *testing.T) {
	tests := []struct {
		name        string
		status      RepaymentStatus
		amount      int64
		outstanding int64
		expected    int64
	}{
		{"due installment owes full amount", RepaymentStatusDue, 1666, 1666, 1666},
		{"partial installment owes the rest", RepaymentStatusPartial, 1666, 1000, 666},
		{"repaid installment owes nothing", RepaymentStatusRepaid, 1666, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ScheduledRepayment{
				Amount:            tt.amount,
				OutstandingAmount: tt.outstanding,
				Status:            tt.status,
			}
			if got := s.UnpaidRemainder(); got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestDebitCardIsActive(t *testing.T) {
	card := DebitCard{Type: CardTypeVisa}
	if !card.IsActive() {
		t.Error("Expected card without disabled_at to be active")
	}

	now := time.Now()
	card.DisabledAt = &now
	if card.IsActive() {
		t.Error("Expected card with disabled_at to be inactive")
	}
}

func TestIsSupportedCurrency(t *testing.T) {
	if !IsSupportedCurrency(CurrencyVND) || !IsSupportedCurrency(CurrencySGD) {
		t.Error("Expected VND and SGD to be supported")
	}
	if IsSupportedCurrency("EUR") {
		t.Error("Expected EUR to be unsupported")
	}
}

func TestIsSupportedCardType(t *testing.T) {
	for _, ct := range []string{CardTypeVisa, CardTypeMasterCard, CardTypeAmEx, CardTypeJCB} {
		if !IsSupportedCardType(ct) {
			t.Errorf("Expected %s to be supported", ct)
		}
	}
	if IsSupportedCardType("Diners") {
		t.Error("Expected Diners to be unsupported")
	}
}
