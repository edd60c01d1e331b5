package util

import (
	"strings"
	"testing"

	"github.com/lendbook/lendbook-backend/internal/domain"
)

func TestGenerateCardNumber(t *testing.T) {
	tests := []struct {
		cardType string
		prefix   string
		length   int
	}{
		{domain.CardTypeVisa, "4", 16},
		{domain.CardTypeMasterCard, "5", 16},
		{domain.CardTypeAmEx, "34", 15},
		{domain.CardTypeJCB, "35", 16},
	}

	for _, tt := range tests {
		t.Run(tt.cardType, func(t *testing.T) {
			number, err := GenerateCardNumber(tt.cardType)
			if err != nil {
				t.Fatalf("GenerateCardNumber failed: %v", err)
			}
			if len(number) != tt.length {
				t.Errorf("Expected length %d, got %d (%s)", tt.length, len(number), number)
			}
			if !strings.HasPrefix(number, tt.prefix) {
				t.Errorf("Expected prefix %s, got %s", tt.prefix, number)
			}
			for _, c := range number {
				if c < '0' || c > '9' {
					t.Errorf("Non-digit character in card number %s", number)
					break
				}
			}
		})
	}
}

func TestGenerateCardNumber_UnknownType(t *testing.T) {
	if _, err := GenerateCardNumber("Diners"); err != domain.ErrDebitCardTypeInvalid {
		t.Errorf("Expected ErrDebitCardTypeInvalid, got %v", err)
	}
}

func TestGenerateCardNumber_Varies(t *testing.T) {
	a, err := GenerateCardNumber(domain.CardTypeVisa)
	if err != nil {
		t.Fatalf("GenerateCardNumber failed: %v", err)
	}
	b, err := GenerateCardNumber(domain.CardTypeVisa)
	if err != nil {
		t.Fatalf("GenerateCardNumber failed: %v", err)
	}
	if a == b {
		t.Errorf("Two generated card numbers are identical: %s", a)
	}
}
