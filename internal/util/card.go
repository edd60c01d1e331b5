package util

import (
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/lendbook/lendbook-backend/internal/domain"
)

// Issuing prefixes and pan lengths per card network
var cardNumberFormats = map[string]struct {
	prefix string
	length int
}{
	domain.CardTypeVisa:       {prefix: "4", length: 16},
	domain.CardTypeMasterCard: {prefix: "5", length: 16},
	domain.CardTypeAmEx:       {prefix: "34", length: 15},
	domain.CardTypeJCB:        {prefix: "35", length: 16},
}

// GenerateCardNumber generates a random card number for the given network
func GenerateCardNumber(cardType string) (string, error) {
	format, ok := cardNumberFormats[cardType]
	if !ok {
		return "", domain.ErrDebitCardTypeInvalid
	}

	digits := make([]byte, format.length-len(format.prefix))
	if _, err := rand.Read(digits); err != nil {
		return "", fmt.Errorf("failed to generate random digits: %w", err)
	}

	var builder strings.Builder
	builder.WriteString(format.prefix)
	for _, b := range digits {
		builder.WriteByte(b%10 + '0')
	}
	return builder.String(), nil
}
