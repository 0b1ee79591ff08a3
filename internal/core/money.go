// Package core holds the record entity, the query filter and the money and
// timestamp normalization rules shared by every layer.
package core

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Money is a currency amount in integer minor units (cents). Arithmetic and
// comparisons happen on cents; float64 appears only at the storage and
// serialization boundaries.
type Money struct {
	Cents int64
}

// MoneyFromFloat converts a plain numeric amount (as received over the wire
// or read back from the REAL column) to cents with half-up rounding.
func MoneyFromFloat(v float64) Money {
	return Money{Cents: int64(math.Round(v * 100))}
}

// Float64 returns the amount as a plain numeric value for serialization.
func (m Money) Float64() float64 {
	return float64(m.Cents) / 100.0
}

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place. Both dot (12.34) and comma (12,34)
// separators are accepted. A leading minus marks a negative amount.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, NewValidationError("amount", "empty amount")
	}
	s = strings.ReplaceAll(s, ",", ".")

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, NewValidationError("amount", "malformed decimal")
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, NewValidationError("amount", "malformed decimal")
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, NewValidationError("amount", "malformed decimal")
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, NewValidationError("amount", "malformed decimal")
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return 0, NewValidationError("amount", "amount out of range")
	}

	// First two fractional digits, half-up on the third.
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}

	cents := iv*100 + fracCents
	if negative {
		cents = -cents
	}
	return cents, nil
}
