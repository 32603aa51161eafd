// Package oddsmath converts prices between decimal and moneyline (American) form.
package oddsmath

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidOdds is returned for prices that cannot be converted.
var ErrInvalidOdds = errors.New("invalid odds")

// Format is the display format of a price.
type Format string

const (
	FormatDecimal   Format = "decimal"
	FormatMoneyline Format = "moneyline"
)

// ParseFormat parses a format name. "american" is accepted for moneyline.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "decimal":
		return FormatDecimal, nil
	case "moneyline", "american":
		return FormatMoneyline, nil
	default:
		return "", fmt.Errorf("unknown price format %q: must be 'decimal' or 'moneyline'", s)
	}
}

// Display returns the decimal price in this format.
func (f Format) Display(decimal float64) (float64, error) {
	if f == FormatMoneyline {
		return DecimalToMoneyline(decimal)
	}

	if !validDecimal(decimal) {
		return 0, fmt.Errorf("%w: decimal price %v", ErrInvalidOdds, decimal)
	}

	return decimal, nil
}

// DecimalToMoneyline converts decimal odds to moneyline odds, rounded to cents.
// Decimal 2.50 → +150
// Decimal 1.50 → -200
func DecimalToMoneyline(decimal float64) (float64, error) {
	if !validDecimal(decimal) || decimal == 1.0 {
		return 0, fmt.Errorf("%w: decimal price %v has no moneyline equivalent", ErrInvalidOdds, decimal)
	}

	if decimal >= 2.0 {
		return Round2((decimal - 1.0) * 100.0), nil
	}

	return Round2(-100.0 / (decimal - 1.0)), nil
}

// MoneylineToDecimal converts moneyline odds back to decimal odds.
// +150 → 2.50
// -200 → 1.50
func MoneylineToDecimal(moneyline float64) (float64, error) {
	if math.IsNaN(moneyline) || math.IsInf(moneyline, 0) || math.Abs(moneyline) < 100.0 {
		return 0, fmt.Errorf("%w: moneyline %v must be <= -100 or >= +100", ErrInvalidOdds, moneyline)
	}

	if moneyline > 0 {
		return moneyline/100.0 + 1.0, nil
	}

	return 100.0/-moneyline + 1.0, nil
}

// ImpliedProbability returns 1/decimal.
func ImpliedProbability(decimal float64) (float64, error) {
	if !validDecimal(decimal) {
		return 0, fmt.Errorf("%w: decimal price %v", ErrInvalidOdds, decimal)
	}

	return 1.0 / decimal, nil
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func validDecimal(decimal float64) bool {
	return !math.IsNaN(decimal) && !math.IsInf(decimal, 0) && decimal >= 1.0
}
