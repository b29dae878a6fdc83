package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	QCCDecimals = 18 // QCC amounts travel in units of 10^-18 QCC
)

var ErrInvalidAmount = errors.New("invalid amount")

// ToBaseUnits converts a QCC decimal string to base units without float precision loss.
// The result is always plain decimal notation, never scientific.
// Example: ToBaseUnits("1.5") = "1500000000000000000"
func ToBaseUnits(amount string) (string, error) {
	d, err := parseAmount(amount)
	if err != nil {
		return "", err
	}
	return d.Shift(QCCDecimals).String(), nil
}

// FromBaseUnits converts base units back to a QCC decimal string for display.
// Example: FromBaseUnits("24981836000000000") = "0.024981836"
func FromBaseUnits(units string) (string, error) {
	d, err := parseAmount(units)
	if err != nil {
		return "", err
	}
	return d.Shift(-QCCDecimals).String(), nil
}

// FromBaseUnitsFixed is FromBaseUnits rounded to places decimals.
// Example: FromBaseUnitsFixed("1234567890000000000", 6) = "1.234568"
func FromBaseUnitsFixed(units string, places int32) (string, error) {
	d, err := parseAmount(units)
	if err != nil {
		return "", err
	}
	return d.Shift(-QCCDecimals).StringFixed(places), nil
}

// ValidatePositiveAmount checks that amount parses and is greater than zero.
func ValidatePositiveAmount(amount string) error {
	d, err := parseAmount(amount)
	if err != nil {
		return err
	}
	if !d.IsPositive() {
		return fmt.Errorf("%w: must be greater than zero", ErrInvalidAmount)
	}
	return nil
}

// CompareAmounts compares two QCC decimal string amounts without float precision loss.
// Returns: -1 if a < b, 0 if a == b, 1 if a > b, and error if parsing fails
func CompareAmounts(a, b string) (int, error) {
	aVal, err := parseAmount(a)
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount '%s': %w", a, err)
	}
	bVal, err := parseAmount(b)
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount '%s': %w", b, err)
	}
	return aVal.Cmp(bVal), nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	return d, nil
}
