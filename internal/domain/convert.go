package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// Precision is the number of fractional digits kept in displayed amounts.
const Precision = 4

// Round rounds v half away from zero to Precision fractional digits.
func Round(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(Precision)
}

// Pivot converts amount in code into the table's base unit. The result is not rounded.
func Pivot(amount float64, code string, t RateTable) (float64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrInvalidAmount
	}
	r, ok := t.Rate(code)
	if !ok {
		return 0, unknownCurrency(code)
	}
	return amount / r, nil
}

// FromPivot converts a base-unit value into code, rounded for display.
func FromPivot(pivot float64, code string, t RateTable) (decimal.Decimal, error) {
	if math.IsNaN(pivot) || math.IsInf(pivot, 0) {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	r, ok := t.Rate(code)
	if !ok {
		return decimal.Decimal{}, unknownCurrency(code)
	}
	return Round(pivot * r), nil
}

// Convert converts amount from one currency to another through the table's base unit.
// Converting a currency to itself returns amount unchanged.
func Convert(amount float64, from, to string, t RateTable) (float64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrInvalidAmount
	}
	if !t.Has(from) {
		return 0, unknownCurrency(from)
	}
	if !t.Has(to) {
		return 0, unknownCurrency(to)
	}
	if from == to {
		return amount, nil
	}
	pivot, err := Pivot(amount, from, t)
	if err != nil {
		return 0, err
	}
	out, err := FromPivot(pivot, to, t)
	if err != nil {
		return 0, err
	}
	return out.InexactFloat64(), nil
}
