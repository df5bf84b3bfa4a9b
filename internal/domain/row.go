package domain

import "github.com/shopspring/decimal"

// Row binds one currency to an optional amount. ID is the row's creation position.
type Row struct {
	ID     int
	Code   string
	Amount decimal.NullDecimal
}

func (r Row) HasAmount() bool { return r.Amount.Valid }

// Text renders the amount with Precision fractional digits, or "" when empty.
func (r Row) Text() string {
	if !r.Amount.Valid {
		return ""
	}
	return r.Amount.Decimal.StringFixed(Precision)
}

func Amount(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

var NoAmount = decimal.NullDecimal{}
