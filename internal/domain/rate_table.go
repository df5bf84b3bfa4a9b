package domain

import (
	"math"
	"sort"
	"time"
)

// RateTable maps currency codes to rates relative to a single base currency.
// A table is never modified after construction.
type RateTable struct {
	base      string
	rates     map[string]float64
	updatedAt time.Time
}

// NewRateTable copies rates, dropping entries that are not positive finite numbers.
func NewRateTable(base string, rates map[string]float64, updatedAt time.Time) RateTable {
	cp := make(map[string]float64, len(rates))
	for code, r := range rates {
		if r > 0 && !math.IsInf(r, 0) && !math.IsNaN(r) {
			cp[code] = r
		}
	}
	return RateTable{base: base, rates: cp, updatedAt: updatedAt}
}

func (t RateTable) Base() string         { return t.base }
func (t RateTable) UpdatedAt() time.Time { return t.updatedAt }
func (t RateTable) Len() int             { return len(t.rates) }
func (t RateTable) IsZero() bool         { return len(t.rates) == 0 }

func (t RateTable) Rate(code string) (float64, bool) {
	r, ok := t.rates[code]
	return r, ok
}

func (t RateTable) Has(code string) bool {
	_, ok := t.rates[code]
	return ok
}

// Codes returns the table's currency codes in sorted order.
func (t RateTable) Codes() []string {
	out := make([]string, 0, len(t.rates))
	for code := range t.rates {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
