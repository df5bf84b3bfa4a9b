package provider

import (
	"context"
	"time"

	"fxconverter/internal/application"
	"fxconverter/internal/domain"
)

// Ensure Fixed implements application.RateFetcher.
var _ application.RateFetcher = (*Fixed)(nil)

// Fixed serves the same table on every call.
type Fixed struct {
	base  string
	rates map[string]float64
}

func NewFixed(base string, rates map[string]float64) *Fixed {
	return &Fixed{base: base, rates: rates}
}

// NewDemo returns a Fixed fetcher with a small USD-based table.
func NewDemo() *Fixed {
	return NewFixed("USD", map[string]float64{
		"USD": 1, "CNY": 7.1, "EUR": 0.92, "JPY": 149.5, "KRW": 1375.2,
		"HKD": 7.8, "GBP": 0.79, "AUD": 1.52, "CAD": 1.37, "SGD": 1.34,
		"CHF": 0.88, "NZD": 1.66, "TWD": 32.1, "MOP": 8.04, "THB": 35.9,
	})
}

func (f *Fixed) Fetch(context.Context) (domain.RatesPayload, error) {
	rates := make(map[string]float64, len(f.rates))
	for k, v := range f.rates {
		rates[k] = v
	}
	return domain.RatesPayload{
		Result:             domain.ResultSuccess,
		BaseCode:           f.base,
		TimeLastUpdateUnix: time.Now().UTC().Unix(),
		ConversionRates:    rates,
	}, nil
}
