package domain

import "time"

const ResultSuccess = "success"

// RatesPayload is the latest-rates document returned by the rate API and kept verbatim in the cache.
type RatesPayload struct {
	Result             string             `json:"result"`
	BaseCode           string             `json:"base_code,omitempty"`
	TimeLastUpdateUnix int64              `json:"time_last_update_unix"`
	ConversionRates    map[string]float64 `json:"conversion_rates"`
	ErrorType          string             `json:"error-type,omitempty"`
}

func (p RatesPayload) Table() RateTable {
	var updated time.Time
	if p.TimeLastUpdateUnix > 0 {
		updated = time.Unix(p.TimeLastUpdateUnix, 0).UTC()
	}
	return NewRateTable(p.BaseCode, p.ConversionRates, updated)
}
