package application

import (
	"context"
	"errors"
	"time"

	"fxconverter/internal/domain"
)

var errStore = errors.New("store error")

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

type fakeFetcher struct {
	out   domain.RatesPayload
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(context.Context) (domain.RatesPayload, error) {
	f.calls++
	if f.err != nil {
		return domain.RatesPayload{}, f.err
	}
	return f.out, nil
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, error) { return "", errStore }
func (failingStore) Set(context.Context, string, string) error   { return errStore }

type recordingMetrics struct {
	lookups  []string
	failures []string
}

func (m *recordingMetrics) Lookup(o string)       { m.lookups = append(m.lookups, o) }
func (m *recordingMetrics) FetchFailure(r string) { m.failures = append(m.failures, r) }

func samplePayload() domain.RatesPayload {
	return domain.RatesPayload{
		Result:             domain.ResultSuccess,
		BaseCode:           "USD",
		TimeLastUpdateUnix: 1731240000,
		ConversionRates: map[string]float64{
			"USD": 1,
			"CNY": 7.1,
			"EUR": 0.92,
			"JPY": 150,
			"KRW": 1380,
		},
	}
}

func sampleTable() domain.RateTable { return samplePayload().Table() }

func t0() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) }
