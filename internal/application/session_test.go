package application

import (
	"context"
	"fmt"
	"testing"
	"time"
	_ "time/tzdata"

	"fxconverter/internal/domain"

	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T, f RateFetcher) *Session {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)
	clk := &fakeClock{t: t0()}
	p := NewRateProvider(NewRateCache(NewMemoryStore(), WithCacheClock(clk)), f, WithClock(clk))
	return NewSession(SessionConfig{
		BaseCurrency:      "USD",
		DefaultCurrencies: []string{"CNY", "JPY", "USD", "EUR", "KRW"},
		Location:          loc,
	}, p, nil, nil)
}

func TestSession_InitializeReady(t *testing.T) {
	t.Parallel()
	s := newSession(t, &fakeFetcher{out: samplePayload()})

	st, err := s.Initialize(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateReady, st.State)
	require.NotNil(t, st.UpdatedAt)
	// 1731240000 is 2024-11-10 12:00:00 UTC
	require.Equal(t, "Last updated: 2024-11-10 20:00:00 (Asia/Shanghai)", st.Message)

	snap := s.Snapshot()
	require.Len(t, snap.Rows, 5)
	require.Equal(t, "USD", snap.Rows[2].Code)
	require.Equal(t, "1.0000", snap.Rows[2].Text)
	require.Equal(t, "7.1000", snap.Rows[0].Text)
	require.Equal(t, "150.0000", snap.Rows[1].Text)
	require.NotNil(t, snap.Rows[0].Meta)
}

func TestSession_InitializeFailed(t *testing.T) {
	t.Parallel()
	s := newSession(t, &fakeFetcher{err: fmt.Errorf("offline: %w", domain.ErrNetworkFailure)})

	st, err := s.Initialize(context.Background())
	require.ErrorIs(t, err, domain.ErrNotReady)
	require.Equal(t, StateFailed, st.State)
	require.Equal(t, LoadFailedMessage, st.Message)
	require.False(t, s.Ready())
	require.Empty(t, s.Snapshot().Rows)

	_, err = s.OnRowChanged(Change{Row: 0, Kind: AmountChanged, Value: "1"})
	require.ErrorIs(t, err, domain.ErrNotReady)
	_, err = s.Reset(0)
	require.ErrorIs(t, err, domain.ErrNotReady)
	_, err = s.AddRow("EUR")
	require.ErrorIs(t, err, domain.ErrNotReady)
	_, err = s.RecomputeFrom(0)
	require.ErrorIs(t, err, domain.ErrNotReady)
}

func TestSession_EventsAfterReady(t *testing.T) {
	t.Parallel()
	s := newSession(t, &fakeFetcher{out: samplePayload()})
	_, err := s.Initialize(context.Background())
	require.NoError(t, err)

	r, err := s.OnRowChanged(Change{Row: 3, Kind: AmountChanged, Value: "92"})
	require.NoError(t, err)
	require.Len(t, r.Rows, 4)

	snap := s.Snapshot()
	require.Equal(t, "100.0000", snap.Rows[2].Text)
	require.Equal(t, "710.0000", snap.Rows[0].Text)
	require.Len(t, s.Options(), 15)
}

func TestSession_DropsInvalidDefaultCurrencies(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{t: t0()}
	p := NewRateProvider(NewRateCache(NewMemoryStore(), WithCacheClock(clk)), &fakeFetcher{out: samplePayload()}, WithClock(clk))
	s := NewSession(SessionConfig{
		BaseCurrency:      "USD",
		DefaultCurrencies: []string{"cny", "US", "usd", "XYZ1", "eur"},
	}, p, nil, nil)

	_, err := s.Initialize(context.Background())
	require.NoError(t, err)

	snap := s.Snapshot()
	codes := make([]string, 0, len(snap.Rows))
	for _, r := range snap.Rows {
		codes = append(codes, r.Code)
	}
	require.Equal(t, []string{"CNY", "USD", "EUR"}, codes)
	require.Equal(t, "1.0000", snap.Rows[1].Text, "base row is found after normalizing")
}
