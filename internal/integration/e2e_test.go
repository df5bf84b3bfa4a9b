package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	_ "time/tzdata"

	"fxconverter/internal/application"
	"fxconverter/internal/bootstrap"
	"fxconverter/internal/config"
	httpserver "fxconverter/internal/infrastructure/http"

	"github.com/stretchr/testify/require"
)

const (
	requestContentType = "application/json"
	apiKey             = "e2e-key"
)

// rateAPI imitates exchangerate-api.com and counts the requests it serves.
type rateAPI struct {
	calls  atomic.Int32
	status atomic.Int32
}

func newRateAPI(t *testing.T) (*rateAPI, *httptest.Server) {
	t.Helper()
	api := &rateAPI{}
	api.status.Store(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.calls.Add(1)
		if r.URL.Path != "/v6/"+apiKey+"/latest/USD" {
			http.NotFound(w, r)
			return
		}
		code := int(api.status.Load())
		if code != http.StatusOK {
			w.WriteHeader(code)
			return
		}
		w.Header().Set("Content-Type", requestContentType)
		fmt.Fprint(w, `{"result":"success","base_code":"USD","time_last_update_unix":1731240000,
			"conversion_rates":{"USD":1,"CNY":7.1,"EUR":0.92,"JPY":150,"KRW":1380}}`)
	}))
	t.Cleanup(srv.Close)
	return api, srv
}

func appConfig(t *testing.T, apiURL, cacheFile string) config.Config {
	t.Helper()
	t.Setenv("DISPLAY_TIMEZONE", "Asia/Shanghai")
	cfg := config.Load()
	cfg.Provider = "exchangerateapi"
	cfg.ExchangeAPIBase = apiURL + "/v6"
	cfg.ExchangeAPIKey = apiKey
	cfg.BaseCurrency = "USD"
	cfg.DefaultCurrencies = []string{"CNY", "JPY", "USD", "EUR", "KRW"}
	cfg.CacheBackend = "file"
	cfg.CacheFile = cacheFile
	return cfg
}

func startAPI(t *testing.T, cfg config.Config) (*httptest.Server, application.Status) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	app, cleanup, err := bootstrap.InitAppWithConfig(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	st := app.Start(ctx)

	srv := httpserver.NewServer(app.Loop, app.Catalog.Options())
	srv.SetMetricsHandler(app.Metrics.Handler())
	ts := httptest.NewServer(httpserver.NewRouter(srv))
	t.Cleanup(ts.Close)
	return ts, st
}

func getSession(t *testing.T, base string) application.Snapshot {
	t.Helper()
	resp, err := http.Get(base + "/v1/session")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var snap application.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	return snap
}

func put(t *testing.T, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPut, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", requestContentType)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestE2E_ConvertAndCacheAcrossRestart(t *testing.T) {
	api, apiSrv := newRateAPI(t)
	cacheFile := filepath.Join(t.TempDir(), "cache.json")
	cfg := appConfig(t, apiSrv.URL, cacheFile)

	ts, st := startAPI(t, cfg)
	require.Equal(t, application.StateReady, st.State)
	require.Equal(t, "Last updated: 2024-11-10 20:00:00 (Asia/Shanghai)", st.Message)
	require.EqualValues(t, 1, api.calls.Load())

	snap := getSession(t, ts.URL)
	require.Equal(t, "1.0000", snap.Rows[2].Text)
	require.Equal(t, "7.1000", snap.Rows[0].Text)

	resp := put(t, ts.URL+"/v1/rows/2/amount", `{"value":"100"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var render application.Render
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&render))
	texts := map[string]string{}
	for _, u := range render.Rows {
		texts[u.Code] = u.Text
	}
	require.Equal(t, "710.0000", texts["CNY"])
	require.Equal(t, "92.0000", texts["EUR"])

	// a second process within the hour reads the cache file and never calls the API
	ts2, st2 := startAPI(t, cfg)
	require.Equal(t, application.StateReady, st2.State)
	require.EqualValues(t, 1, api.calls.Load())
	require.Equal(t, "7.1000", getSession(t, ts2.URL).Rows[0].Text)
}

func TestE2E_StaleFallbackAndFailure(t *testing.T) {
	api, apiSrv := newRateAPI(t)
	cacheFile := filepath.Join(t.TempDir(), "cache.json")
	cfg := appConfig(t, apiSrv.URL, cacheFile)
	cfg.CacheTTL = time.Nanosecond

	_, st := startAPI(t, cfg)
	require.Equal(t, application.StateReady, st.State)

	api.status.Store(http.StatusInternalServerError)
	ts, st := startAPI(t, cfg)
	require.Equal(t, application.StateReady, st.State, "expired entry is served when the API fails")
	require.EqualValues(t, 2, api.calls.Load())

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `fxconverter_rate_lookups_total{outcome="stale"} 1`)

	cfg.CacheFile = filepath.Join(t.TempDir(), "empty.json")
	ts, st = startAPI(t, cfg)
	require.Equal(t, application.StateFailed, st.State)
	require.Equal(t, application.LoadFailedMessage, st.Message)

	ready, err := http.Get(ts.URL + "/readyz")
	require.NoError(t, err)
	ready.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, ready.StatusCode)

	resp2 := put(t, ts.URL+"/v1/rows/0/amount", `{"value":"1"}`)
	require.Equal(t, http.StatusServiceUnavailable, resp2.StatusCode)
}
