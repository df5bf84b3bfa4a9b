package bootstrap

import (
	"context"

	"fxconverter/internal/application"
	"fxconverter/internal/catalog"
	"fxconverter/internal/config"
	"fxconverter/internal/infrastructure/eventloop"
	"fxconverter/internal/infrastructure/metrics"

	"go.uber.org/zap"
)

// App is everything a display surface needs.
type App struct {
	Config  config.Config
	Log     *zap.Logger
	Session *application.Session
	Loop    *eventloop.Loop
	Catalog *catalog.Catalog
	Metrics *metrics.Metrics
}

// Start loads the rate table and then hands the session to the event loop.
// A failed load is reported in the returned status; the loop still runs so
// surfaces can show it.
func (a *App) Start(ctx context.Context) application.Status {
	st, err := a.Session.Initialize(ctx)
	if err != nil {
		a.Log.Warn("app.init_failed", zap.Error(err), zap.String("message", st.Message))
	} else {
		a.Log.Info("app.ready", zap.String("message", st.Message))
	}
	go a.Loop.Start(ctx)
	return st
}
