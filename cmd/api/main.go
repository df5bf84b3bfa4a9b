package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"fxconverter/internal/bootstrap"
	infraconfig "fxconverter/internal/infrastructure/config"
	httpserver "fxconverter/internal/infrastructure/http"
	"fxconverter/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	logger := logx.L()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, cleanup, err := bootstrap.InitApp(ctx)
	if err != nil {
		logger.Fatal("bootstrap", zap.Error(err))
	}
	defer cleanup()

	// Session load blocks until rates are available or the fetch fails.
	app.Start(ctx)

	srv := httpserver.NewServer(app.Loop, app.Catalog.Options())
	srv.SetMetricsHandler(app.Metrics.Handler())

	port := app.Config.Port
	if port == "" {
		port = infraconfig.DefaultHTTPPort
	}
	addr := ":" + port
	server := &http.Server{
		Addr:    addr,
		Handler: httpserver.NewRouter(srv),
	}

	go func() {
		logger.Info("server started", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, shCancel := context.WithTimeout(context.Background(), infraconfig.DefaultShutdownTimeout)
	defer shCancel()
	_ = server.Shutdown(shutdownCtx)
	cancel()
	logger.Info("server stopped")
}
