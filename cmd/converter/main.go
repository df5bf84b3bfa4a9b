package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"fxconverter/internal/bootstrap"
	"fxconverter/internal/infrastructure/logx"
	"fxconverter/internal/infrastructure/terminal"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	logger := logx.L()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := bootstrap.InitApp(ctx)
	if err != nil {
		logger.Fatal("bootstrap", zap.Error(err))
	}
	defer cleanup()

	app.Start(ctx)

	t := terminal.New(app.Loop, app.Catalog.Options(), os.Stdin, os.Stdout)
	if err := t.Run(ctx); err != nil {
		logger.Error("terminal", zap.Error(err))
	}
}
