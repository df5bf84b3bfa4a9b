//go:build wireinject

package bootstrap

import (
	"context"

	"fxconverter/internal/config"

	"github.com/google/wire"
)

var appSet = wire.NewSet(
	ProvideLogger,
	ProvideConfig,
	ProvideMetrics,
	ProvideKVStore,
	ProvideRateCache,
	ProvideFetcher,
	ProvideRateProvider,
	ProvideCatalog,
	ProvideSession,
	ProvideLoop,
	wire.Struct(new(App), "*"),
)

// InitApp builds the whole application graph from the environment.
func InitApp(ctx context.Context) (*App, func(), error) {
	wire.Build(appSet)
	return nil, nil, nil
}

// InitAppWithConfig is InitApp with an explicit configuration.
func InitAppWithConfig(ctx context.Context, cfg config.Config) (*App, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideKVStore,
		ProvideRateCache,
		ProvideFetcher,
		ProvideRateProvider,
		ProvideCatalog,
		ProvideSession,
		ProvideLoop,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
