//go:build wireinject
// +build wireinject

package di

import (
	"drift/internal"
	"drift/internal/controllers"
	"drift/internal/persistence"
	"drift/internal/providers"
	"drift/internal/scheduler"
	"drift/internal/services"
	"drift/internal/simulation"
	"drift/internal/structures"

	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewEventHub,

		persistence.NewZstdCompressor,
		persistence.NewStoreProvider,
		persistence.NewAsyncWriter,
		simulation.NewStrangerNetwork,
		services.NewProgressionService,
		services.NewOnboardingService,
		scheduler.NewScheduler,
		controllers.NewApiController,
		controllers.NewOnboardingController,
		controllers.NewEventsController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewHandler,
		internal.NewApp,
	)

	return nil, nil
}
