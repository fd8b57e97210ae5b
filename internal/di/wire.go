//go:build wireinject
// +build wireinject

package di

import (
	"BitUp/pkg/config"
	"BitUp/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideMetrics,
		ProvideLogger,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideCache,

		// Repositories
		ProvideTickStore,
		ProvideTickPublisher,
		ProvideTickStream,

		// Use cases
		ProvideRateTable,
		ProvideTickProcessor,
		ProvideTickCollector,
		ProvideKafkaTicksHandler,
		ProvideCandlesUseCase,
		ProvideRiskUseCase,
		ProvideStakeUseCase,

		// HTTP
		ProvideQuantHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
