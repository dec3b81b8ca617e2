//go:build wireinject
// +build wireinject

package di

import (
	"TrendCast/pkg/config"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideExplainer,

		// Infrastructure
		ProvideCache,
		ProvideBarSource,
		ProvideArtifactStore,

		// Core services
		ProvideTrainer,

		// Use cases
		ProvideTrainUseCase,
		ProvidePredictionService,
		ProvideApp,
	)
	return nil, nil
}
