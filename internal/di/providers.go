package di

import (
	"fmt"

	domrepo "TrendCast/internal/domain/repository"
	internalrepo "TrendCast/internal/repository"
	"TrendCast/internal/service/explain"
	"TrendCast/internal/service/platform"
	"TrendCast/internal/services/ml"
	"TrendCast/internal/usecase"
	"TrendCast/pkg/cache"
	pkgch "TrendCast/pkg/clickhouse"
	"TrendCast/pkg/config"
	"TrendCast/pkg/logger"
	"TrendCast/pkg/metrics"
)

// App bundles the wired use cases for the CLI entrypoints.
type App struct {
	Train   *usecase.TrainUseCase
	Predict *usecase.PredictionService
	Log     *logger.Logger
}

// ProvideLogger builds the structured logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideCache builds the bar cache, or nil when disabled.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	switch cfg.Cache.Backend {
	case "redis":
		c, err := cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
			cache.WithRedisAuth(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	default:
		return cache.NewMemoryCache(), nil
	}
}

// ProvideBarSource selects the configured bar source implementation.
func ProvideBarSource(cfg *config.Config, c cache.Service, l *logger.Logger) (domrepo.BarSource, error) {
	switch cfg.DataSource.Type {
	case "clickhouse":
		ch, err := pkgch.NewClient(
			pkgch.WithAddr(cfg.DataSource.ClickHouse.Host, cfg.DataSource.ClickHouse.Port),
			pkgch.WithDatabase(cfg.DataSource.ClickHouse.Database),
			pkgch.WithCredentials(cfg.DataSource.ClickHouse.User, cfg.DataSource.ClickHouse.Password),
			pkgch.WithTimeouts(cfg.DataSource.ClickHouse.DialTimeout, cfg.DataSource.ClickHouse.ReadTimeout),
		)
		if err != nil {
			return nil, fmt.Errorf("clickhouse client: %w", err)
		}
		src := internalrepo.NewCHBarSource(ch, cfg.DataSource.ClickHouse.Table)
		src.SetLogger(l)
		return src, nil
	default:
		opts := []platform.Option{platform.WithLogger(l)}
		if c != nil {
			opts = append(opts, platform.WithCache(c, cfg.Cache.TTL))
		}
		return platform.NewBarSource(cfg.DataSource.Platform.BaseURL, cfg.DataSource.Platform.Timeout, opts...), nil
	}
}

// ProvideArtifactStore builds the filesystem artifact store.
func ProvideArtifactStore(cfg *config.Config, l *logger.Logger) (domrepo.ArtifactStore, error) {
	return internalrepo.NewFSArtifactStore(cfg.Artifacts.Dir, l)
}

// ProvideTrainer builds the walk-forward trainer from config.
func ProvideTrainer(cfg *config.Config) *ml.WalkForwardTrainer {
	return &ml.WalkForwardTrainer{Folds: cfg.Training.Folds}
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideExplainer wires the deterministic offline explainer.
func ProvideExplainer() domrepo.Explainer {
	return explain.NewStaticExplainer()
}

// ProvideTrainUseCase assembles the training orchestrator.
func ProvideTrainUseCase(
	source domrepo.BarSource,
	store domrepo.ArtifactStore,
	trainer *ml.WalkForwardTrainer,
	m domrepo.Metrics,
	l *logger.Logger,
) *usecase.TrainUseCase {
	return usecase.NewTrainUseCase(source, store, trainer, m, l)
}

// ProvidePredictionService assembles the prediction orchestrator.
func ProvidePredictionService(
	source domrepo.BarSource,
	store domrepo.ArtifactStore,
	explainer domrepo.Explainer,
	m domrepo.Metrics,
	l *logger.Logger,
) *usecase.PredictionService {
	return usecase.NewPredictionService(source, store, explainer, m, l)
}

// ProvideApp bundles the use cases.
func ProvideApp(train *usecase.TrainUseCase, predict *usecase.PredictionService, l *logger.Logger) *App {
	return &App{Train: train, Predict: predict, Log: l}
}
