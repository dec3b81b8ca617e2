package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"TrendCast/internal/domain/models"
	domrepo "TrendCast/internal/domain/repository"
	"TrendCast/internal/services/features"
	"TrendCast/internal/services/ml"
	applogger "TrendCast/pkg/logger"
)

// TrainUseCase runs one training invocation: fetch bars, engineer labeled
// features, walk-forward validate, refit, persist a new artifact version.
type TrainUseCase struct {
	source  domrepo.BarSource
	store   domrepo.ArtifactStore
	trainer *ml.WalkForwardTrainer
	metrics domrepo.Metrics
	l       *applogger.Logger
}

func NewTrainUseCase(
	source domrepo.BarSource,
	store domrepo.ArtifactStore,
	trainer *ml.WalkForwardTrainer,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) *TrainUseCase {
	return &TrainUseCase{source: source, store: store, trainer: trainer, metrics: metrics, l: l}
}

type TrainParams struct {
	Symbol string
	From   time.Time
	To     time.Time
}

// TrainSummary reports what one invocation produced.
type TrainSummary struct {
	Symbol  string
	Version string
	Bars    int
	Rows    int
	Schema  models.FeatureSchema
	CV      models.CVDiagnostics
}

func (uc *TrainUseCase) Train(ctx context.Context, p TrainParams) (*TrainSummary, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to")
	}
	symbol := strings.ToUpper(p.Symbol)
	start := time.Now()

	bars, err := uc.source.FetchDaily(ctx, symbol, p.From, p.To)
	if err != nil {
		uc.recordError(models.CodeDataFetch)
		return nil, err
	}

	rows := features.Build(bars, features.Training)
	if len(rows) < 1 {
		uc.recordError(models.CodeInsufficientData)
		return nil, models.NewInsufficientDataError(symbol, len(rows), 1)
	}
	schema := features.DefaultSchema()

	result, err := uc.trainer.Train(symbol, rows, schema)
	if err != nil {
		uc.recordError(models.CodeTrainingPrecondition)
		return nil, err
	}

	blob, err := result.Pipeline.Encode()
	if err != nil {
		return nil, err
	}
	version, err := uc.store.Save(ctx, models.ArtifactMeta{
		Symbol: symbol,
		From:   p.From.Format(models.DayFormat),
		To:     p.To.Format(models.DayFormat),
		Schema: schema,
		CV:     result.CV,
		Rows:   len(rows),
		Notes:  "predicts whether tomorrow's close exceeds today's from engineered OHLCV features, validated walk-forward",
	}, blob)
	if err != nil {
		return nil, fmt.Errorf("save artifact: %w", err)
	}

	if uc.metrics != nil {
		uc.metrics.RecordTrainingRun(symbol)
		uc.metrics.RecordLatency("train", time.Since(start).Seconds())
	}
	if uc.l != nil {
		uc.l.Info("training complete",
			applogger.String("symbol", symbol),
			applogger.String("version", version),
			applogger.Int("bars", len(bars)),
			applogger.Int("rows", len(rows)),
			applogger.Any("cv_accuracy_mean", result.CV.AccuracyMean),
			applogger.Any("cv_accuracy_std", result.CV.AccuracyStd),
		)
	}

	return &TrainSummary{
		Symbol:  symbol,
		Version: version,
		Bars:    len(bars),
		Rows:    len(rows),
		Schema:  schema,
		CV:      result.CV,
	}, nil
}

func (uc *TrainUseCase) recordError(kind string) {
	if uc.metrics != nil {
		uc.metrics.RecordError(kind)
	}
}
