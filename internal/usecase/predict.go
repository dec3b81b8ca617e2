package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"TrendCast/internal/domain/models"
	domrepo "TrendCast/internal/domain/repository"
	"TrendCast/internal/services/features"
	"TrendCast/internal/services/ml"
	applogger "TrendCast/pkg/logger"
)

// probPrecision fixes the rounding of reported probabilities.
const probPrecision = 1e6

// PredictionService orchestrates read-only inference: fetch bars, share the
// training feature builder, pick the most recent row, guard the train/serve
// schema contract and predict.
type PredictionService struct {
	source    domrepo.BarSource
	store     domrepo.ArtifactStore
	explainer domrepo.Explainer
	metrics   domrepo.Metrics
	l         *applogger.Logger
}

func NewPredictionService(
	source domrepo.BarSource,
	store domrepo.ArtifactStore,
	explainer domrepo.Explainer,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) *PredictionService {
	return &PredictionService{source: source, store: store, explainer: explainer, metrics: metrics, l: l}
}

type PredictParams struct {
	Symbol string
	From   time.Time
	To     time.Time

	// ArtifactRef pins an exact artifact ("SYMBOL_version"); empty means
	// latest for the symbol.
	ArtifactRef string
}

func (s *PredictionService) Predict(ctx context.Context, p PredictParams) (*models.PredictionResult, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	symbol := strings.ToUpper(p.Symbol)
	start := time.Now()

	bars, err := s.source.FetchDaily(ctx, symbol, p.From, p.To)
	if err != nil {
		s.recordError(models.CodeDataFetch)
		return nil, err
	}

	rows := features.Build(bars, features.Inference)
	if len(rows) < 1 {
		s.recordError(models.CodeInsufficientData)
		return nil, models.NewInsufficientDataError(symbol, len(rows), 1)
	}
	latest := rows[len(rows)-1]

	artifact, err := s.loadArtifact(ctx, symbol, p.ArtifactRef)
	if err != nil {
		return nil, err
	}

	vec, missing := latest.Vector(artifact.Meta.Schema)
	if len(missing) > 0 {
		s.recordError(models.CodeSchemaMismatch)
		return nil, models.NewSchemaMismatchError(symbol, missing)
	}

	pipe, err := ml.DecodePipeline(artifact.Model)
	if err != nil {
		s.recordError(models.CodeArtifactCorrupt)
		return nil, models.NewArtifactCorruptError(artifact.Symbol+"_"+artifact.Version, "model blob not decodable", err)
	}

	prob := math.Round(pipe.ProbUp(vec)*probPrecision) / probPrecision
	predicted := 0
	if prob >= 0.5 {
		predicted = 1
	}

	result := &models.PredictionResult{
		Symbol:    symbol,
		Version:   artifact.Version,
		AsOf:      latest.Day.Format(models.DayFormat),
		ProbUp:    prob,
		Predicted: predicted,
	}

	if s.metrics != nil {
		s.metrics.RecordPrediction(symbol, predicted)
		s.metrics.RecordLastProb(symbol, prob)
		s.metrics.RecordLatency("predict", time.Since(start).Seconds())
	}
	if s.l != nil {
		s.l.Info("prediction",
			applogger.String("symbol", symbol),
			applogger.String("version", artifact.Version),
			applogger.String("as_of", result.AsOf),
			applogger.Any("prob_up", prob),
			applogger.Int("predicted", predicted),
		)
	}
	return result, nil
}

// Explain renders a human-readable summary of a prediction through the
// configured explanation collaborator.
func (s *PredictionService) Explain(ctx context.Context, res *models.PredictionResult, meta models.ArtifactMeta) (string, error) {
	if s.explainer == nil {
		return "", fmt.Errorf("no explainer configured")
	}
	return s.explainer.GenerateExplanation(ctx, models.ExplanationFacts{
		Symbol:       res.Symbol,
		Version:      res.Version,
		AsOf:         res.AsOf,
		ProbUp:       res.ProbUp,
		Predicted:    res.Predicted,
		AccuracyMean: meta.CV.AccuracyMean,
		AccuracyStd:  meta.CV.AccuracyStd,
	})
}

// Artifact resolves the artifact a prediction would use, for callers that
// need its metadata.
func (s *PredictionService) Artifact(ctx context.Context, symbol, ref string) (*models.ModelArtifact, error) {
	return s.loadArtifact(ctx, strings.ToUpper(symbol), ref)
}

func (s *PredictionService) loadArtifact(ctx context.Context, symbol, ref string) (*models.ModelArtifact, error) {
	var (
		artifact *models.ModelArtifact
		err      error
	)
	if ref != "" {
		artifact, err = s.store.Load(ctx, ref)
	} else {
		artifact, err = s.store.Latest(ctx, symbol)
	}
	if err != nil {
		s.recordArtifactError(err)
		return nil, err
	}
	return artifact, nil
}

func (s *PredictionService) recordArtifactError(err error) {
	if s.metrics == nil {
		return
	}
	var derr *models.Error
	if errors.As(err, &derr) {
		s.metrics.RecordError(derr.Code)
		return
	}
	s.metrics.RecordError("ERR_ARTIFACT_LOAD")
}

func (s *PredictionService) recordError(kind string) {
	if s.metrics != nil {
		s.metrics.RecordError(kind)
	}
}
