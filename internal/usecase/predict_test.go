package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"TrendCast/internal/domain/models"
	domrepo "TrendCast/internal/domain/repository"
	"TrendCast/internal/repository"
	"TrendCast/internal/service/explain"
	"TrendCast/internal/services/ml"
	"TrendCast/pkg/logger"
)

type fakeBarSource struct {
	bars []models.Bar
	err  error
}

func (f *fakeBarSource) FetchDaily(_ context.Context, symbol string, _, _ time.Time) ([]models.Bar, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.bars) == 0 {
		return nil, models.NewDataFetchError(symbol, "no bars in range", nil)
	}
	return f.bars, nil
}

func syntheticBars(n int) []models.Bar {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, n)
	for i := 0; i < n; i++ {
		bars[i] = models.Bar{
			Day:    base.AddDate(0, 0, i),
			Close:  100 + 4*math.Sin(float64(i)*0.8) + 0.2*float64(i),
			Volume: 1e6 + 2e4*math.Cos(float64(i)*0.5),
		}
	}
	return bars
}

func newStore(t *testing.T) domrepo.ArtifactStore {
	t.Helper()
	store, err := repository.NewFSArtifactStore(t.TempDir(), logger.Nop())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func newServices(t *testing.T, bars []models.Bar) (*TrainUseCase, *PredictionService) {
	t.Helper()
	source := &fakeBarSource{bars: bars}
	store := newStore(t)
	train := NewTrainUseCase(source, store, ml.NewWalkForwardTrainer(), nil, logger.Nop())
	predict := NewPredictionService(source, store, explain.NewStaticExplainer(), nil, logger.Nop())
	return train, predict
}

func TestPredictNoArtifact(t *testing.T) {
	_, predict := newServices(t, syntheticBars(60))

	_, err := predict.Predict(context.Background(), PredictParams{
		Symbol: "AAPL",
		From:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, models.ErrArtifactNotFound) {
		t.Fatalf("expected artifact not found, got %v", err)
	}
}

func TestPredictInsufficientBars(t *testing.T) {
	_, predict := newServices(t, syntheticBars(5))

	_, err := predict.Predict(context.Background(), PredictParams{Symbol: "AAPL"})
	if !errors.Is(err, models.ErrInsufficientData) {
		t.Fatalf("expected insufficient data, got %v", err)
	}
}

func TestPredictEmptyBarRange(t *testing.T) {
	_, predict := newServices(t, nil)

	_, err := predict.Predict(context.Background(), PredictParams{Symbol: "AAPL"})
	if !errors.Is(err, models.ErrDataFetch) {
		t.Fatalf("expected data fetch error, got %v", err)
	}
}

func TestPredictSchemaMismatchNamesMissingColumns(t *testing.T) {
	ctx := context.Background()

	// Persist an artifact whose schema demands a column the shared feature
	// builder never produces.
	store := newStore(t)
	badSchema := models.FeatureSchema{"ret_1d", "ma_20"}
	pipe := ml.NewPipeline()
	pipe.Fit([][]float64{{0, 0}, {1, 1}, {2, 2}, {3, 3}}, []int{0, 0, 1, 1})
	blob, err := pipe.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := store.Save(ctx, models.ArtifactMeta{
		Symbol: "AAPL",
		Schema: badSchema,
	}, blob); err != nil {
		t.Fatalf("save: %v", err)
	}
	predict := NewPredictionService(&fakeBarSource{bars: syntheticBars(80)}, store, nil, nil, logger.Nop())

	_, err = predict.Predict(ctx, PredictParams{Symbol: "AAPL"})
	if !errors.Is(err, models.ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
	var derr *models.Error
	if !errors.As(err, &derr) || len(derr.Missing) != 1 || derr.Missing[0] != "ma_20" {
		t.Fatalf("expected missing column ma_20 named, got %v", err)
	}
}

func TestTrainThenPredict(t *testing.T) {
	train, predict := newServices(t, syntheticBars(90))
	ctx := context.Background()
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	summary, err := train.Train(ctx, TrainParams{Symbol: "aapl", From: from, To: to})
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if summary.Symbol != "AAPL" {
		t.Fatalf("symbol = %s, want AAPL", summary.Symbol)
	}
	if summary.Rows != 90-10-1 {
		t.Fatalf("rows = %d, want %d", summary.Rows, 90-10-1)
	}

	result, err := predict.Predict(ctx, PredictParams{Symbol: "AAPL", From: from, To: to})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if result.Version != summary.Version {
		t.Fatalf("used version %s, want %s", result.Version, summary.Version)
	}
	if result.ProbUp < 0 || result.ProbUp > 1 {
		t.Fatalf("prob out of range: %v", result.ProbUp)
	}
	if rounded := math.Round(result.ProbUp*1e6) / 1e6; rounded != result.ProbUp {
		t.Fatalf("prob not rounded to 6 decimals: %v", result.ProbUp)
	}
	if (result.Predicted == 1) != (result.ProbUp >= 0.5) {
		t.Fatalf("binarization inconsistent: prob %v predicted %d", result.ProbUp, result.Predicted)
	}
	wantAsOf := syntheticBars(90)[89].Day.Format(models.DayFormat)
	if result.AsOf != wantAsOf {
		t.Fatalf("as_of = %s, want %s", result.AsOf, wantAsOf)
	}
}

func TestPredictPinnedArtifact(t *testing.T) {
	train, predict := newServices(t, syntheticBars(90))
	ctx := context.Background()

	first, err := train.Train(ctx, TrainParams{
		Symbol: "AAPL",
		From:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("train first: %v", err)
	}
	second, err := train.Train(ctx, TrainParams{
		Symbol: "AAPL",
		From:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("train second: %v", err)
	}
	if second.Version <= first.Version {
		t.Fatalf("versions not increasing: %s then %s", first.Version, second.Version)
	}

	result, err := predict.Predict(ctx, PredictParams{
		Symbol:      "AAPL",
		ArtifactRef: "AAPL_" + first.Version,
	})
	if err != nil {
		t.Fatalf("predict pinned: %v", err)
	}
	if result.Version != first.Version {
		t.Fatalf("pinned version %s, got %s", first.Version, result.Version)
	}
}

func TestPredictExplainDeterministic(t *testing.T) {
	train, predict := newServices(t, syntheticBars(90))
	ctx := context.Background()

	if _, err := train.Train(ctx, TrainParams{
		Symbol: "AAPL",
		From:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("train: %v", err)
	}
	result, err := predict.Predict(ctx, PredictParams{Symbol: "AAPL"})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	artifact, err := predict.Artifact(ctx, "AAPL", "")
	if err != nil {
		t.Fatalf("artifact: %v", err)
	}

	a, err := predict.Explain(ctx, result, artifact.Meta)
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	b, err := predict.Explain(ctx, result, artifact.Meta)
	if err != nil {
		t.Fatalf("explain again: %v", err)
	}
	if a != b {
		t.Fatalf("explanations differ for identical facts")
	}
}
