package ml

import (
	"math"

	"TrendCast/internal/domain/models"
)

// DefaultFolds is the walk-forward fold count.
const DefaultFolds = 5

// TrainResult holds the deployed pipeline plus cross-validation diagnostics.
// The fold loop exists purely for diagnostics; the pipeline shipped in the
// artifact is the refit over the entire dataset.
type TrainResult struct {
	Pipeline *Pipeline
	CV       models.CVDiagnostics
}

// WalkForwardTrainer runs forward-chaining cross-validation over labeled
// feature rows, then refits the full pipeline on everything.
type WalkForwardTrainer struct {
	Folds int
}

// NewWalkForwardTrainer returns a trainer with the default fold count.
func NewWalkForwardTrainer() *WalkForwardTrainer {
	return &WalkForwardTrainer{Folds: DefaultFolds}
}

// Train validates and fits on rows against the ordered schema. Rows must
// carry labels; rows lacking any schema column or too few rows to form the
// folds are precondition failures, reported and never retried.
func (t *WalkForwardTrainer) Train(symbol string, rows []models.FeatureRow, schema models.FeatureSchema) (*TrainResult, error) {
	X := make([][]float64, 0, len(rows))
	y := make([]int, 0, len(rows))
	for _, row := range rows {
		vec, missing := row.Vector(schema)
		if len(missing) > 0 {
			return nil, models.NewSchemaMismatchError(symbol, missing)
		}
		if !row.HasLabel {
			return nil, models.NewTrainingPreconditionError(symbol, len(rows), t.Folds+1)
		}
		X = append(X, vec)
		y = append(y, row.Target)
	}

	folds, ok := TimeSeriesSplit(len(X), t.Folds)
	if !ok {
		return nil, models.NewTrainingPreconditionError(symbol, len(X), t.Folds+1)
	}

	accuracies := make([]float64, 0, len(folds))
	var lastFold models.FoldReport
	for i, fold := range folds {
		pipe := NewPipeline()
		pipe.Fit(X[:fold.TrainEnd], y[:fold.TrainEnd])

		testX := X[fold.TrainEnd:fold.TestEnd]
		testY := y[fold.TrainEnd:fold.TestEnd]
		preds := pipe.Predict(testX)

		acc := Accuracy(testY, preds)
		accuracies = append(accuracies, acc)
		lastFold = models.FoldReport{
			Fold:      i + 1,
			Accuracy:  acc,
			Classes:   ClassificationReport(testY, preds),
			Confusion: ConfusionMatrix(testY, preds),
		}
	}

	final := NewPipeline()
	final.Fit(X, y)

	mean, std := meanStd(accuracies)
	return &TrainResult{
		Pipeline: final,
		CV: models.CVDiagnostics{
			Folds:        len(folds),
			AccuracyMean: mean,
			AccuracyStd:  std,
			LastFold:     lastFold,
		},
	}, nil
}

// meanStd returns mean and population standard deviation.
func meanStd(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	n := float64(len(xs))
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= n
	ss := 0.0
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / n)
}
