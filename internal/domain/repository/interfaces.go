package repository

import (
	"context"
	"time"

	"TrendCast/internal/domain/models"
)

// BarSource fetches daily bars for a symbol over an inclusive date range,
// ordered by day ascending. An empty result or a bar missing its close is a
// fetch-layer error, never a feature-engineering one.
type BarSource interface {
	FetchDaily(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error)
}

// ArtifactStore persists write-once (model, metadata) pairs keyed by symbol
// and a monotonically increasing version tag. Retention and cleanup are an
// external concern; nothing here deletes.
type ArtifactStore interface {
	// Save writes the model blob and metadata atomically as a pair and
	// returns the assigned version tag. Tags are unique and strictly
	// increasing per symbol so "latest" is defined by tag order alone.
	Save(ctx context.Context, meta models.ArtifactMeta, model []byte) (string, error)

	// Latest returns the artifact with the greatest version tag for the
	// symbol, or ErrArtifactNotFound.
	Latest(ctx context.Context, symbol string) (*models.ModelArtifact, error)

	// Load returns a specific artifact by version reference, or
	// ErrArtifactCorrupt when the model blob exists but its metadata is
	// missing or lacks a feature schema.
	Load(ctx context.Context, ref string) (*models.ModelArtifact, error)
}

// Explainer turns prediction facts into a human-readable explanation. The
// offline implementation is deterministic; an LLM-backed one can be swapped
// in without touching the pipeline.
type Explainer interface {
	GenerateExplanation(ctx context.Context, facts models.ExplanationFacts) (string, error)
}

// Metrics records pipeline observability signals.
type Metrics interface {
	RecordTrainingRun(symbol string)
	RecordPrediction(symbol string, predicted int)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordLastProb(symbol string, prob float64)
}
