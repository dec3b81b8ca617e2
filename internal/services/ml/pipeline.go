package ml

import (
	"encoding/json"
	"fmt"
)

// pipelineKind tags serialized blobs so a store full of artifacts stays
// self-describing.
const pipelineKind = "scaler+logreg"

// Pipeline chains the standard scaler and the logistic classifier. The same
// fitted pipeline serves every prediction for its artifact version.
type Pipeline struct {
	Kind   string              `json:"kind"`
	Scaler *StandardScaler     `json:"scaler"`
	Clf    *LogisticRegression `json:"clf"`
}

// NewPipeline returns an unfitted scaler+classifier pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{
		Kind:   pipelineKind,
		Scaler: &StandardScaler{},
		Clf:    NewLogisticRegression(),
	}
}

// Fit fits the scaler on X, then the classifier on the scaled features.
func (p *Pipeline) Fit(X [][]float64, y []int) {
	p.Scaler.Fit(X)
	p.Clf.Fit(p.Scaler.Transform(X), y)
}

// Predict returns binarized labels for each row of X.
func (p *Pipeline) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i, row := range X {
		out[i] = p.Clf.Predict(p.Scaler.TransformRow(row))
	}
	return out
}

// ProbUp returns the probability of the "up" class for one feature vector.
func (p *Pipeline) ProbUp(x []float64) float64 {
	return p.Clf.PredictProba(p.Scaler.TransformRow(x))
}

// Encode serializes the fitted pipeline as the artifact model blob.
func (p *Pipeline) Encode() ([]byte, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode pipeline: %w", err)
	}
	return b, nil
}

// DecodePipeline deserializes a model blob produced by Encode.
func DecodePipeline(blob []byte) (*Pipeline, error) {
	var p Pipeline
	if err := json.Unmarshal(blob, &p); err != nil {
		return nil, fmt.Errorf("decode pipeline: %w", err)
	}
	if p.Kind != pipelineKind {
		return nil, fmt.Errorf("decode pipeline: unsupported kind %q", p.Kind)
	}
	if p.Scaler == nil || p.Clf == nil {
		return nil, fmt.Errorf("decode pipeline: incomplete blob")
	}
	return &p, nil
}
