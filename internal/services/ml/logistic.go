package ml

import "math"

// LogisticRegression is a linear probabilistic binary classifier fit with
// full-batch gradient descent. Zero-initialized weights and a fixed schedule
// keep fits deterministic for identical input.
type LogisticRegression struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`

	LearningRate float64 `json:"learning_rate"`
	MaxIter      int     `json:"max_iter"`
}

const gradTolerance = 1e-9

// NewLogisticRegression returns a classifier with the default training
// schedule (lr 0.1, up to 2000 iterations).
func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{LearningRate: 0.1, MaxIter: 2000}
}

// Fit trains on standardized features X with binary labels y.
func (m *LogisticRegression) Fit(X [][]float64, y []int) {
	if len(X) == 0 {
		return
	}
	cols := len(X[0])
	m.Weights = make([]float64, cols)
	m.Bias = 0

	n := float64(len(X))
	grad := make([]float64, cols)
	for iter := 0; iter < m.MaxIter; iter++ {
		for j := range grad {
			grad[j] = 0
		}
		gradBias := 0.0
		for i, row := range X {
			err := sigmoid(m.decision(row)) - float64(y[i])
			for j, v := range row {
				grad[j] += err * v
			}
			gradBias += err
		}

		gradBias /= n
		norm := gradBias * gradBias
		for j := range grad {
			grad[j] /= n
			norm += grad[j] * grad[j]
		}
		if math.Sqrt(norm) < gradTolerance {
			break
		}

		for j := range m.Weights {
			m.Weights[j] -= m.LearningRate * grad[j]
		}
		m.Bias -= m.LearningRate * gradBias
	}
}

// PredictProba returns the probability of the positive ("up") class.
func (m *LogisticRegression) PredictProba(x []float64) float64 {
	return sigmoid(m.decision(x))
}

// Predict binarizes at the fixed 0.5 threshold.
func (m *LogisticRegression) Predict(x []float64) int {
	if m.PredictProba(x) >= 0.5 {
		return 1
	}
	return 0
}

func (m *LogisticRegression) decision(x []float64) float64 {
	z := m.Bias
	for j, v := range x {
		z += m.Weights[j] * v
	}
	return z
}

func sigmoid(z float64) float64 {
	// Split on sign to stay numerically stable for large |z|.
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
