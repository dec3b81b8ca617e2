package models

import "time"

// FoldReport holds diagnostics for one walk-forward fold: accuracy, a
// per-class precision/recall/F1 breakdown and the confusion matrix in label
// order (rows = actual, cols = predicted).
type FoldReport struct {
	Fold      int          `json:"fold"`
	Accuracy  float64      `json:"accuracy"`
	Classes   []ClassStats `json:"classes"`
	Confusion [2][2]int    `json:"confusion_matrix"`
}

// ClassStats is the per-class slice of a classification report.
type ClassStats struct {
	Label     int     `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// CVDiagnostics summarizes a walk-forward cross-validation run. LastFold is
// the report for the most recent time slice.
type CVDiagnostics struct {
	Folds        int        `json:"folds"`
	AccuracyMean float64    `json:"cv_accuracy_mean"`
	AccuracyStd  float64    `json:"cv_accuracy_std"`
	LastFold     FoldReport `json:"last_fold"`
}

// ArtifactMeta is the structured metadata record persisted alongside every
// model blob. Schema is mandatory; a metadata record without it makes the
// artifact corrupt.
type ArtifactMeta struct {
	Symbol    string        `json:"symbol"`
	Version   string        `json:"version"`
	From      string        `json:"from"`
	To        string        `json:"to"`
	Schema    FeatureSchema `json:"feature_schema"`
	CV        CVDiagnostics `json:"cv"`
	Rows      int           `json:"rows"`
	CreatedAt time.Time     `json:"created_at"`
	Notes     string        `json:"notes,omitempty"`
}

// ModelArtifact pairs a deserialized model blob with its metadata. Artifacts
// are write-once: both files must exist and agree or the pair is invalid.
type ModelArtifact struct {
	Symbol  string
	Version string
	Model   []byte
	Meta    ArtifactMeta
}

// ExplanationFacts is the deterministic input handed to an explanation
// generator. It carries everything the text needs so the generator stays a
// side collaborator with no data access of its own.
type ExplanationFacts struct {
	Symbol       string  `json:"symbol"`
	Version      string  `json:"version"`
	AsOf         string  `json:"as_of"`
	ProbUp       float64 `json:"prob_up"`
	Predicted    int     `json:"predicted"`
	AccuracyMean float64 `json:"cv_accuracy_mean"`
	AccuracyStd  float64 `json:"cv_accuracy_std"`
}
