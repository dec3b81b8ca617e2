package models

import "time"

// DayFormat is the calendar-date layout used for bar days, version tags and
// API date ranges.
const DayFormat = "2006-01-02"

// Bar represents one day's OHLCV record for a symbol. Bars are immutable once
// fetched and ordered by Day ascending; Day values are unique per symbol.
// Open/High/Low may be zero when the upstream source omits them; only Day,
// Close and Volume are required by the feature pipeline.
type Bar struct {
	Day    time.Time `json:"day"`
	Open   float64   `json:"open,omitempty"`
	High   float64   `json:"high,omitempty"`
	Low    float64   `json:"low,omitempty"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// FeatureRow holds the named numeric features derived from a window of bars
// ending at Day. Target is set only in training mode.
type FeatureRow struct {
	Day      time.Time
	Values   map[string]float64
	Target   int
	HasLabel bool
}

// Feature returns the named value and whether it exists in the row.
func (r FeatureRow) Feature(name string) (float64, bool) {
	v, ok := r.Values[name]
	return v, ok
}

// Vector assembles the row's values in schema order. The second return lists
// schema columns absent from the row; the vector is only valid when it is
// empty.
func (r FeatureRow) Vector(schema FeatureSchema) ([]float64, []string) {
	vec := make([]float64, 0, len(schema))
	var missing []string
	for _, name := range schema {
		v, ok := r.Values[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		vec = append(vec, v)
	}
	if len(missing) > 0 {
		return nil, missing
	}
	return vec, nil
}

// FeatureSchema is the ordered list of feature column names a model was
// trained on and therefore requires at inference.
type FeatureSchema []string

// Equal reports whether two schemas are element-for-element identical.
func (s FeatureSchema) Equal(other FeatureSchema) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// PredictionResult is the ephemeral outcome of one inference call. It is
// returned to the caller and never persisted.
type PredictionResult struct {
	Symbol    string  `json:"symbol"`
	Version   string  `json:"version"`
	AsOf      string  `json:"as_of"`
	ProbUp    float64 `json:"prob_up"`
	Predicted int     `json:"predicted"`
}
