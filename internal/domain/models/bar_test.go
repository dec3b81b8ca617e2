package models

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestFeatureRowVector(t *testing.T) {
	row := FeatureRow{
		Day: time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		Values: map[string]float64{
			"ret_1d": 0.012,
			"vol_5":  0.004,
		},
	}

	vec, missing := row.Vector(FeatureSchema{"ret_1d", "vol_5"})
	if len(missing) != 0 {
		t.Fatalf("unexpected missing %v", missing)
	}
	if len(vec) != 2 || vec[0] != 0.012 || vec[1] != 0.004 {
		t.Fatalf("unexpected vector %v", vec)
	}
}

func TestFeatureRowVectorNamesMissingColumns(t *testing.T) {
	row := FeatureRow{Values: map[string]float64{"ret_1d": 0.012}}

	vec, missing := row.Vector(FeatureSchema{"ret_1d", "ma_5"})
	if vec != nil {
		t.Fatalf("expected nil vector, got %v", vec)
	}
	if len(missing) != 1 || missing[0] != "ma_5" {
		t.Fatalf("missing = %v, want [ma_5]", missing)
	}
}

func TestFeatureSchemaEqual(t *testing.T) {
	a := FeatureSchema{"ret_1d", "vol_5"}
	if !a.Equal(FeatureSchema{"ret_1d", "vol_5"}) {
		t.Fatalf("identical schemas not equal")
	}
	if a.Equal(FeatureSchema{"vol_5", "ret_1d"}) {
		t.Fatalf("order must matter")
	}
	if a.Equal(FeatureSchema{"ret_1d"}) {
		t.Fatalf("length must matter")
	}
}

func TestErrorMatchingByCode(t *testing.T) {
	cases := []struct {
		err      error
		sentinel error
	}{
		{NewDataFetchError("AAPL", "unreachable", nil), ErrDataFetch},
		{NewInsufficientDataError("AAPL", 0, 1), ErrInsufficientData},
		{NewArtifactNotFoundError("AAPL"), ErrArtifactNotFound},
		{NewArtifactCorruptError("AAPL_x", "bad blob", nil), ErrArtifactCorrupt},
		{NewSchemaMismatchError("AAPL", []string{"ma_5"}), ErrSchemaMismatch},
		{NewTrainingPreconditionError("AAPL", 3, 6), ErrTrainingPrecondition},
	}
	for _, c := range cases {
		if !errors.Is(c.err, c.sentinel) {
			t.Fatalf("%v does not match its sentinel", c.err)
		}
	}
	if errors.Is(cases[0].err, ErrSchemaMismatch) {
		t.Fatalf("codes must not cross-match")
	}
}

func TestErrorWrapping(t *testing.T) {
	cause := fmt.Errorf("dial tcp: refused")
	err := NewDataFetchError("AAPL", "platform unreachable", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("cause not unwrapped")
	}

	wrapped := fmt.Errorf("train: %w", NewTrainingPreconditionError("AAPL", 3, 6))
	if !errors.Is(wrapped, ErrTrainingPrecondition) {
		t.Fatalf("wrapped error lost its code")
	}
	var derr *Error
	if !errors.As(wrapped, &derr) || derr.Rows != 3 || derr.Required != 6 {
		t.Fatalf("detail lost through wrapping: %v", wrapped)
	}
}
