package models

import (
	"fmt"
	"strings"
)

// Error codes for the pipeline failure taxonomy. All of these are local,
// non-retriable validation failures surfaced directly to the caller; none is
// ever downgraded to a default prediction.
const (
	CodeDataFetch            = "ERR_DATA_FETCH"
	CodeInsufficientData     = "ERR_INSUFFICIENT_DATA"
	CodeArtifactNotFound     = "ERR_ARTIFACT_NOT_FOUND"
	CodeArtifactCorrupt      = "ERR_ARTIFACT_CORRUPT"
	CodeSchemaMismatch       = "ERR_SCHEMA_MISMATCH"
	CodeTrainingPrecondition = "ERR_TRAINING_PRECONDITION"
)

// Error is a typed pipeline error carrying enough detail (symbol, expected
// vs. actual columns and row counts) to diagnose without re-running.
type Error struct {
	Code     string
	Symbol   string
	Message  string
	Missing  []string // schema columns absent at inference
	Rows     int
	Required int
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Code)
	if e.Symbol != "" {
		b.WriteString(" symbol=" + e.Symbol)
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	if len(e.Missing) > 0 {
		b.WriteString(" missing=[" + strings.Join(e.Missing, ", ") + "]")
	}
	if e.Required > 0 {
		fmt.Fprintf(&b, " rows=%d required=%d", e.Rows, e.Required)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches errors by code so callers can test against the sentinel values
// below with errors.Is regardless of the attached detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is checks.
var (
	ErrDataFetch            = &Error{Code: CodeDataFetch}
	ErrInsufficientData     = &Error{Code: CodeInsufficientData}
	ErrArtifactNotFound     = &Error{Code: CodeArtifactNotFound}
	ErrArtifactCorrupt      = &Error{Code: CodeArtifactCorrupt}
	ErrSchemaMismatch       = &Error{Code: CodeSchemaMismatch}
	ErrTrainingPrecondition = &Error{Code: CodeTrainingPrecondition}
)

// NewDataFetchError reports an unreachable or malformed bar source.
func NewDataFetchError(symbol, message string, err error) *Error {
	return &Error{Code: CodeDataFetch, Symbol: symbol, Message: message, Err: err}
}

// NewInsufficientDataError reports too few rows surviving rolling-window and
// label derivation.
func NewInsufficientDataError(symbol string, rows, required int) *Error {
	return &Error{
		Code:     CodeInsufficientData,
		Symbol:   symbol,
		Message:  "not enough rows after feature derivation",
		Rows:     rows,
		Required: required,
	}
}

// NewArtifactNotFoundError reports that no artifact exists for the symbol.
func NewArtifactNotFoundError(symbol string) *Error {
	return &Error{Code: CodeArtifactNotFound, Symbol: symbol, Message: "no artifact saved for symbol"}
}

// NewArtifactCorruptError reports an inconsistent or incomplete model and
// metadata pair.
func NewArtifactCorruptError(ref, message string, err error) *Error {
	return &Error{Code: CodeArtifactCorrupt, Symbol: ref, Message: message, Err: err}
}

// NewSchemaMismatchError reports inference columns that do not cover the
// training schema; missing names the absent columns.
func NewSchemaMismatchError(symbol string, missing []string) *Error {
	return &Error{
		Code:    CodeSchemaMismatch,
		Symbol:  symbol,
		Message: "inference features do not cover training schema",
		Missing: missing,
	}
}

// NewTrainingPreconditionError reports too few rows to form the required
// number of non-degenerate walk-forward folds.
func NewTrainingPreconditionError(symbol string, rows, required int) *Error {
	return &Error{
		Code:     CodeTrainingPrecondition,
		Symbol:   symbol,
		Message:  "not enough rows for walk-forward folds",
		Rows:     rows,
		Required: required,
	}
}
