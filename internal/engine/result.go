package engine

import (
	"github.com/nmaxcom/smartpad/internal/diagnostics"
	"github.com/nmaxcom/smartpad/internal/value"
)

// ResultKind classifies what a line produced.
type ResultKind string

const (
	// ResultText is a passthrough line: comment, prose, blank.
	ResultText ResultKind = "text"
	// ResultError is a line that failed; Err carries the diagnostic.
	ResultError ResultKind = "error"
	// ResultVariable is a plain assignment with no display marker.
	ResultVariable ResultKind = "variable"
	// ResultMath is a computed value: expression, display, or solve.
	ResultMath ResultKind = "math"
	// ResultCombined is an assignment that also displays its value.
	ResultCombined ResultKind = "combined"
)

// Result is the outcome of evaluating one statement.
type Result struct {
	Kind     ResultKind
	Line     int
	Input    string
	Value    value.Value
	Variable string
	// Output is the rendered right-hand display text, empty for
	// passthrough and silent lines.
	Output string
	Err    *diagnostics.Error
}

func textResult(line int, input string) *Result {
	return &Result{Kind: ResultText, Line: line, Input: input}
}

func errorResult(line int, input string, err *diagnostics.Error) *Result {
	return &Result{Kind: ResultError, Line: line, Input: input, Err: err, Output: "⚠ " + err.Message}
}
