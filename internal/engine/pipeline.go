package engine

import (
	"github.com/nmaxcom/smartpad/internal/ast"
	"github.com/nmaxcom/smartpad/internal/diagnostics"
)

// Evaluator is one stage of the statement pipeline. CanHandle is a
// cheap structural test; Evaluate may still decline by returning nil,
// in which case the next stage gets a look.
type Evaluator interface {
	Name() string
	CanHandle(stmt ast.Statement) bool
	Evaluate(stmt ast.Statement, ctx *Context) *Result
}

// Pipeline tries evaluators in a fixed priority order. Specific
// statement shapes sit in front of the generic arithmetic stage, and a
// fallback at the end guarantees every line yields a result.
type Pipeline struct {
	stages []Evaluator
}

// NewPipeline builds the standard stage order.
func NewPipeline() *Pipeline {
	return &Pipeline{stages: []Evaluator{
		&commentEvaluator{},
		&percentPhraseEvaluator{},
		&rangeEvaluator{},
		&dateMathEvaluator{},
		&solveEvaluator{},
		&combinedAssignEvaluator{},
		&assignEvaluator{},
		&unitEvaluator{},
		&funcDefEvaluator{},
		&arithmeticEvaluator{},
		&fallbackEvaluator{},
	}}
}

// Run dispatches one statement. A panic inside a stage is caught and
// surfaced as a runtime error result so one bad line cannot take the
// notebook down.
func (p *Pipeline) Run(stmt ast.Statement, ctx *Context) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			err := diagnostics.NewRuntimeError("R001", ctx.Line, "internal error: %v", r)
			result = errorResult(ctx.Line, stmt.RawText(), err)
		}
	}()

	for _, stage := range p.stages {
		if !stage.CanHandle(stmt) {
			continue
		}
		ctx.Trace.Step(stage.Name(), "claimed %q", stmt.RawText())
		if r := stage.Evaluate(stmt, ctx); r != nil {
			return r
		}
		ctx.Trace.Step(stage.Name(), "declined")
	}
	ctx.Trace.Step("pipeline", "no handler for %q, passing through as text", stmt.RawText())
	return textResult(ctx.Line, stmt.RawText())
}
