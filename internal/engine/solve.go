package engine

import (
	"strings"

	"github.com/nmaxcom/smartpad/internal/ast"
	"github.com/nmaxcom/smartpad/internal/config"
	"github.com/nmaxcom/smartpad/internal/diagnostics"
	"github.com/nmaxcom/smartpad/internal/parser"
	"github.com/nmaxcom/smartpad/internal/solver"
	"github.com/nmaxcom/smartpad/internal/store"
	"github.com/nmaxcom/smartpad/internal/value"
)

// solveEvaluator handles explicit `solve x in ...` statements and the
// implicit form: a bare identifier with no declared value. It runs
// before the assignment stages so an undeclared name is read as a
// solve request, not a mistake.
type solveEvaluator struct{}

func (*solveEvaluator) Name() string { return "equation-solve" }

func (*solveEvaluator) CanHandle(stmt ast.Statement) bool {
	switch s := stmt.(type) {
	case *ast.SolveStatement:
		return true
	case *ast.ExpressionStatement:
		_, bare := s.Expr.(*ast.Identifier)
		return bare
	}
	return false
}

func (e *solveEvaluator) Evaluate(stmt ast.Statement, ctx *Context) *Result {
	switch s := stmt.(type) {
	case *ast.SolveStatement:
		return e.explicit(s, ctx)
	case *ast.ExpressionStatement:
		return e.implicit(s, ctx)
	}
	return nil
}

func (e *solveEvaluator) explicit(s *ast.SolveStatement, ctx *Context) *Result {
	eqs := make([]solver.Equation, 0, len(s.Equations))
	for _, q := range s.Equations {
		left, err := parser.ParseExpression(q.Left, ctx.Line)
		if err != nil {
			return errorResult(ctx.Line, s.RawText(), err)
		}
		right, err := parser.ParseExpression(q.Right, ctx.Line)
		if err != nil {
			return errorResult(ctx.Line, s.RawText(), err)
		}
		eqs = append(eqs, solver.Equation{Left: left, Right: right})
	}

	// Where clauses bind locals visible only to this solve.
	locals := make(map[string]value.Value, len(s.Where))
	for _, w := range s.Where {
		expr, err := parser.ParseExpression(w.Expr, ctx.Line)
		if err != nil {
			return errorResult(ctx.Line, s.RawText(), err)
		}
		v := evalExpr(expr, ctx)
		if ev, isErr := v.(*value.Error); isErr {
			return valueError(ev, ctx.Line, s.RawText())
		}
		locals[w.Name] = v
	}
	cctx := ctx.child(locals)

	return finishSolve(s.Target, eqs, s.Convert, s.RawText(), cctx, ctx)
}

// implicit solves for a bare identifier by consulting the equation
// store for the nearest preceding equation that references it.
func (e *solveEvaluator) implicit(s *ast.ExpressionStatement, ctx *Context) *Result {
	ident := s.Expr.(*ast.Identifier)
	name := store.NormalizeName(ident.Name)

	// A declared name, date keyword, or constant is not a solve
	// request; let the arithmetic stage render it.
	if _, ok := ctx.Resolve(name); ok {
		return nil
	}
	if _, ok := value.Constant(name); ok {
		return nil
	}
	if isDateKeyword(name) {
		return nil
	}

	entry := ctx.Equations.FindReferencing(name, ctx.Line)
	if entry == nil {
		return nil
	}
	ctx.Trace.Step("equation-solve", "implicit solve %s via line %d", name, entry.Line)

	eq, err := equationFromEntry(entry, ctx.Line)
	if err != nil {
		return errorResult(ctx.Line, s.RawText(), err)
	}
	return finishSolve(name, []solver.Equation{*eq}, "", s.RawText(), ctx, ctx)
}

// finishSolve runs the solver, applies any conversion suffix, stores
// the solved binding, and shapes the result record.
func finishSolve(target string, eqs []solver.Equation, convert, input string, scope, ctx *Context) *Result {
	res, err := solver.Solve(target, eqs, scope.Resolve, ctx.Line)
	if err != nil {
		return errorResult(ctx.Line, input, err)
	}
	ctx.Trace.Step("equation-solve", "rearranged: %s", res.Rearranged)

	v := res.Value
	if convert != "" {
		v = value.Convert(v, convert)
	}
	if ev, isErr := v.(*value.Error); isErr {
		return valueError(ev, ctx.Line, input)
	}

	output := target + " = " + v.Display(ctx.Settings)
	if v.Kind() == value.SYMBOL {
		// Not fully resolvable: show the rearranged symbolic form.
		output = res.Rearranged
	} else {
		ctx.Vars.Set(target, v, input)
	}
	return &Result{
		Kind:     ResultMath,
		Line:     ctx.Line,
		Input:    input,
		Value:    v,
		Variable: target,
		Output:   output,
	}
}

// equationFromEntry reconstructs a solvable equation from a store
// entry: `name = expr` for named entries, a split on `=` otherwise.
func equationFromEntry(entry *store.EquationEntry, line int) (*solver.Equation, *diagnostics.Error) {
	if entry.VariableName != "" {
		right, err := parser.ParseExpression(entry.Expression, line)
		if err != nil {
			return nil, err
		}
		return &solver.Equation{
			Left:  &ast.Identifier{Name: entry.VariableName},
			Right: right,
		}, nil
	}
	parts := strings.SplitN(entry.Expression, "=", 2)
	if len(parts) != 2 {
		right, err := parser.ParseExpression(entry.Expression, line)
		if err != nil {
			return nil, err
		}
		return &solver.Equation{
			Left:  &ast.Identifier{Name: ""},
			Right: right,
		}, nil
	}
	left, err := parser.ParseExpression(strings.TrimSpace(parts[0]), line)
	if err != nil {
		return nil, err
	}
	right, err := parser.ParseExpression(strings.TrimSpace(parts[1]), line)
	if err != nil {
		return nil, err
	}
	return &solver.Equation{Left: left, Right: right}, nil
}

func isDateKeyword(name string) bool {
	return name == config.TodayKeyword || name == config.NowKeyword
}
