package engine

import (
	"github.com/nmaxcom/smartpad/internal/ast"
	"github.com/nmaxcom/smartpad/internal/parser"
	"github.com/nmaxcom/smartpad/internal/store"
	"github.com/nmaxcom/smartpad/internal/value"
)

// assignVariable evaluates the right-hand side, records the equation
// for later solving, and stores the binding. Shared by the plain and
// combined assignment stages.
func assignVariable(a *ast.AssignStatement, ctx *Context) (value.Value, *Result) {
	// A self-referencing right-hand side must come out symbolic, not
	// loop: the prior binding is shadowed for this evaluation.
	shadow := map[string]value.Value{}
	if containsIdent(a.Expr, a.Name) {
		shadow[a.Name] = value.NewSymbol(a.Name)
	}
	v := evalExpr(a.Expr, ctx.child(shadow))

	ctx.Equations.Record(ctx.Line, store.NormalizeName(a.Name), a.ExprText)
	if e, isErr := v.(*value.Error); isErr {
		return nil, valueError(e, ctx.Line, a.RawText())
	}
	ctx.Vars.Set(a.Name, v, a.RawText())
	ctx.Trace.Step("assign", "%s = %s", a.Name, v.Display(ctx.Settings))
	return v, nil
}

func containsIdent(e ast.Expression, name string) bool {
	switch n := e.(type) {
	case *ast.Identifier:
		return store.NormalizeName(n.Name) == store.NormalizeName(name)
	case *ast.PrefixExpression:
		return containsIdent(n.Right, name)
	case *ast.InfixExpression:
		return containsIdent(n.Left, name) || containsIdent(n.Right, name)
	case *ast.UnitExpression:
		return containsIdent(n.Expr, name)
	case *ast.ConversionExpression:
		return containsIdent(n.Expr, name)
	case *ast.RangeExpression:
		return containsIdent(n.Start, name) || containsIdent(n.End, name)
	case *ast.PercentApplication:
		return containsIdent(n.Percent, name) || containsIdent(n.Value, name)
	case *ast.AsPercentExpression:
		return containsIdent(n.Value, name)
	case *ast.WhatPercentExpression:
		return containsIdent(n.A, name) || containsIdent(n.B, name)
	case *ast.CallExpression:
		for _, arg := range n.Args {
			if containsIdent(arg, name) {
				return true
			}
		}
	}
	return false
}

// combinedAssignEvaluator handles `name = expr =>`: assign and display.
type combinedAssignEvaluator struct{}

func (*combinedAssignEvaluator) Name() string { return "combined-assignment" }

func (*combinedAssignEvaluator) CanHandle(stmt ast.Statement) bool {
	a, ok := stmt.(*ast.AssignStatement)
	return ok && a.Display
}

func (*combinedAssignEvaluator) Evaluate(stmt ast.Statement, ctx *Context) *Result {
	a := stmt.(*ast.AssignStatement)
	v, errResult := assignVariable(a, ctx)
	if errResult != nil {
		return errResult
	}
	return &Result{
		Kind:     ResultCombined,
		Line:     ctx.Line,
		Input:    a.RawText(),
		Value:    v,
		Variable: store.NormalizeName(a.Name),
		Output:   v.Display(ctx.Settings),
	}
}

// assignEvaluator handles silent `name = expr` bindings.
type assignEvaluator struct{}

func (*assignEvaluator) Name() string { return "assignment" }

func (*assignEvaluator) CanHandle(stmt ast.Statement) bool {
	a, ok := stmt.(*ast.AssignStatement)
	return ok && !a.Display
}

func (*assignEvaluator) Evaluate(stmt ast.Statement, ctx *Context) *Result {
	a := stmt.(*ast.AssignStatement)
	v, errResult := assignVariable(a, ctx)
	if errResult != nil {
		return errResult
	}
	return &Result{
		Kind:     ResultVariable,
		Line:     ctx.Line,
		Input:    a.RawText(),
		Value:    v,
		Variable: store.NormalizeName(a.Name),
	}
}

// funcDefEvaluator stores user function definitions.
type funcDefEvaluator struct{}

func (*funcDefEvaluator) Name() string { return "function-definition" }

func (*funcDefEvaluator) CanHandle(stmt ast.Statement) bool {
	_, ok := stmt.(*ast.FuncDefStatement)
	return ok
}

func (*funcDefEvaluator) Evaluate(stmt ast.Statement, ctx *Context) *Result {
	f := stmt.(*ast.FuncDefStatement)
	if _, err := parser.ParseExpression(f.Body, ctx.Line); err != nil {
		return errorResult(ctx.Line, f.RawText(), err)
	}
	ctx.Funcs.Set(&store.Function{
		Name:   f.Name,
		Params: f.Params,
		Body:   f.Body,
		Line:   ctx.Line,
	})
	return &Result{
		Kind:     ResultVariable,
		Line:     ctx.Line,
		Input:    f.RawText(),
		Variable: f.Name,
	}
}
