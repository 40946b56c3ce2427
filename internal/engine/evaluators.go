package engine

import (
	"github.com/nmaxcom/smartpad/internal/ast"
	"github.com/nmaxcom/smartpad/internal/config"
	"github.com/nmaxcom/smartpad/internal/diagnostics"
	"github.com/nmaxcom/smartpad/internal/value"
)

// commentEvaluator passes comments through untouched.
type commentEvaluator struct{}

func (*commentEvaluator) Name() string { return "comment" }

func (*commentEvaluator) CanHandle(stmt ast.Statement) bool {
	_, ok := stmt.(*ast.CommentStatement)
	return ok
}

func (*commentEvaluator) Evaluate(stmt ast.Statement, ctx *Context) *Result {
	return textResult(ctx.Line, stmt.RawText())
}

// percentPhraseEvaluator claims percentage phrases before the generic
// arithmetic stage can misread them.
type percentPhraseEvaluator struct{}

func (*percentPhraseEvaluator) Name() string { return "percent-phrase" }

func (*percentPhraseEvaluator) CanHandle(stmt ast.Statement) bool {
	e, ok := stmt.(*ast.ExpressionStatement)
	if !ok {
		return false
	}
	switch e.Expr.(type) {
	case *ast.PercentApplication, *ast.AsPercentExpression, *ast.WhatPercentExpression:
		return true
	}
	return false
}

func (*percentPhraseEvaluator) Evaluate(stmt ast.Statement, ctx *Context) *Result {
	return renderExpression(stmt.(*ast.ExpressionStatement), ctx)
}

// rangeEvaluator expands integer range literals into lists.
type rangeEvaluator struct{}

func (*rangeEvaluator) Name() string { return "range" }

func (*rangeEvaluator) CanHandle(stmt ast.Statement) bool {
	e, ok := stmt.(*ast.ExpressionStatement)
	if !ok {
		return false
	}
	_, isRange := e.Expr.(*ast.RangeExpression)
	return isRange
}

func (*rangeEvaluator) Evaluate(stmt ast.Statement, ctx *Context) *Result {
	return renderExpression(stmt.(*ast.ExpressionStatement), ctx)
}

// dateMathEvaluator claims expressions anchored on a calendar point.
type dateMathEvaluator struct{}

func (*dateMathEvaluator) Name() string { return "date-math" }

func (*dateMathEvaluator) CanHandle(stmt ast.Statement) bool {
	e, ok := stmt.(*ast.ExpressionStatement)
	return ok && mentionsDate(e.Expr)
}

func (*dateMathEvaluator) Evaluate(stmt ast.Statement, ctx *Context) *Result {
	return renderExpression(stmt.(*ast.ExpressionStatement), ctx)
}

// mentionsDate walks the expression for date literals or date keywords.
func mentionsDate(e ast.Expression) bool {
	switch n := e.(type) {
	case *ast.DateLiteral:
		return true
	case *ast.Identifier:
		return n.Name == config.TodayKeyword || n.Name == config.NowKeyword
	case *ast.PrefixExpression:
		return mentionsDate(n.Right)
	case *ast.InfixExpression:
		return mentionsDate(n.Left) || mentionsDate(n.Right)
	case *ast.UnitExpression:
		return mentionsDate(n.Expr)
	case *ast.ConversionExpression:
		return mentionsDate(n.Expr)
	case *ast.CallExpression:
		for _, a := range n.Args {
			if mentionsDate(a) {
				return true
			}
		}
	}
	return false
}

// unitEvaluator claims unit-tagged expressions and conversion suffixes.
type unitEvaluator struct{}

func (*unitEvaluator) Name() string { return "unit-arithmetic" }

func (*unitEvaluator) CanHandle(stmt ast.Statement) bool {
	e, ok := stmt.(*ast.ExpressionStatement)
	if !ok {
		return false
	}
	switch e.Expr.(type) {
	case *ast.UnitExpression, *ast.ConversionExpression:
		return true
	}
	return false
}

func (*unitEvaluator) Evaluate(stmt ast.Statement, ctx *Context) *Result {
	return renderExpression(stmt.(*ast.ExpressionStatement), ctx)
}

// arithmeticEvaluator is the generic expression stage.
type arithmeticEvaluator struct{}

func (*arithmeticEvaluator) Name() string { return "arithmetic" }

func (*arithmeticEvaluator) CanHandle(stmt ast.Statement) bool {
	_, ok := stmt.(*ast.ExpressionStatement)
	return ok
}

func (*arithmeticEvaluator) Evaluate(stmt ast.Statement, ctx *Context) *Result {
	return renderExpression(stmt.(*ast.ExpressionStatement), ctx)
}

// fallbackEvaluator turns anything left over into passthrough text.
type fallbackEvaluator struct{}

func (*fallbackEvaluator) Name() string { return "fallback" }

func (*fallbackEvaluator) CanHandle(ast.Statement) bool { return true }

func (*fallbackEvaluator) Evaluate(stmt ast.Statement, ctx *Context) *Result {
	ctx.Trace.Step("fallback", "no evaluator interpreted %q, passing through as text", stmt.RawText())
	return textResult(ctx.Line, stmt.RawText())
}

// renderExpression evaluates an expression statement into a math result.
func renderExpression(stmt *ast.ExpressionStatement, ctx *Context) *Result {
	v := evalExpr(stmt.Expr, ctx)
	ctx.Trace.Step("eval", "%s -> %s", stmt.Expr.String(), v.Display(ctx.Settings))
	if e, isErr := v.(*value.Error); isErr {
		return valueError(e, ctx.Line, stmt.RawText())
	}
	return &Result{
		Kind:   ResultMath,
		Line:   ctx.Line,
		Input:  stmt.RawText(),
		Value:  v,
		Output: v.Display(ctx.Settings),
	}
}

// valueError lifts an Error value into an error result record.
func valueError(e *value.Error, line int, input string) *Result {
	err := &diagnostics.Error{
		Code:     "E001",
		Category: e.Category,
		Line:     line,
		Message:  e.Message,
	}
	return errorResult(line, input, err)
}
