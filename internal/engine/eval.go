package engine

import (
	"math"
	"time"

	"github.com/nmaxcom/smartpad/internal/ast"
	"github.com/nmaxcom/smartpad/internal/config"
	"github.com/nmaxcom/smartpad/internal/parser"
	"github.com/nmaxcom/smartpad/internal/units"
	"github.com/nmaxcom/smartpad/internal/value"
)

// maxRangeLength bounds range literals so 1..1e9 cannot eat the heap.
const maxRangeLength = 100000

// evalExpr computes a semantic value for an expression node. Unknown
// identifiers become Symbol values rather than failing, which is what
// lets a later `solve` line give them meaning.
func evalExpr(e ast.Expression, ctx *Context) value.Value {
	switch n := e.(type) {
	case *ast.NumberLiteral:
		return value.NewNumber(n.Val)

	case *ast.PercentLiteral:
		return value.NewPercent(n.Val)

	case *ast.CurrencyLiteral:
		return value.NewCurrency(n.Amount, n.Code)

	case *ast.DateLiteral:
		return value.NewDate(n.Time)

	case *ast.Identifier:
		return resolveIdent(n.Name, ctx)

	case *ast.PrefixExpression:
		v := evalExpr(n.Right, ctx)
		if n.Op == "-" {
			return value.Negate(v)
		}
		return v

	case *ast.InfixExpression:
		left := evalExpr(n.Left, ctx)
		right := evalExpr(n.Right, ctx)
		switch n.Op {
		case "+":
			return value.Add(left, right)
		case "-":
			return value.Sub(left, right)
		case "*":
			return value.Mul(left, right)
		case "/":
			return value.Div(left, right)
		case "^":
			return value.Power(left, right)
		}
		return value.SemanticErr("unknown operator %q", n.Op)

	case *ast.UnitExpression:
		return evalUnit(n, ctx)

	case *ast.RangeExpression:
		return evalRange(n, ctx)

	case *ast.CallExpression:
		return evalCall(n, ctx)

	case *ast.PercentApplication:
		return evalPercentApplication(n, ctx)

	case *ast.AsPercentExpression:
		return value.AsPercent(evalExpr(n.Value, ctx))

	case *ast.WhatPercentExpression:
		return value.WhatPercent(evalExpr(n.A, ctx), evalExpr(n.B, ctx))

	case *ast.ConversionExpression:
		return value.Convert(evalExpr(n.Expr, ctx), n.Target)
	}
	return value.SemanticErr("unevaluable expression %s", e.String())
}

// resolveIdent looks a name up through scope, date keywords, and
// built-in constants, falling back to a symbolic value.
func resolveIdent(name string, ctx *Context) value.Value {
	if v, ok := ctx.Resolve(name); ok {
		return v
	}
	switch name {
	case config.TodayKeyword:
		now := time.Now()
		return value.NewDate(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()))
	case config.NowKeyword:
		return value.NewDate(time.Now())
	}
	if v, ok := value.Constant(name); ok {
		return v
	}
	return value.NewSymbol(name)
}

func evalUnit(n *ast.UnitExpression, ctx *Context) value.Value {
	comp := units.Parse(n.Unit)
	if comp == nil {
		return value.SemanticErr("unknown unit %q", n.Unit)
	}
	inner := evalExpr(n.Expr, ctx)
	switch v := inner.(type) {
	case *value.Error, *value.Symbol:
		return inner
	case *value.Number:
		return value.NewQuantity(v.Val, comp)
	case *value.List:
		out := make([]value.Value, len(v.Items))
		for i, it := range v.Items {
			f, ok := it.Float()
			if !ok {
				return value.SemanticErr("cannot attach %s to a %s value", n.Unit, it.Kind())
			}
			out[i] = value.NewQuantity(f, comp)
		}
		return value.NewList(out)
	default:
		// 3 h applied to an existing quantity or duration reads as a
		// conversion.
		return value.Convert(inner, n.Unit)
	}
}

func evalRange(n *ast.RangeExpression, ctx *Context) value.Value {
	start := evalExpr(n.Start, ctx)
	end := evalExpr(n.End, ctx)
	sf, ok1 := start.Float()
	ef, ok2 := end.Float()
	if e, isErr := start.(*value.Error); isErr {
		return e
	}
	if e, isErr := end.(*value.Error); isErr {
		return e
	}
	if !ok1 || !ok2 {
		return value.SemanticErr("range bounds must be numbers")
	}
	if sf != math.Trunc(sf) || ef != math.Trunc(ef) {
		return value.SemanticErr("range bounds must be integers")
	}
	step := 1.0
	if ef < sf {
		step = -1
	}
	length := int(math.Abs(ef-sf)) + 1
	if length > maxRangeLength {
		return value.SemanticErr("range of %d elements is too long", length)
	}
	items := make([]value.Value, 0, length)
	for v := sf; ; v += step {
		items = append(items, value.NewNumber(v))
		if v == ef {
			break
		}
	}
	return value.NewList(items)
}

func evalCall(n *ast.CallExpression, ctx *Context) value.Value {
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		args[i] = evalExpr(a, ctx)
		if e, isErr := args[i].(*value.Error); isErr {
			return e
		}
	}

	// User definitions shadow built-ins.
	if fn, ok := ctx.Funcs.Get(n.Name); ok {
		return applyFunction(fn.Name, fn.Params, fn.Body, args, ctx)
	}
	if v, ok := value.CallBuiltin(n.Name, args); ok {
		return v
	}
	return value.SemanticErr("unknown function %q", n.Name)
}

// applyFunction evaluates a user function body with arguments bound as
// locals. Depth is bounded so recursive definitions terminate.
func applyFunction(name string, params []string, body string, args []value.Value, ctx *Context) value.Value {
	if ctx.Depth >= config.MaxCallDepth {
		return value.NewError("runtime", "call depth exceeded in %s", name)
	}
	if len(args) != len(params) {
		return value.SemanticErr("%s takes %d arguments, got %d", name, len(params), len(args))
	}
	expr, perr := parser.ParseExpression(body, ctx.Line)
	if perr != nil {
		return value.SemanticErr("bad body for %s: %s", name, perr.Message)
	}
	locals := make(map[string]value.Value, len(params))
	for i, p := range params {
		locals[p] = args[i]
	}
	return evalExpr(expr, ctx.child(locals))
}

func evalPercentApplication(n *ast.PercentApplication, ctx *Context) value.Value {
	pv := evalExpr(n.Percent, ctx)
	target := evalExpr(n.Value, ctx)
	if e, isErr := pv.(*value.Error); isErr {
		return e
	}
	if e, isErr := target.(*value.Error); isErr {
		return e
	}
	pct, ok := pv.(*value.Percent)
	if !ok {
		return value.SemanticErr("%q expects a percentage on the left", n.Op)
	}
	switch n.Op {
	case "of":
		return value.PercentOf(pct, target)
	case "on":
		return value.PercentOn(pct, target)
	default:
		return value.PercentOff(pct, target)
	}
}
