package solver

import (
	"github.com/nmaxcom/smartpad/internal/ast"
	"github.com/nmaxcom/smartpad/internal/config"
	"github.com/nmaxcom/smartpad/internal/diagnostics"
	"github.com/nmaxcom/smartpad/internal/units"
	"github.com/nmaxcom/smartpad/internal/value"
)

// Resolver supplies values for names the solver does not own: notebook
// variables, where-clause bindings, chained equation results.
type Resolver func(name string) (value.Value, bool)

// Build lowers a parsed expression into an algebra tree. Names other
// than target are substituted through the resolver immediately, so the
// tree that reaches the isolation step contains only the target, plus
// whatever the resolver could not supply.
func Build(expr ast.Expression, target string, res Resolver, line int) (Node, *diagnostics.Error) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return Num(e.Val), nil

	case *ast.PercentLiteral:
		return Lit(value.NewPercent(e.Val)), nil

	case *ast.CurrencyLiteral:
		return Lit(value.NewCurrency(e.Amount, e.Code)), nil

	case *ast.DateLiteral:
		return Lit(value.NewDate(e.Time)), nil

	case *ast.Identifier:
		if e.Name == target {
			return &Variable{Name: e.Name}, nil
		}
		if res != nil {
			if v, ok := res(e.Name); ok {
				return Lit(v), nil
			}
		}
		if v, ok := value.Constant(e.Name); ok {
			return Lit(v), nil
		}
		return &Variable{Name: e.Name}, nil

	case *ast.PrefixExpression:
		operand, err := Build(e.Right, target, res, line)
		if err != nil {
			return nil, err
		}
		if e.Op == "-" {
			return &Unary{Operand: operand}, nil
		}
		return operand, nil

	case *ast.InfixExpression:
		left, err := Build(e.Left, target, res, line)
		if err != nil {
			return nil, err
		}
		right, err := Build(e.Right, target, res, line)
		if err != nil {
			return nil, err
		}
		return &Binary{Op: e.Op, Left: left, Right: right}, nil

	case *ast.UnitExpression:
		inner, err := Build(e.Expr, target, res, line)
		if err != nil {
			return nil, err
		}
		comp := units.Parse(e.Unit)
		if comp == nil {
			return nil, diagnostics.NewSemanticError("S001", line, "unknown unit %q", e.Unit)
		}
		if l, ok := inner.(*Literal); ok {
			if f, isNum := l.Val.Float(); isNum && l.Val.Kind() == value.NUMBER {
				return Lit(value.NewQuantity(f, comp)), nil
			}
		}
		// x km algebraically means x * (1 km).
		return &Binary{Op: "*", Left: inner, Right: Lit(value.NewQuantity(1, comp))}, nil

	case *ast.PercentApplication:
		pct, err := Build(e.Percent, target, res, line)
		if err != nil {
			return nil, err
		}
		val, err := Build(e.Value, target, res, line)
		if err != nil {
			return nil, err
		}
		frac := asFraction(pct)
		switch e.Op {
		case "of":
			return &Binary{Op: "*", Left: frac, Right: val}, nil
		case "on":
			return &Binary{Op: "*", Left: &Binary{Op: "+", Left: Num(1), Right: frac}, Right: val}, nil
		default: // off
			return &Binary{Op: "*", Left: &Binary{Op: "-", Left: Num(1), Right: frac}, Right: val}, nil
		}

	case *ast.CallExpression:
		args := make([]Node, len(e.Args))
		for i, a := range e.Args {
			n, err := Build(a, target, res, line)
			if err != nil {
				return nil, err
			}
			args[i] = n
		}
		// Aggregators expand into a left-associative addition chain so
		// the isolation step sees plain binary nodes.
		switch e.Name {
		case config.SumFuncName, config.TotalFuncName:
			if len(args) > 0 {
				return sumChain(args), nil
			}
		case config.AvgFuncName, config.AvgLongName:
			if len(args) > 0 {
				return &Binary{Op: "/", Left: sumChain(args), Right: Num(float64(len(args)))}, nil
			}
		}
		return &Call{Name: e.Name, Args: args}, nil
	}

	return nil, diagnostics.NewSemanticError("S002", line, "%s is not usable inside an equation", expr.String())
}

func sumChain(args []Node) Node {
	chain := args[0]
	for _, a := range args[1:] {
		chain = &Binary{Op: "+", Left: chain, Right: a}
	}
	return chain
}

// asFraction turns a percent node into its multiplier form.
func asFraction(n Node) Node {
	if l, ok := n.(*Literal); ok {
		if p, isPct := l.Val.(*value.Percent); isPct {
			return Num(p.Fraction())
		}
	}
	return &Binary{Op: "/", Left: n, Right: Num(100)}
}
