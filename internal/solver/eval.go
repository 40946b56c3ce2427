package solver

import (
	"github.com/nmaxcom/smartpad/internal/value"
)

// Eval computes the numeric value of a tree. Unresolved variables come
// back as Symbol values so the caller can tell "no real answer" apart
// from "not enough information".
func Eval(n Node, res Resolver) value.Value {
	switch t := n.(type) {
	case *Literal:
		return t.Val

	case *Variable:
		if res != nil {
			if v, ok := res(t.Name); ok {
				return v
			}
		}
		if v, ok := value.Constant(t.Name); ok {
			return v
		}
		return value.NewSymbol(t.Name)

	case *Unary:
		return value.Negate(Eval(t.Operand, res))

	case *Binary:
		left := Eval(t.Left, res)
		right := Eval(t.Right, res)
		switch t.Op {
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
		return value.SemanticErr("unknown operator %q", t.Op)

	case *Call:
		args := make([]value.Value, len(t.Args))
		for i, a := range t.Args {
			args[i] = Eval(a, res)
		}
		if v, ok := value.CallBuiltin(t.Name, args); ok {
			return v
		}
		return value.SemanticErr("unknown function %q", t.Name)
	}
	return value.SemanticErr("unevaluable expression")
}
