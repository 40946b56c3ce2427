package solver

import (
	"math"

	"github.com/nmaxcom/smartpad/internal/diagnostics"
	"github.com/nmaxcom/smartpad/internal/value"
)

// inverses maps a single-argument function to the construction that
// undoes it: f(x) = R becomes x = inverses[f](R).
var inverses = map[string]func(r Node) Node{
	"sqrt":  func(r Node) Node { return &Binary{Op: "^", Left: r, Right: Num(2)} },
	"exp":   func(r Node) Node { return &Call{Name: "ln", Args: []Node{r}} },
	"ln":    func(r Node) Node { return &Call{Name: "exp", Args: []Node{r}} },
	"log":   func(r Node) Node { return &Call{Name: "exp", Args: []Node{r}} },
	"log10": func(r Node) Node { return &Binary{Op: "^", Left: Num(10), Right: r} },
	"sin":   func(r Node) Node { return &Call{Name: "asin", Args: []Node{r}} },
	"cos":   func(r Node) Node { return &Call{Name: "acos", Args: []Node{r}} },
	"tan":   func(r Node) Node { return &Call{Name: "atan", Args: []Node{r}} },
	"asin":  func(r Node) Node { return &Call{Name: "sin", Args: []Node{r}} },
	"acos":  func(r Node) Node { return &Call{Name: "cos", Args: []Node{r}} },
	"atan":  func(r Node) Node { return &Call{Name: "tan", Args: []Node{r}} },
}

// maxPeelSteps bounds the isolation loop; any well-formed single
// occurrence isolates in at most tree-depth steps.
const maxPeelSteps = 256

// isolate rearranges lhs = rhs until lhs is exactly the target
// variable, returning the rearranged right side.
func isolate(lhs, rhs Node, target string, line int) (Node, *diagnostics.Error) {
	for step := 0; step < maxPeelSteps; step++ {
		switch t := lhs.(type) {
		case *Variable:
			if t.Name == target {
				return rhs, nil
			}
			return nil, diagnostics.NewSemanticError("S010", line,
				"cannot solve for %s: stuck at %s", target, t.Name)

		case *Unary:
			rhs = &Unary{Operand: rhs}
			lhs = t.Operand

		case *Binary:
			inLeft := t.Left.Count(target) > 0
			switch t.Op {
			case "+":
				if inLeft {
					rhs, lhs = &Binary{Op: "-", Left: rhs, Right: t.Right}, t.Left
				} else {
					rhs, lhs = &Binary{Op: "-", Left: rhs, Right: t.Left}, t.Right
				}
			case "-":
				if inLeft {
					rhs, lhs = &Binary{Op: "+", Left: rhs, Right: t.Right}, t.Left
				} else {
					// a - x = R  =>  x = a - R
					rhs, lhs = &Binary{Op: "-", Left: t.Left, Right: rhs}, t.Right
				}
			case "*":
				if inLeft {
					if isZero(t.Right) {
						return nil, diagnostics.NewSemanticError("S011", line,
							"cannot solve for %s: multiplied by zero", target)
					}
					rhs, lhs = &Binary{Op: "/", Left: rhs, Right: t.Right}, t.Left
				} else {
					if isZero(t.Left) {
						return nil, diagnostics.NewSemanticError("S011", line,
							"cannot solve for %s: multiplied by zero", target)
					}
					rhs, lhs = &Binary{Op: "/", Left: rhs, Right: t.Left}, t.Right
				}
			case "/":
				if inLeft {
					rhs, lhs = &Binary{Op: "*", Left: rhs, Right: t.Right}, t.Left
				} else {
					// a / x = R  =>  x = a / R
					rhs, lhs = &Binary{Op: "/", Left: t.Left, Right: rhs}, t.Right
				}
			case "^":
				var err *diagnostics.Error
				lhs, rhs, err = invertPower(t, rhs, target, line)
				if err != nil {
					return nil, err
				}
			default:
				return nil, diagnostics.NewSemanticError("S012", line,
					"cannot invert operator %q", t.Op)
			}

		case *Call:
			inv, ok := inverses[t.Name]
			if !ok || len(t.Args) != 1 {
				return nil, diagnostics.NewSemanticError("S013", line,
					"cannot invert %s()", t.Name)
			}
			rhs = inv(rhs)
			lhs = t.Args[0]

		default:
			return nil, diagnostics.NewSemanticError("S014", line,
				"cannot solve for %s in %s", target, lhs.String())
		}
	}
	return nil, diagnostics.NewSemanticError("S015", line,
		"equation is too deep to rearrange")
}

// invertPower peels one exponentiation: x^k = R or b^x = R.
func invertPower(t *Binary, rhs Node, target string, line int) (Node, Node, *diagnostics.Error) {
	if t.Left.Count(target) > 0 {
		// x ^ k = R
		if litEquals(t.Right, 2) {
			return t.Left, &Call{Name: "sqrt", Args: []Node{rhs}}, nil
		}
		return t.Left, &Binary{
			Op:    "^",
			Left:  rhs,
			Right: &Binary{Op: "/", Left: Num(1), Right: t.Right},
		}, nil
	}
	// b ^ x = R
	if litEquals(t.Left, 10) {
		return t.Right, &Call{Name: "log10", Args: []Node{rhs}}, nil
	}
	if litEquals(t.Left, math.E) {
		return t.Right, &Call{Name: "ln", Args: []Node{rhs}}, nil
	}
	return t.Right, &Binary{
		Op:    "/",
		Left:  &Call{Name: "ln", Args: []Node{rhs}},
		Right: &Call{Name: "ln", Args: []Node{t.Left}},
	}, nil
}

// crossMultiply handles x / (c - x) = r, the one multi-occurrence shape
// with a closed form: x = r*c / (1 + r).
func crossMultiply(lhs, rhs Node, target string) (Node, bool) {
	div, ok := lhs.(*Binary)
	if !ok || div.Op != "/" || rhs.Count(target) != 0 {
		return nil, false
	}
	num, ok := div.Left.(*Variable)
	if !ok || num.Name != target {
		return nil, false
	}
	den, ok := div.Right.(*Binary)
	if !ok || den.Op != "-" || den.Left.Count(target) != 0 {
		return nil, false
	}
	x, ok := den.Right.(*Variable)
	if !ok || x.Name != target {
		return nil, false
	}
	return &Binary{
		Op:    "/",
		Left:  &Binary{Op: "*", Left: rhs, Right: den.Left},
		Right: &Binary{Op: "+", Left: Num(1), Right: rhs},
	}, true
}

func isZero(n Node) bool {
	l, ok := n.(*Literal)
	if !ok {
		return false
	}
	f, numeric := l.Val.Float()
	return numeric && f == 0
}

func litEquals(n Node, want float64) bool {
	l, ok := n.(*Literal)
	if !ok {
		return false
	}
	nv, ok := l.Val.(*value.Number)
	return ok && math.Abs(nv.Val-want) < 1e-12
}
