package solver

import "github.com/nmaxcom/smartpad/internal/value"

// Simplify folds constant subtrees and normalizes a couple of shapes
// the isolation step produces, like stacked exponents.
func Simplify(n Node) Node {
	switch t := n.(type) {
	case *Unary:
		operand := Simplify(t.Operand)
		if l, ok := operand.(*Literal); ok {
			if folded := fold(value.Negate(l.Val)); folded != nil {
				return folded
			}
		}
		return &Unary{Operand: operand}

	case *Binary:
		left := Simplify(t.Left)
		right := Simplify(t.Right)

		// (b ^ e1) ^ e2 -> b ^ (e1 * e2)
		if t.Op == "^" {
			if inner, ok := left.(*Binary); ok && inner.Op == "^" {
				return Simplify(&Binary{
					Op:   "^",
					Left: inner.Left,
					Right: &Binary{
						Op:    "*",
						Left:  inner.Right,
						Right: right,
					},
				})
			}
		}

		b := &Binary{Op: t.Op, Left: left, Right: right}
		ll, lok := left.(*Literal)
		rl, rok := right.(*Literal)
		if lok && rok {
			if folded := fold(Eval(b, nil)); folded != nil {
				return folded
			}
		}
		// Identity operands disappear.
		if rok && isOne(rl) && (t.Op == "*" || t.Op == "/" || t.Op == "^") {
			return left
		}
		if lok && isOne(ll) && t.Op == "*" {
			return right
		}
		return b

	case *Call:
		args := make([]Node, len(t.Args))
		allLit := true
		for i, a := range t.Args {
			args[i] = Simplify(a)
			if _, ok := args[i].(*Literal); !ok {
				allLit = false
			}
		}
		c := &Call{Name: t.Name, Args: args}
		if allLit {
			if folded := fold(Eval(c, nil)); folded != nil {
				return folded
			}
		}
		return c
	}
	return n
}

// fold wraps a successfully computed value back into a literal. Errors
// and symbols stay unfolded so they surface at final evaluation with
// the full expression available for the message.
func fold(v value.Value) Node {
	switch v.Kind() {
	case value.ERROR, value.SYMBOL:
		return nil
	}
	return Lit(v)
}

func isOne(l *Literal) bool {
	if n, ok := l.Val.(*value.Number); ok {
		return n.Val == 1
	}
	return false
}
