package solver

import (
	"strings"

	"github.com/nmaxcom/smartpad/internal/ast"
	"github.com/nmaxcom/smartpad/internal/diagnostics"
	"github.com/nmaxcom/smartpad/internal/value"
)

// Equation is one parsed left = right pair handed in by the evaluator.
type Equation struct {
	Left  ast.Expression
	Right ast.Expression
}

// Result carries the solved value together with the rearranged form,
// which the trace and display layers both want.
type Result struct {
	Value      value.Value
	Rearranged string // e.g. "x = (11 - 1) / 2"
	Equation   string // the governing equation as used
}

// Solve isolates target among the given equations. Exactly one
// equation must reference the target; the others act as auxiliary
// assignments whose values substitute in as known constants. Known
// document variables substitute through the resolver the same way, so
// `solve a in b = a * 2` works when b already has a value.
func Solve(target string, eqs []Equation, res Resolver, line int) (*Result, *diagnostics.Error) {
	if len(eqs) == 0 {
		return nil, diagnostics.NewSemanticError("S020", line, "no equation to solve")
	}

	// Auxiliary bindings shadow the caller's resolver.
	aux := make(map[string]value.Value)
	resolve := func(name string) (value.Value, bool) {
		if v, ok := aux[name]; ok {
			return v, true
		}
		if res != nil {
			return res(name)
		}
		return nil, false
	}

	// First pass: classify equations and bind auxiliary constants.
	var governing *Equation
	count := 0
	for i := range eqs {
		l, err := Build(eqs[i].Left, target, resolve, line)
		if err != nil {
			return nil, err
		}
		r, err := Build(eqs[i].Right, target, resolve, line)
		if err != nil {
			return nil, err
		}
		if l.Count(target)+r.Count(target) > 0 {
			governing = &eqs[i]
			count++
			continue
		}
		bindAuxiliary(l, r, resolve, aux)
	}
	if count == 0 {
		return nil, diagnostics.NewSemanticError("S021", line,
			"no equation found for %s", target)
	}
	if count > 1 {
		return nil, diagnostics.NewSemanticError("S022", line,
			"multiple equations for %s", target)
	}

	// Second pass: rebuild the governing equation so the auxiliary
	// constants fold in as literals.
	lhs, err := Build(governing.Left, target, resolve, line)
	if err != nil {
		return nil, err
	}
	rhs, err := Build(governing.Right, target, resolve, line)
	if err != nil {
		return nil, err
	}
	lhs = Simplify(lhs)
	rhs = Simplify(rhs)

	// Put the side holding the target on the left.
	if lhs.Count(target) == 0 {
		lhs, rhs = rhs, lhs
	}

	equationText := lhs.String() + " = " + rhs.String()
	total := lhs.Count(target) + rhs.Count(target)
	var isolated Node
	if total > 1 {
		// Cross-multiplication covers the one supported multi-occurrence
		// form; anything else is out of reach without collecting terms.
		cm, ok := crossMultiply(lhs, rhs, target)
		if !ok {
			return nil, diagnostics.NewSemanticError("S023", line,
				"variable %s appears on both sides", target)
		}
		isolated = cm
	} else {
		var derr *diagnostics.Error
		isolated, derr = isolate(lhs, rhs, target, line)
		if derr != nil {
			return nil, derr
		}
	}

	isolated = Simplify(isolated)
	v := Eval(isolated, resolve)

	switch r := v.(type) {
	case *value.Error:
		if strings.Contains(r.Message, "no real") {
			v = value.SemanticErr("no real solution")
		}
	case *value.Symbol:
		// An identifier is still unknown: hand back the rearranged
		// symbolic form instead of an error.
		v = value.NewSymbol(isolated.String())
	}

	return &Result{
		Value:      v,
		Rearranged: target + " = " + isolated.String(),
		Equation:   equationText,
	}, nil
}

// bindAuxiliary treats a non-governing equation shaped like
// `name = expr` (either orientation) as a constant binding.
func bindAuxiliary(l, r Node, resolve Resolver, aux map[string]value.Value) {
	if v, ok := l.(*Variable); ok {
		if val := Eval(r, resolve); val.IsNumeric() {
			aux[v.Name] = val
		}
		return
	}
	if v, ok := r.(*Variable); ok {
		if val := Eval(l, resolve); val.IsNumeric() {
			aux[v.Name] = val
		}
	}
}
