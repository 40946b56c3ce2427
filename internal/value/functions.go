package value

import (
	"math"

	"github.com/nmaxcom/smartpad/internal/config"
)

// Constant looks up a built-in named constant.
func Constant(name string) (Value, bool) {
	switch name {
	case config.PiConstName:
		return NewNumber(math.Pi), true
	case config.EConstName:
		return NewNumber(math.E), true
	}
	return nil, false
}

// IsBuiltinFunc reports whether name is a built-in function.
func IsBuiltinFunc(name string) bool {
	switch name {
	case config.SqrtFuncName, config.ExpFuncName, config.LogFuncName,
		config.Log10FuncName, config.SumFuncName, config.TotalFuncName,
		config.AvgFuncName, config.AvgLongName,
		"ln", "sin", "cos", "tan", "asin", "acos", "atan",
		"abs", "round", "floor", "ceil", "min", "max":
		return true
	}
	return false
}

// CallBuiltin applies a built-in function. The second return is false
// when name is not a built-in; argument problems come back as Error
// values so they flow through arithmetic like any other error.
func CallBuiltin(name string, args []Value) (Value, bool) {
	if !IsBuiltinFunc(name) {
		return nil, false
	}
	if e := firstError(args...); e != nil {
		return e, true
	}
	if anySymbol(args...) {
		return NewSymbol(name + "(...)"), true
	}

	switch name {
	case config.SumFuncName, config.TotalFuncName:
		return reduce(name, args, func(acc, v Value) Value { return Add(acc, v) }), true
	case config.AvgFuncName, config.AvgLongName:
		sum := reduce(name, args, func(acc, v Value) Value { return Add(acc, v) })
		n := len(args)
		if l, ok := args[0].(*List); ok && n == 1 {
			n = len(l.Items)
		}
		if n == 0 {
			return SemanticErr("%s needs at least one value", name), true
		}
		return Div(sum, NewNumber(float64(n))), true
	case "min", "max":
		return extremum(name, args), true
	}

	if len(args) != 1 {
		return SemanticErr("%s takes one argument", name), true
	}
	arg := args[0]
	if l, ok := arg.(*List); ok {
		out := make([]Value, len(l.Items))
		for i, it := range l.Items {
			r, _ := CallBuiltin(name, []Value{it})
			if e, isErr := r.(*Error); isErr {
				return e, true
			}
			out[i] = r
		}
		return NewList(out), true
	}
	f, ok := arg.Float()
	if !ok {
		return SemanticErr("%s is not defined for %s values", name, arg.Kind()), true
	}

	switch name {
	case config.SqrtFuncName:
		if f < 0 {
			return SemanticErr("no real result for sqrt of a negative number"), true
		}
		return shaped(arg, math.Sqrt(f)), true
	case config.ExpFuncName:
		return NewNumber(math.Exp(f)), true
	case config.LogFuncName, "ln":
		if f <= 0 {
			return SemanticErr("%s is undefined for non-positive values", name), true
		}
		return NewNumber(math.Log(f)), true
	case config.Log10FuncName:
		if f <= 0 {
			return SemanticErr("log10 is undefined for non-positive values"), true
		}
		return NewNumber(math.Log10(f)), true
	case "sin":
		return NewNumber(math.Sin(f)), true
	case "cos":
		return NewNumber(math.Cos(f)), true
	case "tan":
		return NewNumber(math.Tan(f)), true
	case "asin":
		if f < -1 || f > 1 {
			return SemanticErr("asin is undefined outside [-1, 1]"), true
		}
		return NewNumber(math.Asin(f)), true
	case "acos":
		if f < -1 || f > 1 {
			return SemanticErr("acos is undefined outside [-1, 1]"), true
		}
		return NewNumber(math.Acos(f)), true
	case "atan":
		return NewNumber(math.Atan(f)), true
	case "abs":
		return shaped(arg, math.Abs(f)), true
	case "round":
		return shaped(arg, math.Round(f)), true
	case "floor":
		return shaped(arg, math.Floor(f)), true
	case "ceil":
		return shaped(arg, math.Ceil(f)), true
	}
	return nil, false
}

// shaped keeps the operand's kind where the function preserves the
// dimension: abs(3 km) is still kilometres.
func shaped(arg Value, f float64) Value {
	switch a := arg.(type) {
	case *Quantity:
		return NewQuantity(f, a.Unit)
	case *Currency:
		return &Currency{Amount: f, Code: a.Code, Per: a.Per}
	case *Percent:
		return NewPercent(f * 100)
	default:
		return NewNumber(f)
	}
}

// reduce folds the arguments (or a single list argument) with op.
func reduce(name string, args []Value, op func(acc, v Value) Value) Value {
	items := args
	if len(args) == 1 {
		if l, ok := args[0].(*List); ok {
			items = l.Items
		}
	}
	if len(items) == 0 {
		return SemanticErr("%s needs at least one value", name)
	}
	acc := items[0]
	for _, v := range items[1:] {
		acc = op(acc, v)
		if _, isErr := acc.(*Error); isErr {
			return acc
		}
	}
	return acc
}

func extremum(name string, args []Value) Value {
	items := args
	if len(args) == 1 {
		if l, ok := args[0].(*List); ok {
			items = l.Items
		}
	}
	if len(items) == 0 {
		return SemanticErr("%s needs at least one value", name)
	}
	best := items[0]
	bf, ok := best.Float()
	if !ok {
		return SemanticErr("%s is not defined for %s values", name, best.Kind())
	}
	for _, v := range items[1:] {
		f, ok := v.Float()
		if !ok {
			return SemanticErr("%s is not defined for %s values", name, v.Kind())
		}
		if (name == "min" && f < bf) || (name == "max" && f > bf) {
			best, bf = v, f
		}
	}
	return best
}
