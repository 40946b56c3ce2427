package value

import "github.com/nmaxcom/smartpad/internal/units"

// Percentage phrase semantics: "P% of X" scales, "P% on X" increases,
// "P% off X" decreases. The scaled value keeps X's kind.

func PercentOf(p *Percent, x Value) Value {
	return scale(x, p.Fraction())
}

func PercentOn(p *Percent, x Value) Value {
	return scale(x, 1+p.Fraction())
}

func PercentOff(p *Percent, x Value) Value {
	return scale(x, 1-p.Fraction())
}

func scale(x Value, factor float64) Value {
	switch v := x.(type) {
	case *Error:
		return v
	case *Symbol:
		return NewSymbol(v.Name)
	case *Number:
		return NewNumber(v.Val * factor)
	case *Percent:
		return NewPercent(v.Val * factor)
	case *Currency:
		return &Currency{Amount: v.Amount * factor, Code: v.Code, Per: v.Per}
	case *Quantity:
		return NewQuantity(v.Val*factor, v.Unit)
	case *Duration:
		return NewDuration(v.Seconds * factor)
	case *List:
		items := make([]Value, len(v.Items))
		for i, it := range v.Items {
			items[i] = scale(it, factor)
		}
		return NewList(items)
	}
	return SemanticErr("cannot apply a percentage to %s", kindName(x))
}

// AsPercent reinterprets a plain number as a percentage: 0.2 as % -> 20%.
func AsPercent(x Value) Value {
	switch v := x.(type) {
	case *Error:
		return v
	case *Symbol:
		return v
	case *Number:
		return NewPercent(v.Val * 100)
	case *Percent:
		return v
	}
	return SemanticErr("cannot express %s as a percentage", kindName(x))
}

// WhatPercent answers "A is what % of B".
func WhatPercent(a, b Value) Value {
	if e := firstError(a, b); e != nil {
		return e
	}
	if anySymbol(a, b) {
		return symbolic("is what % of", a, b)
	}
	// Compatible quantities compare in base units.
	if qa, ok := a.(*Quantity); ok {
		if qb, ok := b.(*Quantity); ok {
			if !units.Compatible(qa.Unit, qb.Unit) {
				return SemanticErr("cannot compare %s and %s", qa.Unit.String(), qb.Unit.String())
			}
			if qb.baseVal() == 0 {
				return SemanticErr("division by zero")
			}
			return NewPercent(qa.baseVal() / qb.baseVal() * 100)
		}
	}
	fa, okA := a.Float()
	fb, okB := b.Float()
	if !okA || !okB {
		return SemanticErr("cannot compare %s and %s", kindName(a), kindName(b))
	}
	if fb == 0 {
		return SemanticErr("division by zero")
	}
	return NewPercent(fa / fb * 100)
}
