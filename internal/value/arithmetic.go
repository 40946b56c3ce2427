package value

import (
	"math"
	"time"

	"github.com/nmaxcom/smartpad/internal/units"
)

// Binary arithmetic over semantic values. Dispatch is a closed kind-pair
// switch: Error short-circuits first, Symbolic propagates instead of
// failing, lists apply element-wise, and everything unhandled is an
// explicit semantic error.

func Add(a, b Value) Value {
	if e := firstError(a, b); e != nil {
		return e
	}
	if v, ok := listwise(Add, a, b); ok {
		return v
	}
	if anySymbol(a, b) {
		return symbolic("+", a, b)
	}

	switch x := a.(type) {
	case *Number:
		switch y := b.(type) {
		case *Number:
			return NewNumber(x.Val + y.Val)
		case *Percent:
			return PercentOn(y, x)
		case *Currency:
			return &Currency{Amount: x.Val + y.Amount, Code: y.Code, Per: y.Per}
		case *Quantity:
			return NewQuantity(x.Val+y.Val, y.Unit)
		}
	case *Percent:
		switch y := b.(type) {
		case *Percent:
			return NewPercent(x.Val + y.Val)
		case *Number:
			return NewNumber(x.Fraction() + y.Val)
		}
	case *Currency:
		switch y := b.(type) {
		case *Currency:
			if x.Code != y.Code {
				return SemanticErr("cannot add %s and %s", x.Code, y.Code)
			}
			if x.Per.String() != y.Per.String() {
				return SemanticErr("cannot add %s and %s rates", x.Display(nil), y.Display(nil))
			}
			return &Currency{Amount: x.Amount + y.Amount, Code: x.Code, Per: x.Per}
		case *Number:
			return &Currency{Amount: x.Amount + y.Val, Code: x.Code, Per: x.Per}
		case *Percent:
			return PercentOn(y, x)
		}
	case *Quantity:
		switch y := b.(type) {
		case *Quantity:
			if !units.Compatible(x.Unit, y.Unit) {
				return SemanticErr("cannot add %s and %s", x.Unit.String(), y.Unit.String())
			}
			return NewQuantity((x.baseVal()+y.baseVal())/x.Unit.BaseFactor(), x.Unit)
		case *Number:
			return NewQuantity(x.Val+y.Val, x.Unit)
		case *Percent:
			return PercentOn(y, x)
		}
	case *Date:
		switch y := b.(type) {
		case *Duration:
			return NewDate(addSeconds(x.Time, y.Seconds))
		case *Quantity:
			if sec, ok := timeSeconds(y); ok {
				return NewDate(addSeconds(x.Time, sec))
			}
			return SemanticErr("cannot add %s to a date", y.Unit.String())
		case *Date:
			return SemanticErr("cannot add two dates")
		}
	case *Duration:
		switch y := b.(type) {
		case *Duration:
			return NewDuration(x.Seconds + y.Seconds)
		case *Date:
			return NewDate(addSeconds(y.Time, x.Seconds))
		case *Quantity:
			if sec, ok := timeSeconds(y); ok {
				return NewDuration(x.Seconds + sec)
			}
		case *Number:
			return NewDuration(x.Seconds + y.Val)
		}
	}
	return opError("add", a, b)
}

func Sub(a, b Value) Value {
	if e := firstError(a, b); e != nil {
		return e
	}
	if v, ok := listwise(Sub, a, b); ok {
		return v
	}
	if anySymbol(a, b) {
		return symbolic("-", a, b)
	}

	switch x := a.(type) {
	case *Number:
		switch y := b.(type) {
		case *Number:
			return NewNumber(x.Val - y.Val)
		case *Percent:
			return PercentOff(y, x)
		case *Currency:
			return &Currency{Amount: x.Val - y.Amount, Code: y.Code, Per: y.Per}
		case *Quantity:
			return NewQuantity(x.Val-y.Val, y.Unit)
		}
	case *Percent:
		switch y := b.(type) {
		case *Percent:
			return NewPercent(x.Val - y.Val)
		case *Number:
			return NewNumber(x.Fraction() - y.Val)
		}
	case *Currency:
		switch y := b.(type) {
		case *Currency:
			if x.Code != y.Code {
				return SemanticErr("cannot subtract %s and %s", x.Code, y.Code)
			}
			if x.Per.String() != y.Per.String() {
				return SemanticErr("cannot subtract %s and %s rates", x.Display(nil), y.Display(nil))
			}
			return &Currency{Amount: x.Amount - y.Amount, Code: x.Code, Per: x.Per}
		case *Number:
			return &Currency{Amount: x.Amount - y.Val, Code: x.Code, Per: x.Per}
		case *Percent:
			return PercentOff(y, x)
		}
	case *Quantity:
		switch y := b.(type) {
		case *Quantity:
			if !units.Compatible(x.Unit, y.Unit) {
				return SemanticErr("cannot subtract %s and %s", x.Unit.String(), y.Unit.String())
			}
			return NewQuantity((x.baseVal()-y.baseVal())/x.Unit.BaseFactor(), x.Unit)
		case *Number:
			return NewQuantity(x.Val-y.Val, x.Unit)
		case *Percent:
			return PercentOff(y, x)
		}
	case *Date:
		switch y := b.(type) {
		case *Date:
			return NewDuration(x.Time.Sub(y.Time).Seconds())
		case *Duration:
			return NewDate(addSeconds(x.Time, -y.Seconds))
		case *Quantity:
			if sec, ok := timeSeconds(y); ok {
				return NewDate(addSeconds(x.Time, -sec))
			}
			return SemanticErr("cannot subtract %s from a date", y.Unit.String())
		}
	case *Duration:
		switch y := b.(type) {
		case *Duration:
			return NewDuration(x.Seconds - y.Seconds)
		case *Quantity:
			if sec, ok := timeSeconds(y); ok {
				return NewDuration(x.Seconds - sec)
			}
		case *Number:
			return NewDuration(x.Seconds - y.Val)
		}
	}
	return opError("subtract", a, b)
}

func Mul(a, b Value) Value {
	if e := firstError(a, b); e != nil {
		return e
	}
	if v, ok := listwise(Mul, a, b); ok {
		return v
	}
	if anySymbol(a, b) {
		return symbolic("*", a, b)
	}

	// "P% of X" distributes over every other numeric kind.
	if p, ok := a.(*Percent); ok {
		if _, isP := b.(*Percent); !isP {
			return PercentOf(p, b)
		}
	}
	if p, ok := b.(*Percent); ok {
		if _, isP := a.(*Percent); !isP {
			return PercentOf(p, a)
		}
	}

	switch x := a.(type) {
	case *Number:
		switch y := b.(type) {
		case *Number:
			return NewNumber(x.Val * y.Val)
		case *Currency:
			return &Currency{Amount: x.Val * y.Amount, Code: y.Code, Per: y.Per}
		case *Quantity:
			return NewQuantity(x.Val*y.Val, y.Unit)
		case *Duration:
			return NewDuration(x.Val * y.Seconds)
		}
	case *Percent:
		if y, ok := b.(*Percent); ok {
			return NewPercent(x.Val * y.Fraction())
		}
	case *Currency:
		switch y := b.(type) {
		case *Number:
			return &Currency{Amount: x.Amount * y.Val, Code: x.Code, Per: x.Per}
		case *Quantity:
			// A per-unit rate times a matching quantity settles the rate:
			// $0.12/kWh * 500 kWh = $60.
			if !x.Per.IsEmpty() && units.Compatible(x.Per, y.Unit) {
				qty := y.Val * units.ConversionFactor(y.Unit, x.Per)
				return NewCurrency(x.Amount*qty, x.Code)
			}
			return SemanticErr("cannot multiply %s by %s", x.Code, y.Unit.String())
		case *Currency:
			return SemanticErr("cannot multiply two currency amounts")
		}
	case *Quantity:
		switch y := b.(type) {
		case *Number:
			return NewQuantity(x.Val*y.Val, x.Unit)
		case *Quantity:
			ay := alignQuantity(y, x.Unit)
			return NewQuantity(x.Val*ay.Val, units.Mul(x.Unit, ay.Unit))
		case *Currency:
			return Mul(y, x)
		}
	case *Duration:
		if y, ok := b.(*Number); ok {
			return NewDuration(x.Seconds * y.Val)
		}
	}
	return opError("multiply", a, b)
}

func Div(a, b Value) Value {
	if e := firstError(a, b); e != nil {
		return e
	}
	if v, ok := listwise(Div, a, b); ok {
		return v
	}
	if anySymbol(a, b) {
		return symbolic("/", a, b)
	}
	if f, ok := b.Float(); ok && f == 0 && b.Kind() != DATE {
		return SemanticErr("division by zero")
	}

	switch x := a.(type) {
	case *Number:
		switch y := b.(type) {
		case *Number:
			return NewNumber(x.Val / y.Val)
		case *Percent:
			return NewNumber(x.Val / y.Fraction())
		case *Quantity:
			return NewQuantity(x.Val/y.Val, units.Div(nil, y.Unit))
		}
	case *Percent:
		switch y := b.(type) {
		case *Number:
			return NewNumber(x.Fraction() / y.Val)
		case *Percent:
			return NewNumber(x.Val / y.Val)
		}
	case *Currency:
		switch y := b.(type) {
		case *Number:
			return &Currency{Amount: x.Amount / y.Val, Code: x.Code, Per: x.Per}
		case *Percent:
			return &Currency{Amount: x.Amount / y.Fraction(), Code: x.Code, Per: x.Per}
		case *Currency:
			if x.Code != y.Code {
				return SemanticErr("cannot divide %s by %s", x.Code, y.Code)
			}
			return NewNumber(x.Amount / y.Amount)
		case *Quantity:
			// Currency over a quantity synthesizes a per-unit rate:
			// $60 / 500 kWh = $0.12/kWh.
			if !x.Per.IsEmpty() {
				return SemanticErr("cannot divide a %s rate by %s", x.Code, y.Unit.String())
			}
			return &Currency{Amount: x.Amount / y.Val, Code: x.Code, Per: y.Unit}
		}
	case *Quantity:
		switch y := b.(type) {
		case *Number:
			return NewQuantity(x.Val/y.Val, x.Unit)
		case *Percent:
			return NewQuantity(x.Val/y.Fraction(), x.Unit)
		case *Quantity:
			ay := alignQuantity(y, x.Unit)
			u := units.Div(x.Unit, ay.Unit)
			if u.IsEmpty() {
				return NewNumber(x.Val / ay.Val)
			}
			return NewQuantity(x.Val/ay.Val, u)
		}
	case *Duration:
		switch y := b.(type) {
		case *Duration:
			return NewNumber(x.Seconds / y.Seconds)
		case *Number:
			return NewDuration(x.Seconds / y.Val)
		case *Quantity:
			if sec, ok := timeSeconds(y); ok {
				return NewNumber(x.Seconds / sec)
			}
		}
	}
	return opError("divide", a, b)
}

func Power(a, b Value) Value {
	if e := firstError(a, b); e != nil {
		return e
	}
	if v, ok := listwise(Power, a, b); ok {
		return v
	}
	if anySymbol(a, b) {
		return symbolic("^", a, b)
	}

	exp, ok := b.(*Number)
	if !ok {
		return opError("raise", a, b)
	}
	switch x := a.(type) {
	case *Number:
		r := math.Pow(x.Val, exp.Val)
		if math.IsNaN(r) {
			return SemanticErr("no real result for %v ^ %v", x.Val, exp.Val)
		}
		return NewNumber(r)
	case *Percent:
		return NewNumber(math.Pow(x.Fraction(), exp.Val))
	case *Quantity:
		if exp.Val == math.Trunc(exp.Val) {
			n := int(exp.Val)
			return NewQuantity(math.Pow(x.Val, exp.Val), units.Pow(x.Unit, n))
		}
		return SemanticErr("cannot raise %s to a fractional power", x.Unit.String())
	}
	return opError("raise", a, b)
}

// Negate flips the sign of a numeric value.
func Negate(a Value) Value {
	switch x := a.(type) {
	case *Error:
		return x
	case *Number:
		return NewNumber(-x.Val)
	case *Percent:
		return NewPercent(-x.Val)
	case *Currency:
		return &Currency{Amount: -x.Amount, Code: x.Code, Per: x.Per}
	case *Quantity:
		return NewQuantity(-x.Val, x.Unit)
	case *Duration:
		return NewDuration(-x.Seconds)
	case *Symbol:
		return NewSymbol("-" + x.Name)
	case *List:
		items := make([]Value, len(x.Items))
		for i, it := range x.Items {
			items[i] = Negate(it)
		}
		return NewList(items)
	}
	return SemanticErr("cannot negate %s", string(a.Kind()))
}

// listwise applies op element-wise when either operand is a list,
// broadcasting a scalar over the other side. ok=false when neither side
// is a list.
func listwise(op func(Value, Value) Value, a, b Value) (Value, bool) {
	la, aIsList := a.(*List)
	lb, bIsList := b.(*List)
	switch {
	case aIsList && bIsList:
		if len(la.Items) != len(lb.Items) {
			return SemanticErr("list length mismatch: %d vs %d", len(la.Items), len(lb.Items)), true
		}
		items := make([]Value, len(la.Items))
		for i := range la.Items {
			items[i] = op(la.Items[i], lb.Items[i])
			if e, ok := items[i].(*Error); ok {
				return e, true
			}
		}
		return NewList(items), true
	case aIsList:
		items := make([]Value, len(la.Items))
		for i := range la.Items {
			items[i] = op(la.Items[i], b)
			if e, ok := items[i].(*Error); ok {
				return e, true
			}
		}
		return NewList(items), true
	case bIsList:
		items := make([]Value, len(lb.Items))
		for i := range lb.Items {
			items[i] = op(a, lb.Items[i])
			if e, ok := items[i].(*Error); ok {
				return e, true
			}
		}
		return NewList(items), true
	}
	return nil, false
}

// alignQuantity converts q's unit factors to the units used by ref for
// the same category, so 2 m * 3 km multiplies as meters, not as a mixed
// m*km label.
func alignQuantity(q *Quantity, ref *units.Composite) *Quantity {
	if ref.IsEmpty() || q.Unit.IsEmpty() {
		return q
	}
	byCat := make(map[units.Category]*units.Unit)
	for _, f := range ref.Factors {
		byCat[f.Unit.Category] = f.Unit
	}
	val := q.Val
	out := &units.Composite{}
	changed := false
	for _, f := range q.Unit.Factors {
		if t, ok := byCat[f.Unit.Category]; ok && t != f.Unit {
			val *= math.Pow(f.Unit.Factor/t.Factor, float64(f.Pow))
			out.Factors = append(out.Factors, units.Factor{Unit: t, Pow: f.Pow})
			changed = true
		} else {
			out.Factors = append(out.Factors, f)
		}
	}
	if !changed {
		return q
	}
	return &Quantity{Val: val, Unit: units.Mul(out, nil)}
}

// timeSeconds converts a pure time quantity to seconds.
func timeSeconds(q *Quantity) (float64, bool) {
	dims := q.Unit.Dimensions()
	if len(dims) != 1 || dims[units.Time] != 1 {
		return 0, false
	}
	return q.baseVal(), true
}

func addSeconds(t time.Time, sec float64) time.Time {
	return t.Add(time.Duration(sec * float64(time.Second)))
}

func opError(verb string, a, b Value) *Error {
	return SemanticErr("cannot %s %s and %s", verb, kindName(a), kindName(b))
}

func kindName(v Value) string {
	switch x := v.(type) {
	case *Quantity:
		return x.Unit.String()
	case *Currency:
		return x.Code
	default:
		return string(v.Kind())
	}
}
