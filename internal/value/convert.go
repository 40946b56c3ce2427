package value

import (
	"github.com/nmaxcom/smartpad/internal/units"
)

// Convert applies a trailing "to X" / "in X" suffix. The target may be a
// currency code or symbol, a plain unit, or a composite rate unit.
// Conversion attempts direct unit conversion first and falls back to
// per-unit rate conversion.
func Convert(v Value, target string) Value {
	if e, ok := v.(*Error); ok {
		return e
	}
	if s, ok := v.(*Symbol); ok {
		return NewSymbol(s.Name + " to " + target)
	}

	if code, ok := resolveCurrencyTarget(target); ok {
		return convertCurrency(v, code)
	}

	tu := units.Parse(target)
	if tu == nil {
		return SemanticErr("unknown unit %q", target)
	}

	switch x := v.(type) {
	case *Quantity:
		if units.Compatible(x.Unit, tu) {
			return NewQuantity(x.Val*units.ConversionFactor(x.Unit, tu), tu)
		}
		if r := perUnitConvert(x, tu); r != nil {
			return r
		}
		return SemanticErr("cannot convert %s to %s", x.Unit.String(), tu.String())
	case *Number:
		// A bare number adopts the unit: 5 to km -> 5 km.
		return NewQuantity(x.Val, tu)
	case *Duration:
		sec := units.Simple(secondsUnit())
		if units.Compatible(sec, tu) {
			return NewQuantity(x.Seconds*units.ConversionFactor(sec, tu), tu)
		}
		return SemanticErr("cannot convert a duration to %s", tu.String())
	case *Currency:
		// Re-denominate a per-unit rate: $0.12/kWh to Wh.
		if !x.Per.IsEmpty() && units.Compatible(x.Per, tu) {
			return &Currency{
				Amount: x.Amount * units.ConversionFactor(tu, x.Per),
				Code:   x.Code,
				Per:    tu,
			}
		}
		return SemanticErr("cannot convert %s to %s", x.Code, tu.String())
	case *List:
		items := make([]Value, len(x.Items))
		for i, it := range x.Items {
			items[i] = Convert(it, target)
			if e, ok := items[i].(*Error); ok {
				return e
			}
		}
		return NewList(items)
	}
	return SemanticErr("cannot convert %s to %s", kindName(v), target)
}

// perUnitConvert converts a quantity into a rate unit by treating the
// source as "per one denominator unit": 100 km to km/h = 100 km/h. It
// converts the source into the target's numerator unit and divides by a
// denominator quantity of magnitude one. Returns nil (no error) when the
// source is not compatible with the numerator, so callers can try other
// interpretations first.
func perUnitConvert(q *Quantity, target *units.Composite) Value {
	num, den, ok := target.SplitRate()
	if !ok {
		return nil
	}
	if !units.Compatible(q.Unit, num) {
		return nil
	}
	inNum := q.Val * units.ConversionFactor(q.Unit, num)
	// Dividing by one denominator unit leaves the magnitude unchanged and
	// appends the denominator to the label.
	_ = den
	return NewQuantity(inNum, target)
}

func convertCurrency(v Value, code string) Value {
	switch x := v.(type) {
	case *Currency:
		rate, ok := CurrencyRate(x.Code, code)
		if !ok {
			return SemanticErr("unknown currency conversion %s to %s", x.Code, code)
		}
		return &Currency{Amount: x.Amount * rate, Code: code, Per: x.Per}
	case *Number:
		// A bare number adopts the currency: 100 to USD -> $100.
		return NewCurrency(x.Val, code)
	}
	return SemanticErr("cannot convert %s to %s", kindName(v), code)
}

func resolveCurrencyTarget(target string) (string, bool) {
	if IsCurrencyCode(target) {
		return target, true
	}
	if code, ok := CodeForSymbol(target); ok {
		return code, true
	}
	switch target {
	case "dollars", "dollar":
		return "USD", true
	case "euros", "euro":
		return "EUR", true
	case "pounds_sterling":
		return "GBP", true
	}
	return "", false
}

func secondsUnit() *units.Unit {
	return units.Lookup("s")
}
