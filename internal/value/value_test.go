package value

import (
	"math"
	"testing"
	"time"

	"github.com/nmaxcom/smartpad/internal/config"
	"github.com/nmaxcom/smartpad/internal/units"
)

var s = config.DefaultSettings()

func num(v float64) *Number { return NewNumber(v) }

func qty(v float64, unit string) *Quantity {
	return NewQuantity(v, units.Parse(unit))
}

func approx(t *testing.T, got Value, want float64) {
	t.Helper()
	f, ok := got.Float()
	if !ok {
		t.Fatalf("value %v is not numeric", got)
	}
	if math.Abs(f-want) > 1e-9 {
		t.Fatalf("got %v, want %v", f, want)
	}
}

func TestNumberArithmetic(t *testing.T) {
	approx(t, Add(num(2), num(3)), 5)
	approx(t, Sub(num(10), num(4)), 6)
	approx(t, Mul(num(6), num(7)), 42)
	approx(t, Div(num(10), num(4)), 2.5)
	approx(t, Power(num(2), num(10)), 1024)
}

func TestPercentSemantics(t *testing.T) {
	// 20% of 100 = 20
	approx(t, PercentOf(NewPercent(20), num(100)), 20)
	// 100 + 20% = 120
	approx(t, Add(num(100), NewPercent(20)), 120)
	// 100 - 20% = 80
	approx(t, Sub(num(100), NewPercent(20)), 80)
	// 0.2 as % = 20%
	p := AsPercent(num(0.2))
	if p.Kind() != PERCENT {
		t.Fatalf("AsPercent kind = %s, want PERCENT", p.Kind())
	}
	if got := p.Display(s); got != "20%" {
		t.Errorf("AsPercent(0.2).Display() = %q, want %q", got, "20%")
	}
	// 30 is what % of 120 = 25%
	wp := WhatPercent(num(30), num(120))
	if got := wp.Display(s); got != "25%" {
		t.Errorf("WhatPercent = %q, want %q", got, "25%")
	}
}

func TestPercentKeepsOperandKind(t *testing.T) {
	v := PercentOf(NewPercent(50), qty(10, "km"))
	q, ok := v.(*Quantity)
	if !ok {
		t.Fatalf("50%% of 10 km = %T, want Quantity", v)
	}
	if q.Val != 5 || q.Unit.String() != "km" {
		t.Errorf("50%% of 10 km = %v %s, want 5 km", q.Val, q.Unit.String())
	}

	c := PercentOn(NewPercent(20), NewCurrency(100, "USD"))
	cur, ok := c.(*Currency)
	if !ok {
		t.Fatalf("20%% on $100 = %T, want Currency", c)
	}
	if cur.Amount != 120 || cur.Code != "USD" {
		t.Errorf("20%% on $100 = %v %s, want 120 USD", cur.Amount, cur.Code)
	}
}

func TestQuantityArithmetic(t *testing.T) {
	// 1 km + 500 m = 1.5 km
	v := Add(qty(1, "km"), qty(500, "m"))
	q, ok := v.(*Quantity)
	if !ok {
		t.Fatalf("1 km + 500 m = %T (%v)", v, v)
	}
	if math.Abs(q.Val-1.5) > 1e-9 || q.Unit.String() != "km" {
		t.Errorf("1 km + 500 m = %v %s, want 1.5 km", q.Val, q.Unit.String())
	}

	// meters + seconds is a unit mismatch
	if e, ok := Add(qty(1, "m"), qty(1, "s")).(*Error); !ok {
		t.Error("m + s did not error")
	} else if e.Category != "semantic" {
		t.Errorf("m + s category = %s, want semantic", e.Category)
	}

	// unitless side carries the unit through
	v = Add(qty(3, "m"), num(2))
	if q, ok := v.(*Quantity); !ok || q.Val != 5 || q.Unit.String() != "m" {
		t.Errorf("3 m + 2 = %v, want 5 m", v)
	}
}

func TestDivisionSynthesizesRate(t *testing.T) {
	v := Div(qty(100, "km"), qty(2, "h"))
	q, ok := v.(*Quantity)
	if !ok {
		t.Fatalf("100 km / 2 h = %T (%v)", v, v)
	}
	if q.Val != 50 || q.Unit.String() != "km/h" {
		t.Errorf("100 km / 2 h = %v %s, want 50 km/h", q.Val, q.Unit.String())
	}

	// Dividing by an incompatible quantity yields a composite or an error,
	// never a silently wrong label.
	v = Div(qty(10, "m"), qty(2, "s^2"))
	switch r := v.(type) {
	case *Quantity:
		if r.Unit.String() != "m/s^2" {
			t.Errorf("m / s^2 label = %q", r.Unit.String())
		}
	case *Error:
		// acceptable per the contract
	default:
		t.Errorf("m / s^2 = %T", v)
	}
}

func TestQuantityCancellation(t *testing.T) {
	v := Div(qty(10, "km"), qty(5, "km"))
	if n, ok := v.(*Number); !ok || n.Val != 2 {
		t.Errorf("10 km / 5 km = %v, want Number(2)", v)
	}
	// Mixed units align before cancelling: 1 km / 500 m = 2.
	v = Div(qty(1, "km"), qty(500, "m"))
	if n, ok := v.(*Number); !ok || math.Abs(n.Val-2) > 1e-9 {
		t.Errorf("1 km / 500 m = %v, want Number(2)", v)
	}
}

func TestCurrencyArithmetic(t *testing.T) {
	v := Add(NewCurrency(100, "USD"), NewCurrency(20, "USD"))
	if c, ok := v.(*Currency); !ok || c.Amount != 120 {
		t.Errorf("$100 + $20 = %v, want $120", v)
	}
	if _, ok := Add(NewCurrency(5, "EUR"), NewCurrency(5, "USD")).(*Error); !ok {
		t.Error("EUR + USD did not error")
	}
	// Unitless side carries the currency through.
	v = Mul(NewCurrency(100, "USD"), num(3))
	if c, ok := v.(*Currency); !ok || c.Amount != 300 || c.Code != "USD" {
		t.Errorf("$100 * 3 = %v, want $300", v)
	}
}

func TestCurrencyPerUnitRate(t *testing.T) {
	rate := Div(NewCurrency(60, "USD"), qty(500, "kWh"))
	c, ok := rate.(*Currency)
	if !ok {
		t.Fatalf("$60 / 500 kWh = %T (%v)", rate, rate)
	}
	if math.Abs(c.Amount-0.12) > 1e-9 || c.Per.String() != "kWh" {
		t.Errorf("$60 / 500 kWh = %v per %s, want 0.12 per kWh", c.Amount, c.Per.String())
	}
	// Rate times quantity settles back to a plain amount.
	total := Mul(c, qty(1000, "kWh"))
	if tc, ok := total.(*Currency); !ok || math.Abs(tc.Amount-120) > 1e-9 || !tc.Per.IsEmpty() {
		t.Errorf("rate * 1000 kWh = %v, want $120", total)
	}
}

func TestErrorShortCircuits(t *testing.T) {
	first := SemanticErr("first")
	second := SemanticErr("second")
	got := Add(first, second)
	if got != Value(first) {
		t.Errorf("Add(err, err) = %v, want the first error", got)
	}
	got = Mul(num(2), first)
	if got != Value(first) {
		t.Errorf("Mul(2, err) = %v, want the error", got)
	}
}

func TestSymbolicPropagates(t *testing.T) {
	v := Add(NewSymbol("x"), num(1))
	if v.Kind() != SYMBOL {
		t.Fatalf("x + 1 kind = %s, want SYMBOL", v.Kind())
	}
	// Even an operation that would otherwise error stays symbolic.
	v = Add(NewSymbol("x"), qty(1, "m"))
	if v.Kind() != SYMBOL {
		t.Errorf("x + 1 m kind = %s, want SYMBOL", v.Kind())
	}
}

func TestListElementwise(t *testing.T) {
	l := NewList([]Value{num(1), num(2), num(3)})
	v := Mul(l, num(2))
	got, ok := v.(*List)
	if !ok {
		t.Fatalf("[1,2,3] * 2 = %T", v)
	}
	for i, want := range []float64{2, 4, 6} {
		approx(t, got.Items[i], want)
	}
	if _, ok := Add(l, NewList([]Value{num(1)})).(*Error); !ok {
		t.Error("length mismatch did not error")
	}
}

func TestDateMath(t *testing.T) {
	d := NewDate(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	v := Add(d, qty(3, "d"))
	nd, ok := v.(*Date)
	if !ok {
		t.Fatalf("date + 3 d = %T (%v)", v, v)
	}
	if got := nd.Display(s); got != "2024-01-18" {
		t.Errorf("date + 3 d = %q, want 2024-01-18", got)
	}

	d2 := NewDate(time.Date(2024, 1, 18, 0, 0, 0, 0, time.UTC))
	dur := Sub(d2, d)
	if du, ok := dur.(*Duration); !ok || du.Seconds != 3*86400 {
		t.Errorf("date - date = %v, want 3 days", dur)
	}
	if _, ok := Add(d, d2).(*Error); !ok {
		t.Error("date + date did not error")
	}
}

func TestUnitConversionRoundTrip(t *testing.T) {
	orig := qty(123.456, "km")
	there := Convert(orig, "mi")
	back := Convert(there, "km")
	q, ok := back.(*Quantity)
	if !ok {
		t.Fatalf("round trip = %T (%v)", back, back)
	}
	if math.Abs(q.Val-123.456) > 1e-9 {
		t.Errorf("km->mi->km = %v, want 123.456", q.Val)
	}
}

func TestConvertCurrencyAndRates(t *testing.T) {
	v := Convert(NewCurrency(100, "USD"), "EUR")
	c, ok := v.(*Currency)
	if !ok || c.Code != "EUR" {
		t.Fatalf("$100 to EUR = %v", v)
	}
	// Per-unit re-denomination: $0.12/kWh to Wh.
	rate := &Currency{Amount: 0.12, Code: "USD", Per: units.Parse("kWh")}
	v = Convert(rate, "Wh")
	c, ok = v.(*Currency)
	if !ok {
		t.Fatalf("rate to Wh = %T (%v)", v, v)
	}
	if math.Abs(c.Amount-0.00012) > 1e-12 || c.Per.String() != "Wh" {
		t.Errorf("rate to Wh = %v per %s, want 0.00012 per Wh", c.Amount, c.Per.String())
	}
}

func TestPerUnitConversionFallback(t *testing.T) {
	// 100 km to km/h: direct conversion is incompatible, the per-unit
	// fallback treats the source as per one hour.
	v := Convert(qty(100, "km"), "km/h")
	q, ok := v.(*Quantity)
	if !ok {
		t.Fatalf("100 km to km/h = %T (%v)", v, v)
	}
	if q.Val != 100 || q.Unit.String() != "km/h" {
		t.Errorf("100 km to km/h = %v %s", q.Val, q.Unit.String())
	}
	// Incompatible numerator fails with an error, not a panic.
	if _, ok := Convert(qty(100, "kg"), "km/h").(*Error); !ok {
		t.Error("kg to km/h did not error")
	}
}

func TestDisplayFormatting(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{num(20), "20"},
		{num(2.5), "2.5"},
		{NewPercent(20), "20%"},
		{NewCurrency(120, "USD"), "$120.00"},
		{qty(50, "km/h"), "50 km/h"},
		{NewDuration(3 * 86400), "3 days"},
	}
	for _, tt := range tests {
		if got := tt.v.Display(s); got != tt.want {
			t.Errorf("Display = %q, want %q", got, tt.want)
		}
	}
}

func TestThousandsGrouping(t *testing.T) {
	grouped := config.DefaultSettings()
	grouped.ThousandsSep = true
	if got := NewNumber(1234567.5).Display(grouped); got != "1,234,567.5" {
		t.Errorf("grouped display = %q", got)
	}
}
