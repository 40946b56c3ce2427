package value

import (
	"math"
	"strings"
	"testing"
)

func call(t *testing.T, name string, args ...Value) Value {
	t.Helper()
	v, ok := CallBuiltin(name, args)
	if !ok {
		t.Fatalf("%s is not a builtin", name)
	}
	return v
}

func TestAggregates(t *testing.T) {
	approx(t, call(t, "sum", num(1), num(2), num(3)), 6)
	approx(t, call(t, "total", num(1), num(2), num(3)), 6)
	approx(t, call(t, "avg", num(2), num(4), num(6)), 4)
	approx(t, call(t, "min", num(3), num(1), num(2)), 1)
	approx(t, call(t, "max", num(3), num(1), num(2)), 3)
}

func TestAggregatesFlattenLists(t *testing.T) {
	l := NewList([]Value{num(1), num(2), num(3), num(4)})
	approx(t, call(t, "sum", l), 10)
	approx(t, call(t, "avg", l), 2.5)
	approx(t, call(t, "max", l), 4)
}

func TestSumKeepsUnits(t *testing.T) {
	v := call(t, "sum", qty(2, "km"), qty(3, "km"))
	q, ok := v.(*Quantity)
	if !ok {
		t.Fatalf("sum of quantities = %T, want *Quantity", v)
	}
	approx(t, q, 5)
}

func TestSingleArgFunctions(t *testing.T) {
	approx(t, call(t, "sqrt", num(16)), 4)
	approx(t, call(t, "log10", num(1000)), 3)
	approx(t, call(t, "ln", num(math.E)), 1)
	approx(t, call(t, "abs", num(-7)), 7)
	approx(t, call(t, "round", num(2.5)), 3)
	approx(t, call(t, "floor", num(2.9)), 2)
	approx(t, call(t, "ceil", num(2.1)), 3)
}

func TestFunctionsPreserveOperandKind(t *testing.T) {
	v := call(t, "abs", qty(-3, "km"))
	q, ok := v.(*Quantity)
	if !ok {
		t.Fatalf("abs(-3 km) = %T, want *Quantity", v)
	}
	approx(t, q, 3)

	c := call(t, "round", &Currency{Amount: 9.7, Code: "USD"})
	cur, ok := c.(*Currency)
	if !ok || cur.Code != "USD" {
		t.Fatalf("round($9.70) = %v", c)
	}
	approx(t, cur, 10)
}

func TestDomainErrors(t *testing.T) {
	cases := []struct {
		name string
		arg  float64
		want string
	}{
		{"sqrt", -4, "no real result"},
		{"log", 0, "undefined"},
		{"log10", -1, "undefined"},
		{"asin", 2, "outside"},
	}
	for _, tc := range cases {
		v := call(t, tc.name, num(tc.arg))
		e, ok := v.(*Error)
		if !ok {
			t.Errorf("%s(%v) = %v, want error", tc.name, tc.arg, v)
			continue
		}
		if !strings.Contains(e.Message, tc.want) {
			t.Errorf("%s(%v) message %q, want %q", tc.name, tc.arg, e.Message, tc.want)
		}
	}
}

func TestFunctionMapsOverList(t *testing.T) {
	v := call(t, "sqrt", NewList([]Value{num(4), num(9)}))
	l, ok := v.(*List)
	if !ok || len(l.Items) != 2 {
		t.Fatalf("sqrt over list = %v", v)
	}
	approx(t, l.Items[0], 2)
	approx(t, l.Items[1], 3)
}

func TestErrorsShortCircuitBuiltins(t *testing.T) {
	e := SemanticErr("boom")
	v := call(t, "sum", num(1), e)
	if _, ok := v.(*Error); !ok {
		t.Errorf("sum with error arg = %v, want error", v)
	}
}

func TestSymbolArgsStaySymbolic(t *testing.T) {
	v := call(t, "sqrt", NewSymbol("x"))
	if v.Kind() != SYMBOL {
		t.Errorf("sqrt(symbol) kind = %v, want SYMBOL", v.Kind())
	}
}

func TestConstants(t *testing.T) {
	pi, ok := Constant("pi")
	if !ok {
		t.Fatal("pi not defined")
	}
	approx(t, pi, math.Pi)
	if _, ok := Constant("tau"); ok {
		t.Error("tau should not be a constant")
	}
}
