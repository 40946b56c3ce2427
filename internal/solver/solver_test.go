package solver

import (
	"math"
	"strings"
	"testing"

	"github.com/nmaxcom/smartpad/internal/parser"
	"github.com/nmaxcom/smartpad/internal/units"
	"github.com/nmaxcom/smartpad/internal/value"
)

func eq(t *testing.T, left, right string) Equation {
	t.Helper()
	l, err := parser.ParseExpression(left, 1)
	if err != nil {
		t.Fatalf("parse %q: %v", left, err)
	}
	r, err := parser.ParseExpression(right, 1)
	if err != nil {
		t.Fatalf("parse %q: %v", right, err)
	}
	return Equation{Left: l, Right: r}
}

func vars(m map[string]value.Value) Resolver {
	return func(name string) (value.Value, bool) {
		v, ok := m[name]
		return v, ok
	}
}

func solveFloat(t *testing.T, target string, e Equation, res Resolver) float64 {
	t.Helper()
	result, err := Solve(target, []Equation{e}, res, 1)
	if err != nil {
		t.Fatalf("Solve(%s): %v", target, err)
	}
	f, ok := result.Value.Float()
	if !ok {
		t.Fatalf("Solve(%s) = %v, not numeric", target, result.Value)
	}
	return f
}

func TestSolveLinear(t *testing.T) {
	got := solveFloat(t, "x", eq(t, "2 * x + 1", "11"), nil)
	if got != 5 {
		t.Errorf("2x + 1 = 11: x = %v, want 5", got)
	}
}

func TestSolveProduct(t *testing.T) {
	res := vars(map[string]value.Value{
		"k": value.NewNumber(4),
		"c": value.NewNumber(20),
	})
	got := solveFloat(t, "x", eq(t, "x * k", "c"), res)
	if got != 5 {
		t.Errorf("x * k = c: x = %v, want 5", got)
	}
}

func TestSolveTargetOnRight(t *testing.T) {
	got := solveFloat(t, "x", eq(t, "11", "2 * x + 1"), nil)
	if got != 5 {
		t.Errorf("11 = 2x + 1: x = %v, want 5", got)
	}
}

func TestSolveDivisionForms(t *testing.T) {
	// x / 4 = 5
	if got := solveFloat(t, "x", eq(t, "x / 4", "5"), nil); got != 20 {
		t.Errorf("x / 4 = 5: x = %v, want 20", got)
	}
	// 20 / x = 5
	if got := solveFloat(t, "x", eq(t, "20 / x", "5"), nil); got != 4 {
		t.Errorf("20 / x = 5: x = %v, want 4", got)
	}
	// 10 - x = 3
	if got := solveFloat(t, "x", eq(t, "10 - x", "3"), nil); got != 7 {
		t.Errorf("10 - x = 3: x = %v, want 7", got)
	}
}

func TestSolveSquare(t *testing.T) {
	got := solveFloat(t, "x", eq(t, "x ^ 2", "16"), nil)
	if got != 4 {
		t.Errorf("x^2 = 16: x = %v, want 4", got)
	}
}

func TestSolveNegativeRadicand(t *testing.T) {
	result, err := Solve("x", []Equation{eq(t, "x ^ 2", "-4")}, nil, 1)
	if err != nil {
		t.Fatalf("Solve returned a hard error: %v", err)
	}
	e, ok := result.Value.(*value.Error)
	if !ok {
		t.Fatalf("x^2 = -4 gave %v, want error value", result.Value)
	}
	if e.Message != "no real solution" {
		t.Errorf("message = %q, want %q", e.Message, "no real solution")
	}
}

func TestSolveInverseFunctions(t *testing.T) {
	if got := solveFloat(t, "x", eq(t, "sqrt(x)", "3"), nil); got != 9 {
		t.Errorf("sqrt(x) = 3: x = %v, want 9", got)
	}
	if got := solveFloat(t, "x", eq(t, "10 ^ x", "1000"), nil); math.Abs(got-3) > 1e-9 {
		t.Errorf("10^x = 1000: x = %v, want 3", got)
	}
	if got := solveFloat(t, "x", eq(t, "2 ^ x", "8"), nil); math.Abs(got-3) > 1e-9 {
		t.Errorf("2^x = 8: x = %v, want 3", got)
	}
	if got := solveFloat(t, "x", eq(t, "ln(x)", "2"), nil); math.Abs(got-math.Exp(2)) > 1e-9 {
		t.Errorf("ln(x) = 2: x = %v, want e^2", got)
	}
}

func TestSolveMultipleOccurrencesErrors(t *testing.T) {
	_, err := Solve("x", []Equation{eq(t, "x + x", "10")}, nil, 1)
	if err == nil {
		t.Fatal("x + x = 10 solved without collecting terms")
	}
	if !strings.Contains(err.Message, "appears") {
		t.Errorf("message = %q", err.Message)
	}
}

func TestSolveCrossMultiply(t *testing.T) {
	// x / (100 - x) = 1  =>  x = 50
	got := solveFloat(t, "x", eq(t, "x / (100 - x)", "1"), nil)
	if math.Abs(got-50) > 1e-9 {
		t.Errorf("x / (100 - x) = 1: x = %v, want 50", got)
	}
	// x / (60 - x) = 2  =>  x = 40
	got = solveFloat(t, "x", eq(t, "x / (60 - x)", "2"), nil)
	if math.Abs(got-40) > 1e-9 {
		t.Errorf("x / (60 - x) = 2: x = %v, want 40", got)
	}
}

func TestSolveWithUnits(t *testing.T) {
	res := vars(map[string]value.Value{
		"v": value.NewQuantity(20, units.Parse("m/s")),
		"t": value.NewQuantity(10, units.Parse("s")),
	})
	result, err := Solve("d", []Equation{eq(t, "d", "v * t")}, res, 1)
	if err != nil {
		t.Fatalf("Solve(d): %v", err)
	}
	q, ok := result.Value.(*value.Quantity)
	if !ok {
		t.Fatalf("d = %T (%v), want Quantity", result.Value, result.Value)
	}
	if math.Abs(q.Val-200) > 1e-9 || q.Unit.String() != "m" {
		t.Errorf("d = %v %s, want 200 m", q.Val, q.Unit.String())
	}
}

func TestSolvePicksEquationContainingTarget(t *testing.T) {
	eqs := []Equation{
		eq(t, "y", "3 + 4"),
		eq(t, "2 * x", "10"),
	}
	result, err := Solve("x", eqs, nil, 1)
	if err != nil {
		t.Fatalf("Solve(x): %v", err)
	}
	if f, _ := result.Value.Float(); f != 5 {
		t.Errorf("x = %v, want 5", result.Value)
	}
}

func TestSolveMissingTarget(t *testing.T) {
	if _, err := Solve("z", []Equation{eq(t, "x + 1", "2")}, nil, 1); err == nil {
		t.Error("solving for an absent variable did not error")
	}
}

func TestSolveUnknownAuxiliaryStaysSymbolic(t *testing.T) {
	result, err := Solve("x", []Equation{eq(t, "x * q", "10")}, nil, 1)
	if err != nil {
		t.Fatalf("Solve(x): %v", err)
	}
	if result.Value.Kind() != value.SYMBOL {
		t.Errorf("x * q = 10 with unknown q gave %v, want symbolic", result.Value)
	}
}

func TestSolveAuxiliarySubstitution(t *testing.T) {
	// k and c come from auxiliary equations, not the resolver.
	eqs := []Equation{
		eq(t, "x * k", "c"),
		eq(t, "k", "4"),
		eq(t, "c", "20"),
	}
	result, err := Solve("x", eqs, nil, 1)
	if err != nil {
		t.Fatalf("Solve(x): %v", err)
	}
	if f, _ := result.Value.Float(); f != 5 {
		t.Errorf("x * k = c with k=4, c=20: x = %v, want 5", result.Value)
	}
}

func TestSolveMultipleGoverningEquations(t *testing.T) {
	eqs := []Equation{
		eq(t, "x + 1", "2"),
		eq(t, "x + 2", "3"),
	}
	_, err := Solve("x", eqs, nil, 1)
	if err == nil || !strings.Contains(err.Message, "multiple equations") {
		t.Errorf("two governing equations gave %v", err)
	}
}

func TestSolveAggregatorExpansion(t *testing.T) {
	got := solveFloat(t, "x", eq(t, "sum(x, 5)", "12"), nil)
	if got != 7 {
		t.Errorf("sum(x, 5) = 12: x = %v, want 7", got)
	}
	got = solveFloat(t, "x", eq(t, "avg(x, 4)", "5"), nil)
	if got != 6 {
		t.Errorf("avg(x, 4) = 5: x = %v, want 6", got)
	}
}

func TestRearrangedForm(t *testing.T) {
	result, err := Solve("x", []Equation{eq(t, "2 * x + 1", "11")}, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(result.Rearranged, "x = ") {
		t.Errorf("rearranged = %q", result.Rearranged)
	}
}
