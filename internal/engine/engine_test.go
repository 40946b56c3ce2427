package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/nmaxcom/smartpad/internal/ast"
	"github.com/nmaxcom/smartpad/internal/parser"
	"github.com/nmaxcom/smartpad/internal/value"
)

type session struct {
	t        *testing.T
	pipeline *Pipeline
	ctx      *Context
	line     int
}

func newSession(t *testing.T) *session {
	return &session{t: t, pipeline: NewPipeline(), ctx: NewContext(nil)}
}

func (s *session) run(line string) *Result {
	s.t.Helper()
	s.line++
	s.ctx.Line = s.line
	stmt, err := parser.ParseLine(line, s.line)
	if err != nil {
		return errorResult(s.line, line, err)
	}
	return s.pipeline.Run(stmt, s.ctx)
}

func TestCommentPassthrough(t *testing.T) {
	s := newSession(t)
	r := s.run("# march budget")
	if r.Kind != ResultText {
		t.Errorf("comment kind = %s, want text", r.Kind)
	}
	if r = s.run("just some notes"); r.Kind != ResultText {
		t.Errorf("prose kind = %s, want text", r.Kind)
	}
}

func TestAssignmentSilentAndCombined(t *testing.T) {
	s := newSession(t)
	r := s.run("a = 10")
	if r.Kind != ResultVariable || r.Output != "" {
		t.Fatalf("plain assignment = %+v", r)
	}
	r = s.run("b = a * 2 =>")
	if r.Kind != ResultCombined {
		t.Fatalf("combined kind = %s", r.Kind)
	}
	if r.Output != "20" {
		t.Errorf("combined output = %q, want 20", r.Output)
	}
	if va, ok := s.ctx.Vars.Get("b"); !ok {
		t.Error("b not stored")
	} else if f, _ := va.Value.Float(); f != 20 {
		t.Errorf("b = %v, want 20", va.Value)
	}
}

func TestExplicitSolveUsesStoredVariable(t *testing.T) {
	s := newSession(t)
	s.run("a = 10")
	s.run("b = a * 2 =>")
	r := s.run("solve a in b = a * 2")
	if r.Kind != ResultMath {
		t.Fatalf("solve result = %+v", r)
	}
	// b is 20, so the equation reads 20 = a * 2.
	if f, _ := r.Value.Float(); f != 10 {
		t.Errorf("a = %v, want 10", r.Value)
	}
	if !strings.HasPrefix(r.Output, "a = ") {
		t.Errorf("output = %q", r.Output)
	}
}

func TestSolveWithWhere(t *testing.T) {
	s := newSession(t)
	r := s.run("solve d in d = v * t where v = 20 m/s, t = 10 s")
	if r.Kind != ResultMath {
		t.Fatalf("solve result = %+v (err %v)", r, r.Err)
	}
	q, ok := r.Value.(*value.Quantity)
	if !ok {
		t.Fatalf("d = %T (%v)", r.Value, r.Value)
	}
	if math.Abs(q.Val-200) > 1e-9 || q.Unit.String() != "m" {
		t.Errorf("d = %v %s, want 200 m", q.Val, q.Unit.String())
	}
}

func TestSolveConversionSuffix(t *testing.T) {
	s := newSession(t)
	r := s.run("solve d in d = v * t where v = 20 m/s, t = 100 s to km")
	if r.Kind != ResultMath {
		t.Fatalf("solve result = %+v (err %v)", r, r.Err)
	}
	q, ok := r.Value.(*value.Quantity)
	if !ok || q.Unit.String() != "km" {
		t.Fatalf("d = %v, want km quantity", r.Value)
	}
	if math.Abs(q.Val-2) > 1e-9 {
		t.Errorf("d = %v km, want 2", q.Val)
	}
}

func TestImplicitSolve(t *testing.T) {
	s := newSession(t)
	s.run("b = a * 2") // a unknown: records the equation, b symbolic
	s.run("b = 20")    // later binding gives b a concrete value
	r := s.run("a")
	if r.Kind != ResultMath {
		t.Fatalf("implicit solve = %+v (err %v)", r, r.Err)
	}
	if f, _ := r.Value.Float(); f != 10 {
		t.Errorf("a = %v, want 10", r.Value)
	}
}

func TestBareKnownIdentifierIsNotASolve(t *testing.T) {
	s := newSession(t)
	s.run("x = 7")
	r := s.run("x")
	if r.Kind != ResultMath || r.Output != "7" {
		t.Errorf("bare known identifier = %+v", r)
	}
}

func TestUnknownIdentifierStaysSymbolic(t *testing.T) {
	s := newSession(t)
	r := s.run("q + 1")
	if r.Kind != ResultMath {
		t.Fatalf("q + 1 = %+v", r)
	}
	if r.Value.Kind() != value.SYMBOL {
		t.Errorf("q + 1 kind = %s, want SYMBOL", r.Value.Kind())
	}
}

func TestPercentPhrases(t *testing.T) {
	s := newSession(t)
	if r := s.run("20% of 100"); r.Output != "20" {
		t.Errorf("20%% of 100 = %q", r.Output)
	}
	if r := s.run("100 + 20%"); r.Output != "120" {
		t.Errorf("100 + 20%% = %q", r.Output)
	}
	if r := s.run("100 - 20%"); r.Output != "80" {
		t.Errorf("100 - 20%% = %q", r.Output)
	}
	if r := s.run("0.2 as %"); r.Output != "20%" {
		t.Errorf("0.2 as %% = %q", r.Output)
	}
	if r := s.run("30 is what % of 120"); r.Output != "25%" {
		t.Errorf("30 is what %% of 120 = %q", r.Output)
	}
}

func TestRangeLiteral(t *testing.T) {
	s := newSession(t)
	r := s.run("1..5")
	l, ok := r.Value.(*value.List)
	if !ok || len(l.Items) != 5 {
		t.Fatalf("1..5 = %v", r.Value)
	}
	if r.Output != "[1, 2, 3, 4, 5]" {
		t.Errorf("1..5 output = %q", r.Output)
	}
	if r = s.run("sum(1..4)"); r.Output != "10" {
		t.Errorf("sum(1..4) = %q", r.Output)
	}
}

func TestDateMath(t *testing.T) {
	s := newSession(t)
	r := s.run("2024-01-15 + 3 d")
	if r.Output != "2024-01-18" {
		t.Errorf("date + 3 d = %q", r.Output)
	}
	r = s.run("2024-01-18 - 2024-01-15")
	if r.Output != "3 days" {
		t.Errorf("date - date = %q", r.Output)
	}
}

func TestUnitConversionLine(t *testing.T) {
	s := newSession(t)
	r := s.run("100 km to mi")
	q, ok := r.Value.(*value.Quantity)
	if !ok || q.Unit.String() != "mi" {
		t.Fatalf("100 km to mi = %v", r.Value)
	}
	if math.Abs(q.Val-62.137119223733395) > 1e-9 {
		t.Errorf("100 km = %v mi", q.Val)
	}
	r = s.run("36 km/h in m/s")
	q, ok = r.Value.(*value.Quantity)
	if !ok || math.Abs(q.Val-10) > 1e-9 {
		t.Errorf("36 km/h = %v", r.Value)
	}
}

func TestUserFunctions(t *testing.T) {
	s := newSession(t)
	if r := s.run("area(w, h) = w * h"); r.Kind != ResultVariable {
		t.Fatalf("funcdef = %+v", r)
	}
	if r := s.run("area(3, 4)"); r.Output != "12" {
		t.Errorf("area(3, 4) = %q", r.Output)
	}
}

func TestRecursionDepthBounded(t *testing.T) {
	s := newSession(t)
	s.run("f(x) = f(x)")
	r := s.run("f(1)")
	if r.Kind != ResultError {
		t.Fatalf("unbounded recursion = %+v", r)
	}
	if !strings.Contains(r.Err.Message, "depth") {
		t.Errorf("error = %q", r.Err.Message)
	}
}

func TestSelfReferenceGoesSymbolic(t *testing.T) {
	s := newSession(t)
	s.run("x = 5")
	r := s.run("x = x + 1")
	if r.Kind != ResultVariable {
		t.Fatalf("self reference = %+v", r)
	}
	va, _ := s.ctx.Vars.Get("x")
	if va.Value.Kind() != value.SYMBOL {
		t.Errorf("x = %v, want symbolic", va.Value)
	}
}

func TestDivisionByZeroErrors(t *testing.T) {
	s := newSession(t)
	r := s.run("1 / 0")
	if r.Kind != ResultError {
		t.Fatalf("1 / 0 = %+v", r)
	}
	if r.Err.Category != "semantic" {
		t.Errorf("category = %s", r.Err.Category)
	}
}

func TestErrorDoesNotHaltSession(t *testing.T) {
	s := newSession(t)
	s.run("bad = 1 m + 1 s")
	if r := s.run("2 + 2"); r.Output != "4" {
		t.Errorf("line after error = %+v", r)
	}
}

type panicStage struct{}

func (panicStage) Name() string                  { return "panic" }
func (panicStage) CanHandle(ast.Statement) bool  { return true }
func (panicStage) Evaluate(ast.Statement, *Context) *Result {
	panic("boom")
}

func TestPipelineRecoversPanic(t *testing.T) {
	p := &Pipeline{stages: []Evaluator{panicStage{}}}
	ctx := NewContext(nil)
	ctx.Line = 1
	stmt, _ := parser.ParseLine("1 + 1", 1)
	r := p.Run(stmt, ctx)
	if r.Kind != ResultError {
		t.Fatalf("panic produced %+v", r)
	}
	if r.Err.Category != "runtime" {
		t.Errorf("category = %s, want runtime", r.Err.Category)
	}
}
