package store

import (
	"testing"

	"github.com/nmaxcom/smartpad/internal/value"
)

func TestVariablesSetGet(t *testing.T) {
	vars := NewVariables()
	if !vars.Set("speed", value.NewNumber(10), "speed = 10") {
		t.Fatal("Set failed")
	}
	v, ok := vars.Get("speed")
	if !ok {
		t.Fatal("Get(speed) not found")
	}
	if f, _ := v.Value.Float(); f != 10 {
		t.Errorf("speed = %v, want 10", f)
	}

	// Reassignment overwrites.
	vars.Set("speed", value.NewNumber(20), "speed = 20")
	v, _ = vars.Get("speed")
	if f, _ := v.Value.Float(); f != 20 {
		t.Errorf("speed after reassignment = %v, want 20", f)
	}
}

func TestVariablesNormalizesName(t *testing.T) {
	vars := NewVariables()
	vars.Set("my  total   cost", value.NewNumber(1), "")
	if _, ok := vars.Get("my total cost"); !ok {
		t.Error("whitespace-collapsed lookup failed")
	}
	// Case matters.
	if _, ok := vars.Get("My Total Cost"); ok {
		t.Error("lookup should be case-sensitive")
	}
}

func TestVariablesRejectError(t *testing.T) {
	vars := NewVariables()
	if vars.Set("x", value.SemanticErr("boom"), "") {
		t.Error("Set accepted an Error value")
	}
	if _, ok := vars.Get("x"); ok {
		t.Error("error value was stored")
	}
}

func TestEquationsFindByName(t *testing.T) {
	eqs := NewEquations()
	eqs.Record(1, "b", "a * 2")
	eqs.Record(3, "c", "b + 1")

	entry := eqs.FindReferencing("b", 5)
	if entry == nil || entry.Line != 1 {
		t.Fatalf("FindReferencing(b, 5) = %v, want line 1", entry)
	}
	// Entries at or below the requesting line are invisible.
	if e := eqs.FindReferencing("b", 1); e != nil && e.VariableName == "b" {
		t.Errorf("FindReferencing(b, 1) saw its own line: %v", e)
	}
}

func TestEquationsFindByBody(t *testing.T) {
	eqs := NewEquations()
	eqs.Record(1, "b", "a * 2")
	eqs.Record(2, "c", "a + 1")

	// No left-hand match for a; the nearest body mention wins.
	entry := eqs.FindReferencing("a", 10)
	if entry == nil || entry.Line != 2 {
		t.Fatalf("FindReferencing(a, 10) = %v, want line 2", entry)
	}
}

func TestEquationsIdentifierNotSubstring(t *testing.T) {
	eqs := NewEquations()
	eqs.Record(1, "total", "subtotal * 2")
	// "a" appears inside "subtotal" but not as an identifier.
	if entry := eqs.FindReferencing("a", 10); entry != nil {
		t.Errorf("FindReferencing(a) matched a substring: %v", entry)
	}
	if entry := eqs.FindReferencing("subtotal", 10); entry == nil {
		t.Error("FindReferencing(subtotal) found nothing")
	}
}

func TestEquationsRerecordSameLine(t *testing.T) {
	eqs := NewEquations()
	eqs.Record(4, "b", "a * 2")
	eqs.Record(4, "b", "a * 3")
	if n := len(eqs.All()); n != 1 {
		t.Fatalf("re-recording line 4 left %d entries, want 1", n)
	}
	if e := eqs.FindReferencing("b", 10); e.Expression != "a * 3" {
		t.Errorf("entry = %q, want the re-recorded expression", e.Expression)
	}
}
