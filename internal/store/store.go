package store

import (
	"strings"
	"sync"
	"time"

	"github.com/nmaxcom/smartpad/internal/lexer"
	"github.com/nmaxcom/smartpad/internal/token"
	"github.com/nmaxcom/smartpad/internal/value"
)

// Variable is a named binding owned by the Variables store.
type Variable struct {
	Name      string
	Value     value.Value
	RawText   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Variables maps normalized names to values. Reassignment overwrites;
// bindings are only removed by Reset.
type Variables struct {
	mu    sync.RWMutex
	store map[string]*Variable
}

func NewVariables() *Variables {
	return &Variables{store: make(map[string]*Variable)}
}

// NormalizeName collapses internal whitespace. Names stay case-sensitive.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

func (v *Variables) Get(name string) (*Variable, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	va, ok := v.store[NormalizeName(name)]
	return va, ok
}

// Set stores a binding. Error values are rejected rather than stored, so
// a failed line never poisons later lookups.
func (v *Variables) Set(name string, val value.Value, rawText string) bool {
	if _, isErr := val.(*value.Error); isErr {
		return false
	}
	name = NormalizeName(name)
	v.mu.Lock()
	defer v.mu.Unlock()
	now := time.Now()
	if existing, ok := v.store[name]; ok {
		existing.Value = val
		existing.RawText = rawText
		existing.UpdatedAt = now
		return true
	}
	v.store[name] = &Variable{
		Name:      name,
		Value:     val,
		RawText:   rawText,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return true
}

// Snapshot copies the current bindings for a per-statement context.
func (v *Variables) Snapshot() map[string]value.Value {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make(map[string]value.Value, len(v.store))
	for name, va := range v.store {
		out[name] = va.Value
	}
	return out
}

// Reset drops every binding (document-wide re-evaluation).
func (v *Variables) Reset() {
	v.mu.Lock()
	v.store = make(map[string]*Variable)
	v.mu.Unlock()
}

// EquationEntry is one stated equation, ordered by document line.
type EquationEntry struct {
	Line         int
	VariableName string // empty for bare "left = right" forms
	Expression   string // right-hand side (or full equation when unnamed)
}

// Equations is the time-ordered log of stated equations.
type Equations struct {
	mu      sync.RWMutex
	entries []EquationEntry
}

func NewEquations() *Equations {
	return &Equations{}
}

// Record appends an equation. Entries for the same line replace the
// previous recording so document re-evaluation stays idempotent.
func (e *Equations) Record(line int, variableName, expression string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.entries {
		if e.entries[i].Line == line {
			e.entries[i] = EquationEntry{Line: line, VariableName: variableName, Expression: expression}
			return
		}
	}
	e.entries = append(e.entries, EquationEntry{Line: line, VariableName: variableName, Expression: expression})
}

// FindReferencing scans backward from beforeLine for the nearest entry
// whose left-hand name matches target, or failing that, the nearest
// entry whose expression mentions target as a whole identifier. Closest
// preceding line wins.
func (e *Equations) FindReferencing(target string, beforeLine int) *EquationEntry {
	target = NormalizeName(target)
	e.mu.RLock()
	defer e.mu.RUnlock()

	var byName, byBody *EquationEntry
	for i := range e.entries {
		entry := &e.entries[i]
		if entry.Line >= beforeLine {
			continue
		}
		if entry.VariableName == target {
			if byName == nil || entry.Line > byName.Line {
				byName = entry
			}
		} else if mentionsIdentifier(entry.Expression, target) {
			if byBody == nil || entry.Line > byBody.Line {
				byBody = entry
			}
		}
	}
	if byName != nil {
		return byName
	}
	return byBody
}

// All returns a copy of the log in recording order.
func (e *Equations) All() []EquationEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]EquationEntry, len(e.entries))
	copy(out, e.entries)
	return out
}

// Reset drops all entries.
func (e *Equations) Reset() {
	e.mu.Lock()
	e.entries = nil
	e.mu.Unlock()
}

// mentionsIdentifier tokenizes the expression and looks for the target
// as a whole identifier, never as a substring of a longer name.
func mentionsIdentifier(expression, target string) bool {
	for _, tok := range lexer.Tokenize(expression, 0) {
		if tok.Type == token.IDENT && tok.Lexeme == target {
			return true
		}
		if tok.Type == token.EOF {
			break
		}
	}
	return false
}

// Functions stores user-defined functions by name.
type Functions struct {
	mu    sync.RWMutex
	store map[string]*Function
}

// Function is a user definition f(x, y) = body.
type Function struct {
	Name   string
	Params []string
	Body   string // body expression text
	Line   int
}

func NewFunctions() *Functions {
	return &Functions{store: make(map[string]*Function)}
}

func (f *Functions) Get(name string) (*Function, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	fn, ok := f.store[name]
	return fn, ok
}

func (f *Functions) Set(fn *Function) {
	f.mu.Lock()
	f.store[fn.Name] = fn
	f.mu.Unlock()
}

func (f *Functions) Reset() {
	f.mu.Lock()
	f.store = make(map[string]*Function)
	f.mu.Unlock()
}
