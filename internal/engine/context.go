package engine

import (
	"github.com/nmaxcom/smartpad/internal/config"
	"github.com/nmaxcom/smartpad/internal/store"
	"github.com/nmaxcom/smartpad/internal/trace"
	"github.com/nmaxcom/smartpad/internal/value"
)

// Context carries everything a statement evaluation can see: the
// notebook stores, display settings, the current line, and an optional
// trace. Function application and where clauses layer locals on top.
type Context struct {
	Vars      *store.Variables
	Funcs     *store.Functions
	Equations *store.Equations
	Settings  *config.Settings
	Line      int
	Depth     int
	Trace     *trace.Trace

	locals map[string]value.Value
}

func NewContext(settings *config.Settings) *Context {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	return &Context{
		Vars:      store.NewVariables(),
		Funcs:     store.NewFunctions(),
		Equations: store.NewEquations(),
		Settings:  settings,
	}
}

// child layers locals over the current scope for a nested evaluation
// (user function bodies, where clauses) and bumps the depth counter.
func (c *Context) child(locals map[string]value.Value) *Context {
	merged := make(map[string]value.Value, len(c.locals)+len(locals))
	for k, v := range c.locals {
		merged[k] = v
	}
	for k, v := range locals {
		merged[store.NormalizeName(k)] = v
	}
	return &Context{
		Vars:      c.Vars,
		Funcs:     c.Funcs,
		Equations: c.Equations,
		Settings:  c.Settings,
		Line:      c.Line,
		Depth:     c.Depth + 1,
		Trace:     c.Trace,
		locals:    merged,
	}
}

// Resolve looks a name up through locals, then notebook variables.
func (c *Context) Resolve(name string) (value.Value, bool) {
	name = store.NormalizeName(name)
	if v, ok := c.locals[name]; ok {
		return v, true
	}
	if va, ok := c.Vars.Get(name); ok {
		return va.Value, true
	}
	return nil, false
}

// Reset clears all notebook state for a fresh document evaluation.
func (c *Context) Reset() {
	c.Vars.Reset()
	c.Funcs.Reset()
	c.Equations.Reset()
	c.Line = 0
}
