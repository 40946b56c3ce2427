package notebook

import (
	"strings"

	"github.com/nmaxcom/smartpad/internal/config"
	"github.com/nmaxcom/smartpad/internal/engine"
	"github.com/nmaxcom/smartpad/internal/parser"
	"github.com/nmaxcom/smartpad/internal/trace"
	"github.com/nmaxcom/smartpad/internal/value"
)

// Notebook evaluates document lines in order against a live variable
// environment. Evaluation is single-threaded; callers re-run the whole
// document on any change rather than patching state incrementally.
type Notebook struct {
	settings *config.Settings
	pipeline *engine.Pipeline
	ctx      *engine.Context
	recorder *trace.Recorder
	line     int
	inputs   []string
}

func New(settings *config.Settings) *Notebook {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	return &Notebook{
		settings: settings,
		pipeline: engine.NewPipeline(),
		ctx:      engine.NewContext(settings),
		recorder: trace.NewRecorder(false),
	}
}

// EnableTrace turns on per-statement trace recording.
func (n *Notebook) EnableTrace() {
	n.recorder = trace.NewRecorder(true)
}

// EvalLine evaluates the next document line and returns its result.
func (n *Notebook) EvalLine(text string) *engine.Result {
	n.line++
	n.inputs = append(n.inputs, text)
	n.ctx.Line = n.line
	n.ctx.Trace = n.recorder.Begin(n.line, text)

	stmt, err := parser.ParseLine(text, n.line)
	if err != nil {
		return &engine.Result{
			Kind:   engine.ResultError,
			Line:   n.line,
			Input:  text,
			Output: "⚠ " + err.Message,
			Err:    err,
		}
	}
	return n.pipeline.Run(stmt, n.ctx)
}

// EvalDocument resets all state and evaluates every line of src in
// order, returning one result per line.
func (n *Notebook) EvalDocument(src string) []*engine.Result {
	n.Reset()
	lines := strings.Split(src, "\n")
	results := make([]*engine.Result, 0, len(lines))
	for _, line := range lines {
		results = append(results, n.EvalLine(line))
	}
	return results
}

// Variables snapshots the current bindings.
func (n *Notebook) Variables() map[string]value.Value {
	return n.ctx.Vars.Snapshot()
}

// Settings exposes the display settings in effect.
func (n *Notebook) Settings() *config.Settings {
	return n.settings
}

// Traces returns recorded evaluation traces, empty unless EnableTrace
// was called.
func (n *Notebook) Traces() []*trace.Trace {
	return n.recorder.All()
}

// Inputs returns the raw lines evaluated since the last reset, in
// order.
func (n *Notebook) Inputs() []string {
	out := make([]string, len(n.inputs))
	copy(out, n.inputs)
	return out
}

// Reset drops variables, functions, equations, traces, inputs, and the
// line counter.
func (n *Notebook) Reset() {
	n.ctx.Reset()
	n.recorder.Reset()
	n.line = 0
	n.inputs = nil
}
