package trace

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is one pipeline step observed while evaluating a statement.
type Event struct {
	Stage string
	Note  string
	At    time.Time
}

// Trace collects the evaluation path of a single statement.
type Trace struct {
	ID      string
	Line    int
	Input   string
	Started time.Time
	Events  []Event
}

// Step appends an event. Nil traces swallow the call so evaluation code
// never has to guard.
func (t *Trace) Step(stage, format string, args ...interface{}) {
	if t == nil {
		return
	}
	t.Events = append(t.Events, Event{
		Stage: stage,
		Note:  fmt.Sprintf(format, args...),
		At:    time.Now(),
	})
}

// Recorder accumulates traces for a notebook session.
type Recorder struct {
	mu      sync.Mutex
	enabled bool
	traces  []*Trace
}

func NewRecorder(enabled bool) *Recorder {
	return &Recorder{enabled: enabled}
}

// Begin opens a trace for one statement, or returns nil when recording
// is off.
func (r *Recorder) Begin(line int, input string) *Trace {
	if r == nil || !r.enabled {
		return nil
	}
	t := &Trace{
		ID:      uuid.NewString(),
		Line:    line,
		Input:   input,
		Started: time.Now(),
	}
	r.mu.Lock()
	r.traces = append(r.traces, t)
	r.mu.Unlock()
	return t
}

// All returns the recorded traces in evaluation order.
func (r *Recorder) All() []*Trace {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Trace, len(r.traces))
	copy(out, r.traces)
	return out
}

// Reset drops recorded traces.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.traces = nil
	r.mu.Unlock()
}
