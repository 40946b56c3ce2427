package notebook

import (
	"strings"
	"testing"

	"github.com/nmaxcom/smartpad/internal/engine"
	"github.com/nmaxcom/smartpad/internal/value"
)

func TestDocumentScenario(t *testing.T) {
	nb := New(nil)
	doc := strings.Join([]string{
		"# trip math",
		"a = 10",
		"b = a * 2 =>",
		"solve a in b = a * 2",
	}, "\n")

	results := nb.EvalDocument(doc)
	if len(results) != 4 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Kind != engine.ResultText {
		t.Errorf("comment = %+v", results[0])
	}
	if results[2].Kind != engine.ResultCombined || results[2].Output != "20" {
		t.Errorf("b = a * 2 => gave %+v", results[2])
	}
	b, ok := nb.Variables()["b"]
	if !ok {
		t.Fatal("b not stored")
	}
	if n, isNum := b.(*value.Number); !isNum || n.Val != 20 {
		t.Errorf("b = %v, want Number(20)", b)
	}
	// With b = 20 stored, the equation reads 20 = a * 2.
	if f, _ := results[3].Value.Float(); f != 10 {
		t.Errorf("solve a = %v, want 10", results[3].Value)
	}
}

func TestDocumentReevaluationIsIdempotent(t *testing.T) {
	nb := New(nil)
	doc := "a = 2\nb = a ^ 3 =>"
	first := nb.EvalDocument(doc)
	second := nb.EvalDocument(doc)
	if first[1].Output != "8" || second[1].Output != first[1].Output {
		t.Errorf("re-evaluation changed output: %q then %q", first[1].Output, second[1].Output)
	}
}

func TestParseErrorRendersInline(t *testing.T) {
	nb := New(nil)
	r := nb.EvalLine("x =")
	if r.Kind != engine.ResultError {
		t.Fatalf("x = gave %+v", r)
	}
	if !strings.HasPrefix(r.Output, "⚠ ") {
		t.Errorf("output = %q", r.Output)
	}
	// Evaluation continues on the next line.
	if r = nb.EvalLine("1 + 1"); r.Output != "2" {
		t.Errorf("line after parse error = %+v", r)
	}
}

func TestTraceRecording(t *testing.T) {
	nb := New(nil)
	nb.EnableTrace()
	nb.EvalLine("2 + 2")
	traces := nb.Traces()
	if len(traces) != 1 {
		t.Fatalf("got %d traces", len(traces))
	}
	tr := traces[0]
	if tr.ID == "" || tr.Line != 1 {
		t.Errorf("trace = %+v", tr)
	}
	if len(tr.Events) == 0 {
		t.Error("trace recorded no events")
	}
}

func TestBudgetNotebook(t *testing.T) {
	nb := New(nil)
	doc := strings.Join([]string{
		"// monthly budget",
		"rent = $1200",
		"utilities = $180",
		"groceries = $450",
		"total = rent + utilities + groceries =>",
		"fun budget = 10% of total =>",
	}, "\n")
	results := nb.EvalDocument(doc)
	if results[4].Output != "$1,830.00" && results[4].Output != "$1830.00" {
		t.Errorf("total = %q", results[4].Output)
	}
	if results[5].Output != "$183.00" {
		t.Errorf("fun budget = %q", results[5].Output)
	}
}
