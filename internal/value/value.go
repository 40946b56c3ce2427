package value

import (
	"fmt"
	"strings"
	"time"

	"github.com/nmaxcom/smartpad/internal/config"
	"github.com/nmaxcom/smartpad/internal/diagnostics"
	"github.com/nmaxcom/smartpad/internal/units"
)

// Kind tags a semantic value variant. The set is closed: arithmetic
// dispatch switches over kind pairs and anything unhandled falls through
// to an explicit error, never a silent misinterpretation.
type Kind string

const (
	NUMBER   Kind = "NUMBER"
	PERCENT  Kind = "PERCENT"
	CURRENCY Kind = "CURRENCY"
	QUANTITY Kind = "QUANTITY"
	DATE     Kind = "DATE"
	DURATION Kind = "DURATION"
	LIST     Kind = "LIST"
	SYMBOL   Kind = "SYMBOL"
	ERROR    Kind = "ERROR"
)

// Value is a semantic value: a tagged numeric-or-symbolic variant that
// carries its own arithmetic and display rules.
type Value interface {
	Kind() Kind
	// IsNumeric reports whether the value can participate in plain
	// arithmetic via Float.
	IsNumeric() bool
	// Float coerces the value to a bare float64 where that makes sense.
	Float() (float64, bool)
	// Display renders the value using the notebook display settings.
	Display(s *config.Settings) string
}

// Number is a plain dimensionless number.
type Number struct {
	Val float64
}

func NewNumber(v float64) *Number { return &Number{Val: v} }

func (n *Number) Kind() Kind            { return NUMBER }
func (n *Number) IsNumeric() bool       { return true }
func (n *Number) Float() (float64, bool) { return n.Val, true }
func (n *Number) Display(s *config.Settings) string {
	return FormatFloat(n.Val, s)
}

// Percent stores the percentage as written: 20% has Val 20.
type Percent struct {
	Val float64
}

func NewPercent(v float64) *Percent { return &Percent{Val: v} }

func (p *Percent) Kind() Kind            { return PERCENT }
func (p *Percent) IsNumeric() bool       { return true }
func (p *Percent) Float() (float64, bool) { return p.Val / 100, true }
func (p *Percent) Display(s *config.Settings) string {
	return FormatFloat(p.Val, s) + "%"
}

// Fraction is the multiplier form: 20% -> 0.2.
func (p *Percent) Fraction() float64 { return p.Val / 100 }

// Currency is an amount tagged with an ISO currency code, optionally a
// rate per some unit ("$0.12/kWh" has Per = kWh).
type Currency struct {
	Amount float64
	Code   string // "USD", "EUR", ...
	Per    *units.Composite
}

func NewCurrency(amount float64, code string) *Currency {
	return &Currency{Amount: amount, Code: code}
}

func (c *Currency) Kind() Kind            { return CURRENCY }
func (c *Currency) IsNumeric() bool       { return true }
func (c *Currency) Float() (float64, bool) { return c.Amount, true }
func (c *Currency) Display(s *config.Settings) string {
	sym := SymbolFor(c.Code)
	amt := FormatCurrency(c.Amount, s)
	var out string
	if sym != "" {
		out = sym + amt
	} else {
		out = amt + " " + c.Code
	}
	if !c.Per.IsEmpty() {
		out += "/" + c.Per.String()
	}
	return out
}

// Quantity is a number carrying a composite physical unit.
type Quantity struct {
	Val  float64 // magnitude in the display unit, not base units
	Unit *units.Composite
}

func NewQuantity(v float64, u *units.Composite) *Quantity {
	return &Quantity{Val: v, Unit: u}
}

func (q *Quantity) Kind() Kind            { return QUANTITY }
func (q *Quantity) IsNumeric() bool       { return true }
func (q *Quantity) Float() (float64, bool) { return q.Val, true }
func (q *Quantity) Display(s *config.Settings) string {
	out := FormatFloat(q.Val, s)
	if us := q.Unit.String(); us != "" {
		out += " " + us
	}
	return out
}

// baseVal is the magnitude in base units, used for compatible-unit math.
func (q *Quantity) baseVal() float64 {
	return q.Val * q.Unit.BaseFactor()
}

// Date is an absolute calendar point.
type Date struct {
	Time time.Time
}

func NewDate(t time.Time) *Date { return &Date{Time: t} }

func (d *Date) Kind() Kind            { return DATE }
func (d *Date) IsNumeric() bool       { return false }
func (d *Date) Float() (float64, bool) { return 0, false }
func (d *Date) Display(s *config.Settings) string {
	layout := s.DateFormat
	if layout == "" {
		layout = "2006-01-02"
	}
	return d.Time.Format(layout)
}

// Duration is a span of time in seconds.
type Duration struct {
	Seconds float64
}

func NewDuration(seconds float64) *Duration { return &Duration{Seconds: seconds} }

func (d *Duration) Kind() Kind            { return DURATION }
func (d *Duration) IsNumeric() bool       { return true }
func (d *Duration) Float() (float64, bool) { return d.Seconds, true }
func (d *Duration) Display(s *config.Settings) string {
	abs := d.Seconds
	neg := abs < 0
	if neg {
		abs = -abs
	}
	var val float64
	var unit string
	switch {
	case abs >= 86400:
		val, unit = abs/86400, "days"
	case abs >= 3600:
		val, unit = abs/3600, "hours"
	case abs >= 60:
		val, unit = abs/60, "minutes"
	default:
		val, unit = abs, "seconds"
	}
	if neg {
		val = -val
	}
	return FormatFloat(val, s) + " " + unit
}

// List applies arithmetic element-wise where the element types allow it.
type List struct {
	Items []Value
}

func NewList(items []Value) *List { return &List{Items: items} }

func (l *List) Kind() Kind      { return LIST }
func (l *List) IsNumeric() bool { return false }
func (l *List) Float() (float64, bool) {
	if len(l.Items) == 1 {
		return l.Items[0].Float()
	}
	return 0, false
}
func (l *List) Display(s *config.Settings) string {
	parts := make([]string, len(l.Items))
	for i, it := range l.Items {
		parts[i] = it.Display(s)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Symbol is an unresolved identifier (or an expression still containing
// one). Arithmetic on a Symbol yields a Symbol, enabling deferred
// evaluation instead of a hard failure.
type Symbol struct {
	Name string
}

func NewSymbol(name string) *Symbol { return &Symbol{Name: name} }

func (s *Symbol) Kind() Kind            { return SYMBOL }
func (s *Symbol) IsNumeric() bool       { return false }
func (s *Symbol) Float() (float64, bool) { return 0, false }
func (s *Symbol) Display(*config.Settings) string {
	return s.Name
}

// Error is a first-class error value; any operation touching one returns
// the first error encountered.
type Error struct {
	Category diagnostics.Category
	Message  string
}

func NewError(cat diagnostics.Category, format string, args ...interface{}) *Error {
	return &Error{Category: cat, Message: fmt.Sprintf(format, args...)}
}

func SemanticErr(format string, args ...interface{}) *Error {
	return NewError(diagnostics.CategorySemantic, format, args...)
}

func (e *Error) Kind() Kind            { return ERROR }
func (e *Error) IsNumeric() bool       { return false }
func (e *Error) Float() (float64, bool) { return 0, false }
func (e *Error) Display(*config.Settings) string {
	return "⚠ " + e.Message
}

// firstError returns the first Error among the operands, or nil.
func firstError(vals ...Value) *Error {
	for _, v := range vals {
		if e, ok := v.(*Error); ok {
			return e
		}
	}
	return nil
}

// anySymbol reports whether any operand is symbolic.
func anySymbol(vals ...Value) bool {
	for _, v := range vals {
		if v.Kind() == SYMBOL {
			return true
		}
	}
	return false
}

// symbolic composes a symbolic result from an infix application.
func symbolic(op string, a, b Value) *Symbol {
	s := config.DefaultSettings()
	return &Symbol{Name: "(" + a.Display(s) + " " + op + " " + b.Display(s) + ")"}
}
