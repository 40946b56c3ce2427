package units

import (
	"fmt"
	"strconv"
	"strings"
)

// Category groups units that share a base dimension.
type Category int

const (
	Length Category = iota
	Mass
	Time
	Volume
	Data
	Energy
	Power
)

func (c Category) String() string {
	switch c {
	case Length:
		return "length"
	case Mass:
		return "mass"
	case Time:
		return "time"
	case Volume:
		return "volume"
	case Data:
		return "data"
	case Energy:
		return "energy"
	case Power:
		return "power"
	}
	return "unknown"
}

// Unit defines a single unit with its conversion factor to the category
// base unit: value_in_base = value * Factor.
type Unit struct {
	Short    string
	Full     string
	FullPl   string
	Category Category
	Factor   float64
}

var allUnits = []*Unit{
	// Length (base: meters)
	{Short: "mm", Full: "millimeter", FullPl: "millimeters", Category: Length, Factor: 0.001},
	{Short: "cm", Full: "centimeter", FullPl: "centimeters", Category: Length, Factor: 0.01},
	{Short: "m", Full: "meter", FullPl: "meters", Category: Length, Factor: 1},
	{Short: "km", Full: "kilometer", FullPl: "kilometers", Category: Length, Factor: 1000},
	{Short: "in", Full: "inch", FullPl: "inches", Category: Length, Factor: 0.0254},
	{Short: "ft", Full: "foot", FullPl: "feet", Category: Length, Factor: 0.3048},
	{Short: "yd", Full: "yard", FullPl: "yards", Category: Length, Factor: 0.9144},
	{Short: "mi", Full: "mile", FullPl: "miles", Category: Length, Factor: 1609.344},

	// Mass (base: grams)
	{Short: "mg", Full: "milligram", FullPl: "milligrams", Category: Mass, Factor: 0.001},
	{Short: "g", Full: "gram", FullPl: "grams", Category: Mass, Factor: 1},
	{Short: "kg", Full: "kilogram", FullPl: "kilograms", Category: Mass, Factor: 1000},
	{Short: "oz", Full: "ounce", FullPl: "ounces", Category: Mass, Factor: 28.3495},
	{Short: "lb", Full: "pound", FullPl: "pounds", Category: Mass, Factor: 453.592},
	{Short: "t", Full: "tonne", FullPl: "tonnes", Category: Mass, Factor: 1e6},

	// Time (base: seconds)
	{Short: "ms", Full: "millisecond", FullPl: "milliseconds", Category: Time, Factor: 0.001},
	{Short: "s", Full: "second", FullPl: "seconds", Category: Time, Factor: 1},
	{Short: "min", Full: "minute", FullPl: "minutes", Category: Time, Factor: 60},
	{Short: "h", Full: "hour", FullPl: "hours", Category: Time, Factor: 3600},
	{Short: "d", Full: "day", FullPl: "days", Category: Time, Factor: 86400},
	{Short: "wk", Full: "week", FullPl: "weeks", Category: Time, Factor: 604800},
	{Short: "mo", Full: "month", FullPl: "months", Category: Time, Factor: 2629800},
	{Short: "yr", Full: "year", FullPl: "years", Category: Time, Factor: 31557600},

	// Volume (base: liters)
	{Short: "mL", Full: "milliliter", FullPl: "milliliters", Category: Volume, Factor: 0.001},
	{Short: "L", Full: "liter", FullPl: "liters", Category: Volume, Factor: 1},
	{Short: "cup", Full: "cup", FullPl: "cups", Category: Volume, Factor: 0.236588},
	{Short: "pt", Full: "pint", FullPl: "pints", Category: Volume, Factor: 0.473176},
	{Short: "qt", Full: "quart", FullPl: "quarts", Category: Volume, Factor: 0.946353},
	{Short: "gal", Full: "gallon", FullPl: "gallons", Category: Volume, Factor: 3.78541},

	// Data (base: bytes)
	{Short: "bit", Full: "bit", FullPl: "bits", Category: Data, Factor: 0.125},
	{Short: "B", Full: "byte", FullPl: "bytes", Category: Data, Factor: 1},
	{Short: "KB", Full: "kilobyte", FullPl: "kilobytes", Category: Data, Factor: 1e3},
	{Short: "MB", Full: "megabyte", FullPl: "megabytes", Category: Data, Factor: 1e6},
	{Short: "GB", Full: "gigabyte", FullPl: "gigabytes", Category: Data, Factor: 1e9},
	{Short: "TB", Full: "terabyte", FullPl: "terabytes", Category: Data, Factor: 1e12},

	// Energy (base: joules)
	{Short: "J", Full: "joule", FullPl: "joules", Category: Energy, Factor: 1},
	{Short: "kJ", Full: "kilojoule", FullPl: "kilojoules", Category: Energy, Factor: 1e3},
	{Short: "Wh", Full: "watthour", FullPl: "watthours", Category: Energy, Factor: 3600},
	{Short: "kWh", Full: "kilowatthour", FullPl: "kilowatthours", Category: Energy, Factor: 3.6e6},
	{Short: "cal", Full: "calorie", FullPl: "calories", Category: Energy, Factor: 4.184},
	{Short: "kcal", Full: "kilocalorie", FullPl: "kilocalories", Category: Energy, Factor: 4184},

	// Power (base: watts)
	{Short: "W", Full: "watt", FullPl: "watts", Category: Power, Factor: 1},
	{Short: "kW", Full: "kilowatt", FullPl: "kilowatts", Category: Power, Factor: 1e3},
	{Short: "MW", Full: "megawatt", FullPl: "megawatts", Category: Power, Factor: 1e6},
	{Short: "hp", Full: "horsepower", FullPl: "horsepower", Category: Power, Factor: 745.7},
}

// Extra alias spellings that don't fit the short/full/plural scheme.
var aliases = map[string]string{
	"hr":     "h",
	"hrs":    "h",
	"sec":    "s",
	"secs":   "s",
	"mins":   "min",
	"l":      "L",
	"ml":     "mL",
	"tonnes": "t",
}

var unitLookup map[string]*Unit

func init() {
	unitLookup = make(map[string]*Unit, len(allUnits)*3)
	for _, u := range allUnits {
		unitLookup[u.Short] = u
		unitLookup[u.Full] = u
		unitLookup[u.FullPl] = u
	}
	for from, to := range aliases {
		if u, ok := unitLookup[to]; ok {
			unitLookup[from] = u
		}
	}
}

// Lookup resolves a unit word by short, full, or plural name. Returns nil
// when the word is not a known unit.
func Lookup(name string) *Unit {
	return unitLookup[name]
}

// Factor is one (unit, integer power) component of a composite unit.
type Factor struct {
	Unit *Unit
	Pow  int
}

// Composite is a product of unit factors with signed integer powers,
// e.g. m/s^2 is {m^1, s^-2}.
type Composite struct {
	Factors []Factor
}

// Simple wraps a single unit with power one.
func Simple(u *Unit) *Composite {
	return &Composite{Factors: []Factor{{Unit: u, Pow: 1}}}
}

// Parse parses a composite unit string like "m", "km/h", "m/s^2",
// "m*kg" or "USD/kWh"-style denominators. Returns nil when any component
// is not a known unit.
func Parse(s string) *Composite {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	c := &Composite{}
	sign := 1
	for _, chunk := range splitKeepingSeps(s) {
		switch chunk {
		case "/", "per":
			sign = -1
			continue
		case "*":
			continue
		}
		name, pow := splitPower(chunk)
		u := Lookup(name)
		if u == nil {
			return nil
		}
		c.Factors = append(c.Factors, Factor{Unit: u, Pow: sign * pow})
	}
	if len(c.Factors) == 0 {
		return nil
	}
	return c.normalize()
}

func splitKeepingSeps(s string) []string {
	var out []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch r {
		case '/', '*':
			flush()
			out = append(out, string(r))
		case ' ':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

func splitPower(chunk string) (string, int) {
	if i := strings.IndexByte(chunk, '^'); i >= 0 {
		if p, err := strconv.Atoi(chunk[i+1:]); err == nil {
			return chunk[:i], p
		}
		return chunk[:i], 1
	}
	// Squared/cubed suffixes: m2, s3.
	if n := len(chunk); n > 1 && (chunk[n-1] == '2' || chunk[n-1] == '3') && Lookup(chunk[:n-1]) != nil {
		return chunk[:n-1], int(chunk[n-1] - '0')
	}
	return chunk, 1
}

// normalize merges repeated units and drops zero powers.
func (c *Composite) normalize() *Composite {
	merged := &Composite{}
	for _, f := range c.Factors {
		found := false
		for i := range merged.Factors {
			if merged.Factors[i].Unit == f.Unit {
				merged.Factors[i].Pow += f.Pow
				found = true
				break
			}
		}
		if !found {
			merged.Factors = append(merged.Factors, f)
		}
	}
	out := &Composite{}
	for _, f := range merged.Factors {
		if f.Pow != 0 {
			out.Factors = append(out.Factors, f)
		}
	}
	return out
}

// IsEmpty reports whether the composite is dimensionless.
func (c *Composite) IsEmpty() bool {
	return c == nil || len(c.Factors) == 0
}

// Dimensions returns the reduced dimension vector after expanding alias
// units to their category base.
func (c *Composite) Dimensions() map[Category]int {
	dims := make(map[Category]int)
	if c == nil {
		return dims
	}
	for _, f := range c.Factors {
		dims[f.Unit.Category] += f.Pow
		if dims[f.Unit.Category] == 0 {
			delete(dims, f.Unit.Category)
		}
	}
	return dims
}

// Compatible reports whether two composites share a dimension vector and
// can therefore be converted into one another.
func Compatible(a, b *Composite) bool {
	da, db := a.Dimensions(), b.Dimensions()
	if len(da) != len(db) {
		return false
	}
	for cat, pow := range da {
		if db[cat] != pow {
			return false
		}
	}
	return true
}

// BaseFactor is the multiplier taking a value in this composite unit to
// base units.
func (c *Composite) BaseFactor() float64 {
	factor := 1.0
	if c == nil {
		return factor
	}
	for _, f := range c.Factors {
		factor *= pow(f.Unit.Factor, f.Pow)
	}
	return factor
}

func pow(base float64, exp int) float64 {
	if exp < 0 {
		return 1 / pow(base, -exp)
	}
	out := 1.0
	for i := 0; i < exp; i++ {
		out *= base
	}
	return out
}

// ConversionFactor returns the multiplier converting a value in `from`
// into `to`. The composites must be Compatible.
func ConversionFactor(from, to *Composite) float64 {
	return from.BaseFactor() / to.BaseFactor()
}

// SplitRate splits a composite into its numerator and denominator parts
// for per-unit (rate) conversion. Returns ok=false when there is no
// denominator.
func (c *Composite) SplitRate() (num, den *Composite, ok bool) {
	if c.IsEmpty() {
		return nil, nil, false
	}
	num, den = &Composite{}, &Composite{}
	for _, f := range c.Factors {
		if f.Pow > 0 {
			num.Factors = append(num.Factors, f)
		} else {
			den.Factors = append(den.Factors, Factor{Unit: f.Unit, Pow: -f.Pow})
		}
	}
	if len(den.Factors) == 0 {
		return nil, nil, false
	}
	return num, den, true
}

// Mul combines the factors of two composites (for quantity
// multiplication).
func Mul(a, b *Composite) *Composite {
	out := &Composite{}
	if a != nil {
		out.Factors = append(out.Factors, a.Factors...)
	}
	if b != nil {
		out.Factors = append(out.Factors, b.Factors...)
	}
	return out.normalize()
}

// Div combines the factors of a with the inverted factors of b (for
// quantity division). Incompatible divisions synthesize a composite rate
// unit rather than failing.
func Div(a, b *Composite) *Composite {
	out := &Composite{}
	if a != nil {
		out.Factors = append(out.Factors, a.Factors...)
	}
	if b != nil {
		for _, f := range b.Factors {
			out.Factors = append(out.Factors, Factor{Unit: f.Unit, Pow: -f.Pow})
		}
	}
	return out.normalize()
}

// Pow raises every factor's power (for quantity exponentiation with an
// integer exponent).
func Pow(c *Composite, exp int) *Composite {
	out := &Composite{}
	if c != nil {
		for _, f := range c.Factors {
			out.Factors = append(out.Factors, Factor{Unit: f.Unit, Pow: f.Pow * exp})
		}
	}
	return out.normalize()
}

// String renders the composite as num/den with ^powers, e.g. "km/h",
// "m/s^2", "m*kg".
func (c *Composite) String() string {
	if c.IsEmpty() {
		return ""
	}
	var num, den []string
	for _, f := range c.Factors {
		part := f.Unit.Short
		p := f.Pow
		if p < 0 {
			p = -p
		}
		if p != 1 {
			part += "^" + strconv.Itoa(p)
		}
		if f.Pow > 0 {
			num = append(num, part)
		} else {
			den = append(den, part)
		}
	}
	n := strings.Join(num, "*")
	if len(den) == 0 {
		return n
	}
	if n == "" {
		n = "1"
	}
	return fmt.Sprintf("%s/%s", n, strings.Join(den, "*"))
}
