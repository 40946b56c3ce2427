package value

import (
	"math"
	"strconv"
	"strings"

	"github.com/nmaxcom/smartpad/internal/config"
)

// FormatFloat renders a float using the notebook display settings:
// precision-bounded, scientific outside the configured thresholds,
// optional thousands grouping.
func FormatFloat(v float64, s *config.Settings) string {
	if s == nil {
		s = config.DefaultSettings()
	}
	if math.IsNaN(v) {
		return "NaN"
	}
	if math.IsInf(v, 1) {
		return "∞"
	}
	if math.IsInf(v, -1) {
		return "-∞"
	}

	abs := math.Abs(v)
	if abs != 0 && (abs >= s.SciUpper || abs < s.SciLower) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}

	out := strconv.FormatFloat(round(v, s.Precision), 'f', -1, 64)
	if s.ThousandsSep {
		out = groupThousands(out)
	}
	return out
}

// FormatCurrency renders an amount with fixed fraction digits.
func FormatCurrency(v float64, s *config.Settings) string {
	if s == nil {
		s = config.DefaultSettings()
	}
	dec := s.CurrencyDecimals
	if dec < 0 {
		dec = 2
	}
	out := strconv.FormatFloat(round(v, dec), 'f', dec, 64)
	if s.ThousandsSep {
		out = groupThousands(out)
	}
	return out
}

func round(v float64, digits int) float64 {
	scale := math.Pow(10, float64(digits))
	r := math.Round(v*scale) / scale
	if r == 0 {
		return 0 // avoid -0
	}
	return r
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if len(intPart) > 3 {
		var b strings.Builder
		lead := len(intPart) % 3
		if lead > 0 {
			b.WriteString(intPart[:lead])
		}
		for i := lead; i < len(intPart); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(intPart[i : i+3])
		}
		intPart = b.String()
	}
	out := intPart + frac
	if neg {
		out = "-" + out
	}
	return out
}
