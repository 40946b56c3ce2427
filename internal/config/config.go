package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// MaxCallDepth bounds recursive user-defined function application.
const MaxCallDepth = 64

// Built-in function names
const (
	SqrtFuncName  = "sqrt"
	ExpFuncName   = "exp"
	LogFuncName   = "log"
	Log10FuncName = "log10"
	SumFuncName   = "sum"
	TotalFuncName = "total"
	AvgFuncName   = "avg"
	AvgLongName   = "average"
)

// Built-in constant names
const (
	PiConstName = "pi"
	EConstName  = "e"
)

// Date keywords
const (
	TodayKeyword = "today"
	NowKeyword   = "now"
)

// Settings holds display and formatting options for a notebook. The zero
// value is not useful; use DefaultSettings or Load.
type Settings struct {
	// Precision is the maximum number of fraction digits rendered.
	Precision int `yaml:"precision"`
	// SciUpper and SciLower bound the magnitudes outside of which numbers
	// switch to scientific notation.
	SciUpper float64 `yaml:"sci_upper"`
	SciLower float64 `yaml:"sci_lower"`
	// ThousandsSep inserts grouping separators into integer parts.
	ThousandsSep bool `yaml:"thousands_sep"`
	// DateFormat is a Go reference-time layout for date display.
	DateFormat string `yaml:"date_format"`
	// CurrencyDecimals fixes fraction digits for currency amounts.
	CurrencyDecimals int `yaml:"currency_decimals"`
}

func DefaultSettings() *Settings {
	return &Settings{
		Precision:        10,
		SciUpper:         1e15,
		SciLower:         1e-9,
		ThousandsSep:     false,
		DateFormat:       "2006-01-02",
		CurrencyDecimals: 2,
	}
}

// Load reads settings from a YAML file, filling unset fields with defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := DefaultSettings()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, err
	}
	if s.Precision <= 0 {
		s.Precision = DefaultSettings().Precision
	}
	return s, nil
}
