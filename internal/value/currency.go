package value

// Built-in currency table. Rates are fixed (value of one unit in USD);
// the notebook has no network surface, so these are reference rates, not
// live quotes.
var currencyRates = map[string]float64{
	"USD": 1.0,
	"EUR": 1.08,
	"GBP": 1.27,
	"JPY": 0.0067,
	"CHF": 1.12,
	"CAD": 0.73,
	"AUD": 0.66,
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

var symbolCodes = map[string]string{
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
	"¥": "JPY",
}

// SymbolFor returns the display symbol for a currency code, or "".
func SymbolFor(code string) string {
	return currencySymbols[code]
}

// CodeForSymbol resolves a currency sign lexeme to its ISO code.
func CodeForSymbol(sym string) (string, bool) {
	code, ok := symbolCodes[sym]
	return code, ok
}

// IsCurrencyCode reports whether a word is a known ISO currency code.
func IsCurrencyCode(word string) bool {
	_, ok := currencyRates[word]
	return ok
}

// CurrencyRate converts an amount between two currency codes using the
// built-in table. ok=false when either code is unknown.
func CurrencyRate(from, to string) (float64, bool) {
	f, okF := currencyRates[from]
	t, okT := currencyRates[to]
	if !okF || !okT {
		return 0, false
	}
	return f / t, true
}
