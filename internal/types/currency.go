package types

import "strings"

// CurrencyConfig holds the display symbol and the smallest-unit precision
// for a currency. Precision is the number of decimal places amounts are
// rounded to when an invoice item is emitted.
type CurrencyConfig struct {
	Symbol    string
	Precision int32
}

// DefaultCurrencyPrecision is used for currencies missing from the table
const DefaultCurrencyPrecision int32 = 2

// CURRENCY_CONFIGS is a map of 3 digit ISO currency codes (lowercase) to
// their configuration. Zero-decimal and crypto currencies carry their own
// precision.
var CURRENCY_CONFIGS = map[string]CurrencyConfig{
	"usd": {Symbol: "$", Precision: 2},
	"eur": {Symbol: "€", Precision: 2},
	"gbp": {Symbol: "£", Precision: 2},
	"aud": {Symbol: "AU$", Precision: 2},
	"cad": {Symbol: "CA$", Precision: 2},
	"chf": {Symbol: "CHF", Precision: 2},
	"sek": {Symbol: "kr", Precision: 2},
	"nzd": {Symbol: "NZ$", Precision: 2},
	"hkd": {Symbol: "HK$", Precision: 2},
	"sgd": {Symbol: "S$", Precision: 2},
	"jpy": {Symbol: "¥", Precision: 0},
	"krw": {Symbol: "₩", Precision: 0},
	"cny": {Symbol: "¥", Precision: 2},
	"inr": {Symbol: "₹", Precision: 2},
	"brl": {Symbol: "R$", Precision: 2},
	"mxn": {Symbol: "MX$", Precision: 2},
	"try": {Symbol: "₺", Precision: 2},
	"zar": {Symbol: "R", Precision: 2},
	"myr": {Symbol: "RM", Precision: 2},
	"btc": {Symbol: "₿", Precision: 8},
}

// GetCurrencyConfig returns the configuration for a given currency code.
// Unknown codes fall back to the code itself as symbol and the default
// precision.
func GetCurrencyConfig(code string) CurrencyConfig {
	if config, ok := CURRENCY_CONFIGS[strings.ToLower(code)]; ok {
		return config
	}
	return CurrencyConfig{Symbol: code, Precision: DefaultCurrencyPrecision}
}

// GetCurrencySymbol returns the symbol for a given currency code
func GetCurrencySymbol(code string) string {
	return GetCurrencyConfig(code).Symbol
}

// GetCurrencyPrecision returns the precision for a given currency code
func GetCurrencyPrecision(code string) int32 {
	return GetCurrencyConfig(code).Precision
}
