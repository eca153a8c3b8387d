// Package common provides shared utilities across the application.
package common

import (
	"strings"
)

// Ticker represents a parsed exchange-qualified ticker.
// Format: EXCHANGE:CODE (e.g., "NYSE:KO", "ASX:CBA")
type Ticker struct {
	// Exchange is the exchange code (e.g., "NYSE", "ASX")
	Exchange string
	// Code is the stock/security code (e.g., "KO", "CBA")
	Code string
	// Raw is the original ticker string
	Raw string
}

// ExchangeToSuffix maps exchange codes to EODHD API suffixes.
var ExchangeToSuffix = map[string]string{
	"US":     ".US",
	"NYSE":   ".US",
	"NASDAQ": ".US",
	"AMEX":   ".US",
	"ASX":    ".AU",
	"LSE":    ".LSE",
	"TSX":    ".TO",
	"XETRA":  ".XETRA",
}

// suffixToExchange maps EODHD suffixes back to an exchange code.
var suffixToExchange = map[string]string{
	"US":    "US",
	"AU":    "ASX",
	"LSE":   "LSE",
	"TO":    "TSX",
	"XETRA": "XETRA",
}

// DefaultExchange is the exchange used when parsing tickers without an exchange.
// Overridden by [research] default_exchange.
var DefaultExchange = "US"

// SetDefaultExchange sets the default exchange for parsing tickers.
func SetDefaultExchange(exchange string) {
	if exchange != "" {
		DefaultExchange = strings.ToUpper(exchange)
	}
}

// ParseTicker parses a ticker string. Supported formats:
//   - "NYSE:KO" -> Exchange="NYSE", Code="KO"
//   - "ASX.CBA" -> Exchange="ASX", Code="CBA" (known exchange prefix)
//   - "CBA.AU"  -> Exchange="ASX", Code="CBA" (EODHD CODE.SUFFIX)
//   - "ko"      -> Exchange=DefaultExchange, Code="KO"
func ParseTicker(ticker string) Ticker {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return Ticker{}
	}

	if idx := strings.Index(ticker, ":"); idx > 0 {
		return Ticker{
			Exchange: strings.ToUpper(ticker[:idx]),
			Code:     strings.ToUpper(ticker[idx+1:]),
			Raw:      ticker,
		}
	}

	if idx := strings.Index(ticker, "."); idx > 0 {
		prefix := strings.ToUpper(ticker[:idx])
		if _, ok := ExchangeToSuffix[prefix]; ok {
			return Ticker{
				Exchange: prefix,
				Code:     strings.ToUpper(ticker[idx+1:]),
				Raw:      ticker,
			}
		}
	}

	// Codes may contain dots (e.g. "BRK.B.US"), so the suffix is after the last one
	if idx := strings.LastIndex(ticker, "."); idx > 0 && idx < len(ticker)-1 {
		if exchange, ok := suffixToExchange[strings.ToUpper(ticker[idx+1:])]; ok {
			return Ticker{
				Exchange: exchange,
				Code:     strings.ToUpper(ticker[:idx]),
				Raw:      ticker,
			}
		}
	}

	return Ticker{
		Exchange: DefaultExchange,
		Code:     strings.ToUpper(ticker),
		Raw:      ticker,
	}
}

// String returns the full exchange-qualified ticker string.
func (t Ticker) String() string {
	if t.Exchange == "" || t.Code == "" {
		return t.Code
	}
	return t.Exchange + ":" + t.Code
}

// EODHDSymbol returns the EODHD API symbol format.
// Example: "ASX:CBA" -> "CBA.AU"
func (t Ticker) EODHDSymbol() string {
	if t.Code == "" {
		return ""
	}
	suffix, ok := ExchangeToSuffix[t.Exchange]
	if !ok {
		suffix = "." + t.Exchange
	}
	return t.Code + suffix
}

// ParseTickers parses a list of ticker strings, skipping blanks and later
// entries that resolve to an EODHD symbol already seen. Order is preserved.
func ParseTickers(tickers []string) []Ticker {
	result := make([]Ticker, 0, len(tickers))
	seen := make(map[string]bool, len(tickers))
	for _, t := range tickers {
		parsed := ParseTicker(t)
		if parsed.Code == "" {
			continue
		}
		symbol := parsed.EODHDSymbol()
		if seen[symbol] {
			continue
		}
		seen[symbol] = true
		result = append(result, parsed)
	}
	return result
}

// RawTickers returns the trimmed input form of each ticker.
func RawTickers(tickers []Ticker) []string {
	out := make([]string, len(tickers))
	for i, t := range tickers {
		out[i] = t.Raw
	}
	return out
}
