package util

import "strings"

// NormalizeSymbol upper-cases a ticker and strips separators, so EUR/USD
// and eurusd share one cache entry.
func NormalizeSymbol(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer("/", "", "-", "", " ", "").Replace(s)
}
