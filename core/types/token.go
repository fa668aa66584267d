package types

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeToken returns the canonical token symbol: NFKC folded, trimmed and
// upper-cased, so full-width or compatibility forms address the same ledger
// entries as their ASCII spelling.
func NormalizeToken(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(norm.NFKC.String(symbol)))
}
