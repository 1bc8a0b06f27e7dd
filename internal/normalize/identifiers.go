package normalize

import "strings"

// NormalizeDocNumber canonicalizes a document number for equality checks:
// trim, strip leading zeros, case-fold. Format drift between the scanned
// source and the ledger ("000R35" vs "R35") must not defeat equality.
func NormalizeDocNumber(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" && s != "" {
		return "0"
	}
	return trimmed
}

// NormalizeParty canonicalizes a party name for comparison: trim, collapse
// inner whitespace, case-fold.
func NormalizeParty(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
