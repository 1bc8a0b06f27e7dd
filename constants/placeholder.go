package constants

import "strings"

// UnknownParty is the canonical marker for a page whose party could not be read.
const UnknownParty = "unknown"

// defaultPlaceholders are document-number tokens that carry no identity.
// The set is overridable from configuration; these are only the defaults.
var defaultPlaceholders = map[string]struct{}{
	"":        {},
	"unknown": {},
	"n/a":     {},
	"na":      {},
	"none":    {},
	"-":       {},
	"tbd":     {},
	"pending": {},
}

// IsPlaceholderNumber reports whether a document number carries no identity.
// extra entries extend (never replace) the default set.
func IsPlaceholderNumber(number string, extra map[string]struct{}) bool {
	n := strings.ToLower(strings.TrimSpace(number))
	if _, ok := defaultPlaceholders[n]; ok {
		return true
	}
	if extra != nil {
		if _, ok := extra[n]; ok {
			return true
		}
	}
	return false
}

// IsUnknownParty reports whether a party name is absent or the unknown marker.
func IsUnknownParty(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	return n == "" || n == UnknownParty
}
