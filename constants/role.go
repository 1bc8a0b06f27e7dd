package constants

import "strings"

// PageRole is the declared structural role of one extracted page.
type PageRole string

// Stable values (store these exact strings).
const (
	RoleNone         PageRole = "NONE"         // page declares nothing about itself
	RoleContinuation PageRole = "CONTINUATION" // page declares itself a continuation
	RoleFull         PageRole = "FULL"         // page declares itself a complete document
	RoleUnknown      PageRole = "UNKNOWN"      // declaration present but unrecognized
)

// ParsePageRole canonicalizes a raw declared-role string.
func ParsePageRole(input string) PageRole {
	normalized := strings.ToLower(strings.TrimSpace(input))
	switch normalized {
	case "", "none", "no", "n":
		return RoleNone
	case "continuation", "cont", "continued", "carryover", "yes", "y":
		return RoleContinuation
	case "full", "complete", "single", "standalone":
		return RoleFull
	default:
		return RoleUnknown
	}
}
