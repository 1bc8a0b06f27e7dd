// Package classify holds the pure page-role predicates the assembler builds
// on. All predicates treat missing inputs as falsy: classification always
// produces a definite boolean, never an error.
package classify

import (
	"regexp"
	"strings"

	"ledgerlink/constants"
	"ledgerlink/internal/entity"
	"ledgerlink/internal/normalize"
)

// DefaultFolioPattern matches the numeric sub-document numbering scheme
// used by detail/folio pages. Deployments override it from configuration.
const DefaultFolioPattern = `^\d{7,}$`

// Policy carries the configurable inputs of the predicates; it embeds no
// business-specific constants beyond overridable defaults.
type Policy struct {
	FolioPattern *regexp.Regexp
	// Placeholders extends the default placeholder document-number tokens.
	Placeholders map[string]struct{}
}

// DefaultPolicy returns a policy with the default folio pattern and no
// extra placeholder tokens.
func DefaultPolicy() Policy {
	return Policy{FolioPattern: regexp.MustCompile(DefaultFolioPattern)}
}

// IsHeader reports whether p carries full identifying metadata: both a
// party identifier and a business code, a parseable entry date, and no
// continuation declaration.
func (pol Policy) IsHeader(p *entity.PageRecord) bool {
	if p.PartyIdentifier == "" || p.BusinessCode == "" {
		return false
	}
	if _, ok := normalize.ParseDate(p.EntryDate); !ok {
		return false
	}
	return p.DeclaredRole != constants.RoleContinuation
}

// IsFolio reports whether p's own document number follows the configured
// sub-document numbering pattern.
func (pol Policy) IsFolio(p *entity.PageRecord) bool {
	num := strings.TrimSpace(p.DocumentNumber)
	if num == "" || pol.FolioPattern == nil {
		return false
	}
	return pol.FolioPattern.MatchString(num)
}

// IsEffectiveContinuation reports whether p is, explicitly or implicitly,
// part of the preceding document.
func (pol Policy) IsEffectiveContinuation(p *entity.PageRecord) bool {
	if p.DeclaredRole == constants.RoleContinuation {
		return true
	}
	_, hasDate := normalize.ParseDate(p.EntryDate)
	if !hasDate {
		if constants.IsPlaceholderNumber(p.DocumentNumber, pol.Placeholders) || p.PartyIdentifier == "" {
			return true
		}
		if constants.IsUnknownParty(p.PartyName) && p.PartyIdentifier == "" && p.BusinessCode == "" {
			return true
		}
	}
	return false
}

// IsPlaceholderNumber applies the policy's placeholder set.
func (pol Policy) IsPlaceholderNumber(number string) bool {
	return constants.IsPlaceholderNumber(number, pol.Placeholders)
}

// SameParty compares two party names case-insensitively after trimming.
func SameParty(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
