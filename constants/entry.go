package constants

import "strings"

// EntryKind is the canonical kind for a ledger transaction line.
type EntryKind string

const (
	EntryKindInvoice EntryKind = "INVOICE"
	EntryKindJournal EntryKind = "JOURNAL"
	EntryKindPayroll EntryKind = "PAYROLL"
	EntryKindUnknown EntryKind = "UNKNOWN"
)

// ParseEntryKind canonicalizes a raw ledger-entry kind label.
func ParseEntryKind(input string) EntryKind {
	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]EntryKind{
		"invoice":        EntryKindInvoice,
		"inv":            EntryKindInvoice,
		"bill":           EntryKindInvoice,
		"ap invoice":     EntryKindInvoice,
		"vendor invoice": EntryKindInvoice,
		"journal":        EntryKindJournal,
		"journal entry":  EntryKindJournal,
		"je":             EntryKindJournal,
		"adjustment":     EntryKindJournal,
		"payroll":        EntryKindPayroll,
		"pay":            EntryKindPayroll,
		"wages":          EntryKindPayroll,
	}

	if k, ok := synonyms[normalized]; ok {
		return k
	}
	return EntryKindUnknown
}
