package constants

// MatchKind is the canonical outcome kind for one match result.
type MatchKind string

// Stable values (store these exact strings in DB and reports).
const (
	MatchByDocumentNumber  MatchKind = "BY_DOCUMENT_NUMBER"   // pass 1: normalized document-number + party
	MatchByPartyDateAmount MatchKind = "BY_PARTY_DATE_AMOUNT" // pass 2: party + date + amount at cent precision
	MatchDocumentOnly      MatchKind = "DOCUMENT_ONLY"        // assembled document never claimed
	MatchLedgerOnly        MatchKind = "LEDGER_ONLY"          // invoice ledger entry never claimed
)

// Fixed confidence tiers. These are reliability labels for downstream
// filtering, not probabilistic estimates.
const (
	ConfidenceDocumentNumber  = 0.95
	ConfidencePartyDateAmount = 0.85
	ConfidenceLedgerOnly      = 1.00 // ledger is authoritative
	ConfidenceDocumentOnly    = 0.50 // unverified extraction
)

// TwoSided reports whether k links a document to a ledger entry.
func (k MatchKind) TwoSided() bool {
	return k == MatchByDocumentNumber || k == MatchByPartyDateAmount
}
