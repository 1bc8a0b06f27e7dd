package entity

import (
	"github.com/google/uuid"

	"ledgerlink/constants"
)

// MatchResult links one assembled document to at most one ledger entry.
// Single-sided kinds carry exactly one of the two references.
type MatchResult struct {
	Kind       constants.MatchKind `json:"match_kind"`
	Confidence float64             `json:"confidence"`
	Rationale  string              `json:"rationale"`

	DocumentID uuid.UUID `json:"document_id,omitempty"`
	LedgerID   uuid.UUID `json:"ledger_id,omitempty"`

	Document *AssembledDocument `json:"-"`
	Entry    *LedgerEntry       `json:"-"`
}
