package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ledgerlink/constants"
)

// LedgerEntry is one authoritative transaction line. Immutable once loaded.
type LedgerEntry struct {
	ID              uuid.UUID          `json:"id"`
	EntryKind       constants.EntryKind `json:"entry_kind"`
	DocumentNumber  string             `json:"document_number,omitempty"`
	PartyName       string             `json:"party_name,omitempty"`
	PartyIdentifier string             `json:"party_identifier,omitempty"`
	EntryDate       string             `json:"entry_date,omitempty"`
	DebitAmount     decimal.Decimal    `json:"debit_amount"`
	CreditAmount    decimal.Decimal    `json:"credit_amount"`
}
