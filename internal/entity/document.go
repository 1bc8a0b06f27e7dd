package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ledgerlink/constants"
)

// AssembledDocument is the reconciled logical document built from one or
// more PageRecords. member pages are non-empty, strictly increasing, and
// every input page belongs to exactly one assembled document.
type AssembledDocument struct {
	ID uuid.UUID `json:"id"`

	DocumentNumber  string `json:"document_number,omitempty"`
	PartyName       string `json:"party_name,omitempty"`
	PartyIdentifier string `json:"party_identifier,omitempty"`
	BusinessCode    string `json:"business_code,omitempty"`

	DeclaredRole  constants.PageRole `json:"declared_role"`
	HasGrandTotal bool               `json:"has_grand_total"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	UnitCount     int                `json:"unit_count,omitempty"`

	EntryDate    string `json:"entry_date,omitempty"`
	ServiceStart string `json:"service_start,omitempty"`
	ServiceEnd   string `json:"service_end,omitempty"`

	LineItems           []LineItem `json:"line_items,omitempty"`
	ConfirmationNumbers []string   `json:"confirmation_numbers,omitempty"`
	ReferenceNumbers    []string   `json:"reference_numbers,omitempty"`
	PartyMemberNames    []string   `json:"party_member_names,omitempty"`

	MemberPages      []int        `json:"member_pages"`
	WasMultiPage     bool         `json:"was_multi_page"`
	MergeRationale   string       `json:"merge_rationale"`
	SourceProvenance []Provenance `json:"source_provenance"`
}
