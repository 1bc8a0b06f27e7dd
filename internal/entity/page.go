package entity

import (
	"github.com/shopspring/decimal"

	"ledgerlink/constants"
)

// LineItem is one extracted charge line on a page.
type LineItem struct {
	Date        string          `json:"date,omitempty"` // YYYY-MM-DD when parseable
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category,omitempty"`
}

// Provenance points back at the delimited-text source of a page.
type Provenance struct {
	FileID string `json:"file_id"`
	RowID  string `json:"row_id"`
}

// PageRecord is one page of scanned-source extraction, canonicalized by the
// normalizer. Immutable after normalization; consumed by the assembler.
type PageRecord struct {
	SourcePageIndex int    `json:"source_page_index"` // ordering key
	DocumentNumber  string `json:"document_number,omitempty"`
	PartyName       string `json:"party_name,omitempty"`
	PartyIdentifier string `json:"party_identifier,omitempty"`
	BusinessCode    string `json:"business_code,omitempty"`

	DeclaredRole  constants.PageRole `json:"declared_role"`
	HasGrandTotal bool               `json:"has_grand_total"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	UnitCount     int                `json:"unit_count,omitempty"`

	EntryDate    string `json:"entry_date,omitempty"` // YYYY-MM-DD when parseable, else raw
	ServiceStart string `json:"service_start,omitempty"`
	ServiceEnd   string `json:"service_end,omitempty"`

	LineItems           []LineItem `json:"line_items,omitempty"`
	ConfirmationNumbers []string   `json:"confirmation_numbers,omitempty"`
	ReferenceNumbers    []string   `json:"reference_numbers,omitempty"`
	PartyMemberNames    []string   `json:"party_member_names,omitempty"`

	SourceFileID string `json:"source_file_id"`
	SourceRowID  string `json:"source_row_id"`

	// Flags records upstream repairs (e.g. a negative amount zeroed out).
	Flags []string `json:"flags,omitempty"`
}

// HasPositiveTotal reports whether the page carries a confirmed, positive
// grand total of its own.
func (p *PageRecord) HasPositiveTotal() bool {
	return p.HasGrandTotal && p.TotalAmount.IsPositive()
}
