package entity

// RunSummary is the aggregate count block for one reconciliation run.
type RunSummary struct {
	PagesIn            int `json:"pages_in"`
	PagesDropped       int `json:"pages_dropped"` // unrepairable payloads excluded from assembly
	DocumentsAssembled int `json:"documents_assembled"`
	MultiPageDocuments int `json:"multi_page_documents"`

	MatchedByDocumentNumber  int `json:"matched_by_document_number"`
	MatchedByPartyDateAmount int `json:"matched_by_party_date_amount"`
	DocumentOnly             int `json:"document_only"`
	LedgerOnly               int `json:"ledger_only"`
	PassthroughEntries       int `json:"passthrough_entries"` // non-invoice kinds, never matched
}
