package normalize

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"ledgerlink/constants"
	"ledgerlink/internal/entity"
)

// RawPageRecord is one row of delimited-text ingestion before the embedded
// payload has been decoded.
type RawPageRecord struct {
	SourceFileID string
	SourceRowID  string
	PageIndex    int
	Payload      string
}

// Normalizer coerces raw per-page records into the canonical PageRecord
// shape, tolerating truncated or fenced payloads.
type Normalizer struct {
	logger *slog.Logger
	schema map[string]any
}

func New(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger, schema: BuildPagePayloadSchema()}
}

// Normalize decodes one raw record. A nil error means the record is usable;
// a non-nil error means the payload was unrepairable and the record is
// excluded from assembly (callers log and continue, they do not abort).
func (n *Normalizer) Normalize(raw RawPageRecord) (*entity.PageRecord, error) {
	blob := CleanBlob(raw.Payload)
	if blob == "" {
		return nil, fmt.Errorf("row %s/%s: empty payload", raw.SourceFileID, raw.SourceRowID)
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(blob), &m); err != nil {
		repaired, ok := RepairJSON(blob)
		if !ok {
			return nil, fmt.Errorf("row %s/%s: payload unparseable: %w", raw.SourceFileID, raw.SourceRowID, err)
		}
		if err2 := json.Unmarshal([]byte(repaired), &m); err2 != nil {
			return nil, fmt.Errorf("row %s/%s: payload unrepairable: %w", raw.SourceFileID, raw.SourceRowID, err2)
		}
		n.logger.Warn("normalize.repair", "file_id", raw.SourceFileID, "row_id", raw.SourceRowID,
			"trimmed_bytes", len(blob)-len(repaired))
	}

	m, dropped := SanitizePayload(m)
	if len(dropped) > 0 {
		n.logger.Debug("normalize.sanitize", "file_id", raw.SourceFileID, "row_id", raw.SourceRowID, "dropped", dropped)
	}

	clean, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("row %s/%s: re-encode payload: %w", raw.SourceFileID, raw.SourceRowID, err)
	}
	if err := ValidateAgainstSchema(n.schema, clean); err != nil {
		return nil, fmt.Errorf("row %s/%s: %w", raw.SourceFileID, raw.SourceRowID, err)
	}

	return n.toPageRecord(raw, m), nil
}

func (n *Normalizer) toPageRecord(raw RawPageRecord, m map[string]any) *entity.PageRecord {
	rec := &entity.PageRecord{
		SourcePageIndex: raw.PageIndex,
		SourceFileID:    raw.SourceFileID,
		SourceRowID:     raw.SourceRowID,

		DocumentNumber:  getString(m, "document_number"),
		PartyName:       getString(m, "party_name"),
		PartyIdentifier: getString(m, "party_identifier"),
		BusinessCode:    getString(m, "business_code"),
		DeclaredRole:    constants.ParsePageRole(getString(m, "declared_role")),
		HasGrandTotal:   getBool(m, "has_grand_total"),

		EntryDate:    NormalizeDate(getString(m, "entry_date")),
		ServiceStart: NormalizeDate(getString(m, "service_start")),
		ServiceEnd:   NormalizeDate(getString(m, "service_end")),

		ConfirmationNumbers: getStringSlice(m, "confirmation_numbers"),
		ReferenceNumbers:    getStringSlice(m, "reference_numbers"),
		PartyMemberNames:    getStringSlice(m, "party_member_names"),
	}

	if v, ok := m["unit_count"]; ok {
		switch t := v.(type) {
		case int:
			rec.UnitCount = t
		case float64:
			rec.UnitCount = int(t)
		}
	}

	total, flagged := ParseMoney(m["total_amount"])
	rec.TotalAmount = total
	if flagged {
		rec.Flags = append(rec.Flags, "total_amount_coerced")
	}

	if items, ok := m["line_items"].([]any); ok {
		for _, it := range items {
			im, ok := it.(map[string]any)
			if !ok {
				continue
			}
			li := entity.LineItem{
				Date:        NormalizeDate(getString(im, "date")),
				Description: getString(im, "description"),
				Category:    getString(im, "category"),
			}
			var f bool
			if li.Quantity, f = ParseMoney(im["quantity"]); f {
				rec.Flags = append(rec.Flags, "line_item_quantity_coerced")
			}
			if li.UnitPrice, f = ParseMoney(im["unit_price"]); f {
				rec.Flags = append(rec.Flags, "line_item_unit_price_coerced")
			}
			if li.Amount, f = ParseMoney(im["amount"]); f {
				rec.Flags = append(rec.Flags, "line_item_amount_coerced")
			}
			rec.LineItems = append(rec.LineItems, li)
		}
	}

	return rec
}

func getString(m map[string]any, k string) string {
	if v, ok := m[k].(string); ok {
		return v
	}
	return ""
}

func getBool(m map[string]any, k string) bool {
	if v, ok := m[k].(bool); ok {
		return v
	}
	return false
}

func getStringSlice(m map[string]any, k string) []string {
	arr, ok := m[k].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
