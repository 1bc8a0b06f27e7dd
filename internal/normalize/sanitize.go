package normalize

import (
	"fmt"
	"maps"
	"strings"
)

// SanitizePayload
// - Renames known synonyms (vendor_name -> party_name, invoice_number -> document_number)
// - Drops null/empty optionals
// - Coerces numeric -> string for money-ish fields, truthy strings -> bool
// - Removes unknown keys (strict additionalProperties = false friendliness)
func SanitizePayload(m map[string]any) (map[string]any, []string) {
	dropped := make([]string, 0, 8)
	renamed := func(from, to string) {
		if v, ok := m[from]; ok {
			// don't overwrite existing value if already present
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			dropped = append(dropped, from+"->"+to)
		}
	}

	// 1) rename synonyms to our schema
	renamed("vendor_name", "party_name")
	renamed("vendor", "party_name")
	renamed("vendor_id", "party_identifier")
	renamed("vendor_identifier", "party_identifier")
	renamed("invoice_number", "document_number")
	renamed("invoice_no", "document_number")
	renamed("doc_number", "document_number")
	renamed("grand_total", "total_amount")
	renamed("total", "total_amount")
	renamed("cost_center", "business_code")
	renamed("invoice_date", "entry_date")
	renamed("date", "entry_date")
	renamed("period_start", "service_start")
	renamed("period_end", "service_end")

	// 2) a bare is_continuation flag becomes the declared role
	if v, ok := m["is_continuation"]; ok {
		if truthy(v) {
			if _, exists := m["declared_role"]; !exists {
				m["declared_role"] = "continuation"
			}
		}
		delete(m, "is_continuation")
		dropped = append(dropped, "is_continuation->declared_role")
	}

	// 3) coerce money and flag fields
	if v, ok := m["total_amount"]; ok {
		switch t := v.(type) {
		case float64:
			m["total_amount"] = fmt.Sprintf("%.2f", t)
		case string:
			s := strings.TrimSpace(strings.TrimPrefix(t, "$"))
			s = strings.ReplaceAll(s, ",", "")
			if s == "" {
				delete(m, "total_amount")
				dropped = append(dropped, "total_amount(empty)")
			} else {
				m["total_amount"] = s
			}
		case nil:
			delete(m, "total_amount")
			dropped = append(dropped, "total_amount(null)")
		default:
			delete(m, "total_amount")
			dropped = append(dropped, "total_amount(type)")
		}
	}
	if v, ok := m["has_grand_total"]; ok {
		if _, isBool := v.(bool); !isBool {
			m["has_grand_total"] = truthy(v)
		}
	}
	if v, ok := m["unit_count"]; ok {
		switch t := v.(type) {
		case float64:
			m["unit_count"] = int(t)
		case bool, nil:
			delete(m, "unit_count")
			dropped = append(dropped, "unit_count(type)")
		}
	}

	// 4) remove unknown keys (everything not in the schema set)
	allowed := map[string]struct{}{
		"document_number": {}, "party_name": {}, "party_identifier": {},
		"business_code": {}, "declared_role": {}, "has_grand_total": {},
		"total_amount": {}, "unit_count": {}, "entry_date": {},
		"service_start": {}, "service_end": {}, "line_items": {},
		"confirmation_numbers": {}, "reference_numbers": {}, "party_member_names": {},
	}
	for k := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	// 5) trim obvious strings, drop empties
	trimKeys := []string{
		"document_number", "party_name", "party_identifier", "business_code",
		"declared_role", "entry_date", "service_start", "service_end",
	}
	for _, k := range trimKeys {
		switch v := m[k].(type) {
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				delete(m, k)
				dropped = append(dropped, k+"(empty)")
			} else {
				m[k] = s
			}
		case nil:
			if _, ok := m[k]; ok {
				delete(m, k)
				dropped = append(dropped, k+"(null)")
			}
		}
	}

	// 6) string sets: keep only non-empty strings
	for _, k := range []string{"confirmation_numbers", "reference_numbers", "party_member_names"} {
		if v, ok := m[k]; ok {
			arr, isArr := v.([]any)
			if !isArr {
				delete(m, k)
				dropped = append(dropped, k+"(type)")
				continue
			}
			kept := make([]any, 0, len(arr))
			for _, e := range arr {
				if s, ok := e.(string); ok && strings.TrimSpace(s) != "" {
					kept = append(kept, strings.TrimSpace(s))
				}
			}
			if len(kept) == 0 {
				delete(m, k)
			} else {
				m[k] = kept
			}
		}
	}

	return m, dropped
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s == "yes" || s == "true" || s == "y" || s == "1"
	case float64:
		return t != 0
	default:
		return false
	}
}
