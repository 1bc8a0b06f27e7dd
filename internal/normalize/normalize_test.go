package normalize

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWellFormedPayload(t *testing.T) {
	n := New(nil)
	rec, err := n.Normalize(RawPageRecord{
		SourceFileID: "batch-1",
		SourceRowID:  "7",
		PageIndex:    10,
		Payload: `{"document_number":"INV-9","party_name":"Acme Staffing","total_amount":125.5,` +
			`"has_grand_total":"yes","declared_role":"none","entry_date":"09/01/2024",` +
			`"line_items":[{"description":"labor","amount":"125.50"}]}`,
	})
	require.NoError(t, err)
	require.Equal(t, "INV-9", rec.DocumentNumber)
	require.Equal(t, "Acme Staffing", rec.PartyName)
	require.True(t, rec.HasGrandTotal)
	require.True(t, rec.TotalAmount.Equal(decimal.NewFromFloat(125.5)))
	require.Equal(t, "2024-09-01", rec.EntryDate)
	require.Len(t, rec.LineItems, 1)
	require.Equal(t, 10, rec.SourcePageIndex)
}

func TestNormalizeRepairsTruncatedPayload(t *testing.T) {
	n := New(nil)
	rec, err := n.Normalize(RawPageRecord{
		SourceFileID: "batch-1",
		SourceRowID:  "8",
		PageIndex:    11,
		Payload: "```json\n" +
			`{"party_name":"Acme","line_items":[{"description":"a","amount":"10.00"},{"descrip`,
	})
	require.NoError(t, err)
	require.Equal(t, "Acme", rec.PartyName)
	require.Len(t, rec.LineItems, 1)
}

func TestNormalizeRenamesSynonyms(t *testing.T) {
	n := New(nil)
	rec, err := n.Normalize(RawPageRecord{
		PageIndex: 1,
		Payload:   `{"vendor_name":"Acme","invoice_number":"X1","is_continuation":true,"model_notes":"ignore"}`,
	})
	require.NoError(t, err)
	require.Equal(t, "Acme", rec.PartyName)
	require.Equal(t, "X1", rec.DocumentNumber)
	require.Equal(t, "CONTINUATION", string(rec.DeclaredRole))
}

func TestNormalizeFlagsNegativeAmount(t *testing.T) {
	n := New(nil)
	rec, err := n.Normalize(RawPageRecord{
		PageIndex: 2,
		Payload:   `{"party_name":"Acme","total_amount":"-12.00"}`,
	})
	require.NoError(t, err)
	require.True(t, rec.TotalAmount.IsZero())
	require.Contains(t, rec.Flags, "total_amount_coerced")
}

func TestNormalizeDropsUnrepairablePayload(t *testing.T) {
	n := New(nil)
	_, err := n.Normalize(RawPageRecord{PageIndex: 3, Payload: "total garbage, no structure"})
	require.Error(t, err)
}
