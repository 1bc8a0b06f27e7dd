package match

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ledgerlink/constants"
	"ledgerlink/internal/entity"
)

func doc(number, party, date string, total float64) *entity.AssembledDocument {
	return &entity.AssembledDocument{
		ID:             uuid.New(),
		DocumentNumber: number,
		PartyName:      party,
		EntryDate:      date,
		TotalAmount:    decimal.NewFromFloat(total),
	}
}

func invoice(number, party, date string, debit float64) *entity.LedgerEntry {
	return &entity.LedgerEntry{
		ID:             uuid.New(),
		EntryKind:      constants.EntryKindInvoice,
		DocumentNumber: number,
		PartyName:      party,
		EntryDate:      date,
		DebitAmount:    decimal.NewFromFloat(debit),
	}
}

func TestMatchByDocumentNumber(t *testing.T) {
	m := NewMatcher(nil, nil)
	d := doc("R35086148", "Acme Staffing", "2024-09-01", 542.87)
	e := invoice("r35086148", "acme staffing", "2024-09-03", 542.87)

	out := m.Match([]*entity.AssembledDocument{d}, []*entity.LedgerEntry{e})
	require.Len(t, out.Pairs, 1)
	require.Equal(t, constants.MatchByDocumentNumber, out.Pairs[0].Kind)
	require.Equal(t, constants.ConfidenceDocumentNumber, out.Pairs[0].Confidence)
	require.Equal(t, d.ID, out.Pairs[0].DocumentID)
	require.Equal(t, e.ID, out.Pairs[0].LedgerID)
	require.Empty(t, out.UnmatchedDocuments)
	require.Empty(t, out.UnmatchedEntries)
}

func TestMatchNumberIgnoresLeadingZeros(t *testing.T) {
	m := NewMatcher(nil, nil)
	d := doc("000INV-9", "Acme", "", 10)
	e := invoice("INV-9", "Acme", "", 10)

	out := m.Match([]*entity.AssembledDocument{d}, []*entity.LedgerEntry{e})
	require.Len(t, out.Pairs, 1)
}

func TestMatchByPartyDateAmount(t *testing.T) {
	m := NewMatcher(nil, nil)
	// numbers disagree, so pass 1 cannot claim; pass 2 must
	d := doc("INV-100", "Acme Hotels", "09/08/2024", 2240.00)
	e := invoice("LEDG-7", "Acme Hotels", "2024-09-08", 2240.00)

	out := m.Match([]*entity.AssembledDocument{d}, []*entity.LedgerEntry{e})
	require.Len(t, out.Pairs, 1)
	require.Equal(t, constants.MatchByPartyDateAmount, out.Pairs[0].Kind)
	require.Equal(t, constants.ConfidencePartyDateAmount, out.Pairs[0].Confidence)
}

func TestMatchAmountComparedAtCentPrecision(t *testing.T) {
	m := NewMatcher(nil, nil)
	d := doc("INV-1", "Acme", "2024-09-08", 2240.004)
	e := invoice("LEDG-1", "Acme", "2024-09-08", 2240.00)

	out := m.Match([]*entity.AssembledDocument{d}, []*entity.LedgerEntry{e})
	require.Len(t, out.Pairs, 1, "sub-cent difference rounds away")

	d2 := doc("INV-2", "Acme", "2024-09-08", 2240.01)
	e2 := invoice("LEDG-2", "Acme", "2024-09-08", 2240.00)
	out = m.Match([]*entity.AssembledDocument{d2}, []*entity.LedgerEntry{e2})
	require.Empty(t, out.Pairs, "one cent apart is not a match")
}

func TestMatchPassTwoSkipsUnparseableLedgerDate(t *testing.T) {
	m := NewMatcher(nil, nil)
	d := doc("INV-1", "Acme", "pending", 100)
	e := invoice("LEDG-1", "Acme", "pending", 100)

	out := m.Match([]*entity.AssembledDocument{d}, []*entity.LedgerEntry{e})
	require.Empty(t, out.Pairs, "unparseable dates never compare equal")
	require.Len(t, out.UnmatchedDocuments, 1)
	require.Len(t, out.UnmatchedEntries, 1)
}

func TestMatchAtMostOnce(t *testing.T) {
	m := NewMatcher(nil, nil)
	d := doc("INV-1", "Acme", "2024-09-08", 100)
	e1 := invoice("INV-1", "Acme", "2024-09-08", 100)
	e2 := invoice("INV-1", "Acme", "2024-09-08", 100)

	out := m.Match([]*entity.AssembledDocument{d}, []*entity.LedgerEntry{e1, e2})
	require.Len(t, out.Pairs, 1, "a document is claimed by at most one entry")
	require.Len(t, out.UnmatchedEntries, 1)
}

func TestMatchNonInvoicePassesThrough(t *testing.T) {
	m := NewMatcher(nil, nil)
	payment := &entity.LedgerEntry{
		ID:          uuid.New(),
		EntryKind:   constants.EntryKindJournal,
		PartyName:   "Acme",
		EntryDate:   "2024-09-08",
		DebitAmount: decimal.NewFromInt(100),
	}
	d := doc("INV-1", "Acme", "2024-09-08", 100)

	out := m.Match([]*entity.AssembledDocument{d}, []*entity.LedgerEntry{payment})
	require.Empty(t, out.Pairs)
	require.Len(t, out.Passthrough, 1)
	require.Empty(t, out.UnmatchedEntries, "non-invoice kinds never enter the unmatched pool")
}

func TestMatchInertDocumentExcludedFromPool(t *testing.T) {
	m := NewMatcher(nil, nil)
	inert := &entity.AssembledDocument{
		ID:             uuid.New(),
		DocumentNumber: "n/a",
		PartyName:      "unknown",
	}
	e := invoice("LEDG-1", "unknown", "2024-09-08", 0)

	out := m.Match([]*entity.AssembledDocument{inert}, []*entity.LedgerEntry{e})
	require.Empty(t, out.Pairs, "inert documents never match")
	require.Len(t, out.UnmatchedDocuments, 1, "but they still surface as document-only")
}

func TestMatchGreedyFirstFoundWins(t *testing.T) {
	m := NewMatcher(nil, nil)
	d1 := doc("INV-1", "Acme", "2024-09-08", 100)
	d2 := doc("INV-1", "Acme", "2024-09-08", 100)
	e := invoice("INV-1", "Acme", "2024-09-08", 100)

	out := m.Match([]*entity.AssembledDocument{d1, d2}, []*entity.LedgerEntry{e})
	require.Len(t, out.Pairs, 1)
	require.Equal(t, d1.ID, out.Pairs[0].DocumentID, "first candidate in pool order wins")
	require.Len(t, out.UnmatchedDocuments, 1)
	require.Equal(t, d2.ID, out.UnmatchedDocuments[0].ID)
}

func TestMatchAliasResolvesParty(t *testing.T) {
	aliases := &AliasTable{aliases: map[string]string{
		"acme inc": "acme staffing",
	}}
	m := NewMatcher(aliases, nil)
	d := doc("INV-1", "Acme Staffing", "", 100)
	e := invoice("INV-1", "ACME  Inc", "", 100)

	out := m.Match([]*entity.AssembledDocument{d}, []*entity.LedgerEntry{e})
	require.Len(t, out.Pairs, 1, "alias table bridges the party names")
}
