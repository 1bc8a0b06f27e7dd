package pipeline

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ledgerlink/constants"
	"ledgerlink/internal/assemble"
	"ledgerlink/internal/classify"
	"ledgerlink/internal/entity"
	"ledgerlink/internal/match"
	"ledgerlink/internal/normalize"
	"ledgerlink/internal/reconcile"
)

func newProcessor(t *testing.T) *Processor {
	t.Helper()
	pol := classify.DefaultPolicy()
	return NewProcessor(nil,
		normalize.New(nil),
		assemble.New(pol, nil),
		reconcile.New(pol, nil),
		match.NewMatcher(nil, nil),
	)
}

// End to end: a three-page document assembles, reconciles, and claims its
// ledger entry by document number.
func TestRunEndToEnd(t *testing.T) {
	p := newProcessor(t)

	raws := []normalize.RawPageRecord{
		{SourceFileID: "batch-1", SourceRowID: "1", PageIndex: 10,
			Payload: `{"document_number":"R35086148","party_name":"Acme Staffing","party_identifier":"VND-77",` +
				`"business_code":"BC-9","entry_date":"2024-09-01"}`},
		{SourceFileID: "batch-1", SourceRowID: "2", PageIndex: 11,
			Payload: `{"party_name":"Acme Staffing","declared_role":"CONTINUATION"}`},
		{SourceFileID: "batch-1", SourceRowID: "3", PageIndex: 12,
			Payload: `{"document_number":"9000123","party_name":"Acme Staffing","business_code":"BC-9",` +
				`"has_grand_total":true,"total_amount":"542.87"}`},
	}
	entries := []*entity.LedgerEntry{{
		ID:             uuid.New(),
		EntryKind:      constants.EntryKindInvoice,
		DocumentNumber: "R35086148",
		PartyName:      "Acme Staffing",
		EntryDate:      "2024-09-03",
		DebitAmount:    decimal.NewFromFloat(542.87),
	}}

	res, err := p.Run(context.Background(), raws, entries)
	require.NoError(t, err)

	require.Equal(t, 3, res.Summary.PagesIn)
	require.Equal(t, 0, res.Summary.PagesDropped)
	require.Equal(t, 1, res.Summary.DocumentsAssembled)
	require.Equal(t, 1, res.Summary.MultiPageDocuments)
	require.Equal(t, 1, res.Summary.MatchedByDocumentNumber)
	require.Equal(t, 0, res.Summary.DocumentOnly)
	require.Equal(t, 0, res.Summary.LedgerOnly)

	require.Len(t, res.Documents, 1)
	doc := res.Documents[0]
	require.Equal(t, []int{10, 11, 12}, doc.MemberPages)
	require.Equal(t, "R35086148", doc.DocumentNumber)
	require.True(t, doc.TotalAmount.Equal(decimal.NewFromFloat(542.87)))
}

func TestRunDropsUnrepairableRows(t *testing.T) {
	p := newProcessor(t)
	raws := []normalize.RawPageRecord{
		{SourceFileID: "f", SourceRowID: "1", PageIndex: 1, Payload: `{"party_name":"Acme","entry_date":"2024-09-01",` +
			`"party_identifier":"VND-1","business_code":"BC-1","document_number":"INV-1"}`},
		{SourceFileID: "f", SourceRowID: "2", PageIndex: 2, Payload: "not json at all"},
	}

	res, err := p.Run(context.Background(), raws, nil)
	require.NoError(t, err)
	require.Equal(t, 2, res.Summary.PagesIn)
	require.Equal(t, 1, res.Summary.PagesDropped)
	require.Equal(t, 1, res.Summary.DocumentsAssembled)
}

func TestRunSortsPagesBeforeAssembly(t *testing.T) {
	p := newProcessor(t)
	raws := []normalize.RawPageRecord{
		{SourceFileID: "f", SourceRowID: "2", PageIndex: 11, Payload: `{"party_name":"Acme","declared_role":"CONTINUATION"}`},
		{SourceFileID: "f", SourceRowID: "1", PageIndex: 10, Payload: `{"party_name":"Acme","entry_date":"2024-09-01",` +
			`"party_identifier":"VND-1","business_code":"BC-1","document_number":"INV-1"}`},
	}

	res, err := p.Run(context.Background(), raws, nil)
	require.NoError(t, err)
	require.Equal(t, 1, res.Summary.DocumentsAssembled)
	require.Equal(t, []int{10, 11}, res.Documents[0].MemberPages)
}

func TestRunCarriesPassthroughEntries(t *testing.T) {
	p := newProcessor(t)
	raws := []normalize.RawPageRecord{
		{SourceFileID: "f", SourceRowID: "1", PageIndex: 1, Payload: `{"party_name":"Acme","entry_date":"2024-09-01",` +
			`"party_identifier":"VND-1","business_code":"BC-1","document_number":"INV-1"}`},
	}
	journal := &entity.LedgerEntry{
		ID:        uuid.New(),
		EntryKind: constants.EntryKindJournal,
		PartyName: "Acme",
		EntryDate: "2024-09-01",
	}

	res, err := p.Run(context.Background(), raws, []*entity.LedgerEntry{journal})
	require.NoError(t, err)
	require.Equal(t, []*entity.LedgerEntry{journal}, res.Passthrough)
	require.Equal(t, 1, res.Summary.PassthroughEntries)
	require.Equal(t, 0, res.Summary.LedgerOnly, "non-invoice kinds never count as ledger-only")
}

func TestRunEmitsDottedEventNames(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	pol := classify.DefaultPolicy()
	p := NewProcessor(logger,
		normalize.New(logger),
		assemble.New(pol, logger),
		reconcile.New(pol, logger),
		match.NewMatcher(nil, logger),
	)

	_, err := p.Run(context.Background(), []normalize.RawPageRecord{
		{SourceFileID: "f", SourceRowID: "1", PageIndex: 1, Payload: `{"party_name":"Acme"}`},
	}, nil)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "processor.assemble.ok")
	require.Contains(t, buf.String(), "processor.run.ok")
}

func TestRunHonorsContextCancellation(t *testing.T) {
	p := newProcessor(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Run(ctx, []normalize.RawPageRecord{{PageIndex: 1, Payload: "{}"}}, nil)
	require.ErrorIs(t, err, context.Canceled)
}
