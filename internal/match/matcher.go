// Package match pairs assembled documents with ledger entries. Two greedy
// passes of decreasing reliability: normalized document-number equality
// first, then independent agreement of party, date, and amount. Greedy and
// first-found-wins, not globally optimal: iteration order determines the
// result when several candidates tie, and that order is part of the
// behavioral contract.
package match

import (
	"fmt"
	"log/slog"

	"ledgerlink/constants"
	"ledgerlink/internal/entity"
	"ledgerlink/internal/normalize"
)

// Outcome is the matcher's full result: claimed pairs plus the residual
// unmatched pools on each side. Non-invoice ledger entries never
// participate and pass through untouched.
type Outcome struct {
	Pairs              []entity.MatchResult
	UnmatchedDocuments []*entity.AssembledDocument
	UnmatchedEntries   []*entity.LedgerEntry // invoice-kind only
	Passthrough        []*entity.LedgerEntry // non-invoice kinds
}

type Matcher struct {
	logger  *slog.Logger
	aliases *AliasTable
}

func NewMatcher(aliases *AliasTable, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	if aliases == nil {
		aliases = &AliasTable{}
	}
	return &Matcher{logger: logger, aliases: aliases}
}

// Match runs both passes. Pass 2 starts only after pass 1 has fully
// resolved, because it operates on the residual unmatched set.
func (m *Matcher) Match(docs []*entity.AssembledDocument, entries []*entity.LedgerEntry) Outcome {
	var out Outcome

	var invoices []*entity.LedgerEntry
	for _, e := range entries {
		if e.EntryKind == constants.EntryKindInvoice {
			invoices = append(invoices, e)
		} else {
			out.Passthrough = append(out.Passthrough, e)
		}
	}

	// inert documents carry nothing to match on; they skip the candidate
	// pool but still surface in the document-only bucket
	var pool []*entity.AssembledDocument
	inert := make(map[*entity.AssembledDocument]bool)
	for _, d := range docs {
		if m.isInert(d) {
			inert[d] = true
			continue
		}
		pool = append(pool, d)
	}

	claimedDocs := NewClaimSet()
	claimedEntries := NewClaimSet()

	m.passByDocumentNumber(pool, invoices, claimedDocs, claimedEntries, &out)
	m.passByPartyDateAmount(pool, invoices, claimedDocs, claimedEntries, &out)

	for _, d := range docs {
		if inert[d] || !claimedDocs.Claimed(d.ID) {
			out.UnmatchedDocuments = append(out.UnmatchedDocuments, d)
		}
	}
	for _, e := range invoices {
		if !claimedEntries.Claimed(e.ID) {
			out.UnmatchedEntries = append(out.UnmatchedEntries, e)
		}
	}

	m.logger.Info("match.ok",
		"pairs", len(out.Pairs),
		"unmatched_documents", len(out.UnmatchedDocuments),
		"unmatched_entries", len(out.UnmatchedEntries),
		"passthrough", len(out.Passthrough))
	return out
}

// passByDocumentNumber is pass 1 (confidence 0.95): normalized document
// number plus case-insensitive party agreement.
func (m *Matcher) passByDocumentNumber(pool []*entity.AssembledDocument, invoices []*entity.LedgerEntry,
	claimedDocs, claimedEntries *ClaimSet, out *Outcome) {

	for _, e := range invoices {
		num := normalize.NormalizeDocNumber(e.DocumentNumber)
		if num == "" {
			continue
		}
		party := m.aliases.Canonical(e.PartyName)
		for _, d := range pool {
			if claimedDocs.Claimed(d.ID) {
				continue
			}
			if normalize.NormalizeDocNumber(d.DocumentNumber) != num {
				continue
			}
			if m.aliases.Canonical(d.PartyName) != party {
				continue
			}
			if !claimedDocs.Claim(d.ID) {
				continue
			}
			claimedEntries.Claim(e.ID)
			out.Pairs = append(out.Pairs, entity.MatchResult{
				Kind:       constants.MatchByDocumentNumber,
				Confidence: constants.ConfidenceDocumentNumber,
				Rationale: fmt.Sprintf("document number %q matches ledger %q after normalization; party %q agrees",
					d.DocumentNumber, e.DocumentNumber, e.PartyName),
				DocumentID: d.ID,
				LedgerID:   e.ID,
				Document:   d,
				Entry:      e,
			})
			break
		}
	}
}

// passByPartyDateAmount is pass 2 (confidence 0.85): party, date, and
// debit amount at integer cent precision must all independently agree.
func (m *Matcher) passByPartyDateAmount(pool []*entity.AssembledDocument, invoices []*entity.LedgerEntry,
	claimedDocs, claimedEntries *ClaimSet, out *Outcome) {

	for _, e := range invoices {
		if claimedEntries.Claimed(e.ID) {
			continue
		}
		if _, ok := normalize.ParseDate(e.EntryDate); !ok {
			continue
		}
		date := normalize.NormalizeDate(e.EntryDate)
		party := m.aliases.Canonical(e.PartyName)
		cents := normalize.Cents(e.DebitAmount)
		for _, d := range pool {
			if claimedDocs.Claimed(d.ID) {
				continue
			}
			if m.aliases.Canonical(d.PartyName) != party {
				continue
			}
			if normalize.NormalizeDate(d.EntryDate) != date {
				continue
			}
			if normalize.Cents(d.TotalAmount) != cents {
				continue
			}
			if !claimedDocs.Claim(d.ID) {
				continue
			}
			claimedEntries.Claim(e.ID)
			out.Pairs = append(out.Pairs, entity.MatchResult{
				Kind:       constants.MatchByPartyDateAmount,
				Confidence: constants.ConfidencePartyDateAmount,
				Rationale: fmt.Sprintf("party %q, date %s, and amount %s agree at cent precision",
					e.PartyName, date, e.DebitAmount.StringFixed(2)),
				DocumentID: d.ID,
				LedgerID:   e.ID,
				Document:   d,
				Entry:      e,
			})
			break
		}
	}
}

// isInert reports whether a document carries nothing the matcher can use.
func (m *Matcher) isInert(d *entity.AssembledDocument) bool {
	return d.TotalAmount.IsZero() &&
		constants.IsUnknownParty(d.PartyName) &&
		constants.IsPlaceholderNumber(d.DocumentNumber, nil)
}
