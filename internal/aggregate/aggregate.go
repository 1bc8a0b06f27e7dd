// Package aggregate turns the matcher's outcome into the final linked
// dataset: the ordered result sequence plus the run's aggregate counts.
package aggregate

import (
	"fmt"

	"ledgerlink/constants"
	"ledgerlink/internal/entity"
	"ledgerlink/internal/match"
)

// Result is the final linked dataset of one run.
type Result struct {
	Documents []*entity.AssembledDocument
	Matches   []entity.MatchResult
	// Passthrough holds non-invoice ledger entries, carried through unchanged.
	Passthrough []*entity.LedgerEntry
	Summary     entity.RunSummary
}

// Build partitions outcomes into matched / document-only / ledger-only
// buckets. No-match cases are first-class outputs with fixed confidence,
// never dropped.
func Build(docs []*entity.AssembledDocument, outcome match.Outcome, pagesIn, pagesDropped int) Result {
	res := Result{Documents: docs, Passthrough: outcome.Passthrough}
	res.Matches = append(res.Matches, outcome.Pairs...)

	for _, d := range outcome.UnmatchedDocuments {
		res.Matches = append(res.Matches, entity.MatchResult{
			Kind:       constants.MatchDocumentOnly,
			Confidence: constants.ConfidenceDocumentOnly,
			Rationale:  fmt.Sprintf("no ledger entry claimed document %s", d.ID),
			DocumentID: d.ID,
			Document:   d,
		})
	}
	for _, e := range outcome.UnmatchedEntries {
		res.Matches = append(res.Matches, entity.MatchResult{
			Kind:       constants.MatchLedgerOnly,
			Confidence: constants.ConfidenceLedgerOnly,
			Rationale:  fmt.Sprintf("no document claimed ledger entry %s", e.ID),
			LedgerID:   e.ID,
			Entry:      e,
		})
	}

	res.Summary = entity.RunSummary{
		PagesIn:            pagesIn,
		PagesDropped:       pagesDropped,
		DocumentsAssembled: len(docs),
		PassthroughEntries: len(outcome.Passthrough),
	}
	for _, d := range docs {
		if d.WasMultiPage {
			res.Summary.MultiPageDocuments++
		}
	}
	for _, mr := range res.Matches {
		switch mr.Kind {
		case constants.MatchByDocumentNumber:
			res.Summary.MatchedByDocumentNumber++
		case constants.MatchByPartyDateAmount:
			res.Summary.MatchedByPartyDateAmount++
		case constants.MatchDocumentOnly:
			res.Summary.DocumentOnly++
		case constants.MatchLedgerOnly:
			res.Summary.LedgerOnly++
		}
	}
	return res
}
