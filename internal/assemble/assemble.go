// Package assemble groups the ordered page sequence into logical documents.
// The transition rules live in rules.go as a named table; this file owns the
// single-pass traversal and the grand-total lookahead.
package assemble

import (
	"fmt"
	"log/slog"
	"strings"

	"ledgerlink/internal/classify"
	"ledgerlink/internal/entity"
)

// Group is one assembled run of pages, with the fired rule names per
// appended page for the merge rationale.
type Group struct {
	Pages []*entity.PageRecord
	// Rationale holds one line per appended page ("page 11: explicit-continuation").
	Rationale []string
}

// Assembler walks the page sequence once. Position-sensitive and
// non-commutative: input must be strictly ascending by source page index.
type Assembler struct {
	logger *slog.Logger
	pol    classify.Policy
}

func New(pol classify.Policy, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{logger: logger, pol: pol}
}

// Assemble partitions pages into ordered groups. Every page lands in
// exactly one group; groups are ordered by their first page's index.
func (a *Assembler) Assemble(pages []*entity.PageRecord) ([]Group, error) {
	for i := 1; i < len(pages); i++ {
		if pages[i].SourcePageIndex <= pages[i-1].SourcePageIndex {
			return nil, fmt.Errorf("pages not strictly ascending at position %d: %d after %d",
				i, pages[i].SourcePageIndex, pages[i-1].SourcePageIndex)
		}
	}

	var groups []Group
	var open Group
	// set when the lookahead decided the group closes after the current page
	closeAfter := false

	closeOpen := func() {
		if len(open.Pages) > 0 {
			groups = append(groups, open)
			open = Group{}
		}
		closeAfter = false
	}

	for i, cur := range pages {
		if len(open.Pages) == 0 {
			open.Pages = append(open.Pages, cur)
			continue
		}
		if closeAfter {
			closeOpen()
			open.Pages = append(open.Pages, cur)
			continue
		}

		prev := open.Pages[len(open.Pages)-1]
		head := open.Pages[0]
		d := Evaluate(a.pol, prev, head, cur)
		if !d.Merge {
			if d.Override != "" {
				a.logger.Debug("assemble.split", "page", cur.SourcePageIndex, "override", d.Override)
			}
			closeOpen()
			open.Pages = append(open.Pages, cur)
			continue
		}

		open.Pages = append(open.Pages, cur)
		open.Rationale = append(open.Rationale,
			fmt.Sprintf("page %d: %s", cur.SourcePageIndex, strings.Join(d.Candidates, ", ")))

		// A positive grand total usually terminates the document. Hold the
		// group open only when the next page is a trailing continuation or a
		// shared-code folio, so multi-page totals are not truncated early.
		if cur.HasPositiveTotal() && !a.pol.IsEffectiveContinuation(cur) {
			if i+1 < len(pages) && a.holdsOpen(cur, pages[i+1]) {
				open.Rationale = append(open.Rationale,
					fmt.Sprintf("page %d: total reached, held open for page %d",
						cur.SourcePageIndex, pages[i+1].SourcePageIndex))
			} else {
				closeAfter = true
			}
		}
	}
	closeOpen()

	a.logger.Info("assemble.ok", "pages", len(pages), "groups", len(groups))
	return groups, nil
}

// holdsOpen is the lookahead: after a grand-total page, keep the group open
// only for an adjacent same-party page that is an effective continuation or
// a same-business-code folio without its own identifier.
func (a *Assembler) holdsOpen(cur, next *entity.PageRecord) bool {
	if next.SourcePageIndex != cur.SourcePageIndex+1 {
		return false
	}
	if !classify.SameParty(cur.PartyName, next.PartyName) {
		return false
	}
	if a.pol.IsEffectiveContinuation(next) {
		return true
	}
	return a.pol.IsFolio(next) && next.BusinessCode != "" &&
		next.BusinessCode == cur.BusinessCode && next.PartyIdentifier == ""
}
