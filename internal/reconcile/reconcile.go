// Package reconcile collapses each assembled group of pages into one
// logical document record.
package reconcile

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"ledgerlink/constants"
	"ledgerlink/internal/assemble"
	"ledgerlink/internal/classify"
	"ledgerlink/internal/entity"
	"ledgerlink/internal/normalize"
)

// documentNamespace seeds deterministic document IDs so re-running the same
// input yields identical output. Project-specific, not one of the RFC 4122
// well-known namespaces.
var documentNamespace = uuid.MustParse("9d2c7f51-41e6-4b08-8f63-5a0d3b7c21e4")

type Reconciler struct {
	logger *slog.Logger
	pol    classify.Policy
}

func New(pol classify.Policy, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{logger: logger, pol: pol}
}

// ReconcileAll produces one assembled document per group, preserving group
// order. Groups are independent, so reconciliation runs concurrently with
// results written to indexed slots.
func (r *Reconciler) ReconcileAll(groups []assemble.Group) []*entity.AssembledDocument {
	docs := make([]*entity.AssembledDocument, len(groups))
	var wg sync.WaitGroup
	for i := range groups {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			docs[i] = r.Reconcile(groups[i])
		}(i)
	}
	wg.Wait()
	return docs
}

// Reconcile merges one group's member pages into a single document record.
func (r *Reconciler) Reconcile(g assemble.Group) *entity.AssembledDocument {
	if len(g.Pages) == 0 {
		return nil
	}
	if len(g.Pages) == 1 {
		return r.fromSinglePage(g.Pages[0])
	}
	return r.fromMultiPage(g)
}

func (r *Reconciler) fromSinglePage(p *entity.PageRecord) *entity.AssembledDocument {
	doc := &entity.AssembledDocument{
		DocumentNumber:  p.DocumentNumber,
		PartyName:       p.PartyName,
		PartyIdentifier: p.PartyIdentifier,
		BusinessCode:    p.BusinessCode,
		DeclaredRole:    p.DeclaredRole,
		HasGrandTotal:   p.HasGrandTotal,
		TotalAmount:     p.TotalAmount,
		UnitCount:       p.UnitCount,
		EntryDate:       p.EntryDate,
		ServiceStart:    p.ServiceStart,
		ServiceEnd:      p.ServiceEnd,
		LineItems:       p.LineItems,
		ConfirmationNumbers: p.ConfirmationNumbers,
		ReferenceNumbers:    p.ReferenceNumbers,
		PartyMemberNames:    p.PartyMemberNames,

		MemberPages:      []int{p.SourcePageIndex},
		WasMultiPage:     false,
		MergeRationale:   "single page",
		SourceProvenance: []entity.Provenance{{FileID: p.SourceFileID, RowID: p.SourceRowID}},
	}
	doc.ID = documentID(doc)
	return doc
}

func (r *Reconciler) fromMultiPage(g assemble.Group) *entity.AssembledDocument {
	pages := g.Pages
	doc := &entity.AssembledDocument{WasMultiPage: true}

	// financial fields come from the largest positive grand total; ties go
	// to the first occurrence, and with no qualifying page the group head
	// stands in.
	totalsPage := pages[0]
	found := false
	for _, p := range pages {
		if !p.HasGrandTotal || !p.TotalAmount.IsPositive() {
			continue
		}
		if !found || p.TotalAmount.GreaterThan(totalsPage.TotalAmount) {
			totalsPage = p
			found = true
		}
	}
	doc.TotalAmount = totalsPage.TotalAmount
	doc.HasGrandTotal = totalsPage.HasGrandTotal

	// header fields: first member carrying a non-empty value for each field
	doc.PartyIdentifier = firstNonEmpty(pages, func(p *entity.PageRecord) string { return p.PartyIdentifier })
	doc.BusinessCode = firstNonEmpty(pages, func(p *entity.PageRecord) string { return p.BusinessCode })
	doc.EntryDate = firstParseableDate(pages)
	doc.DeclaredRole = pages[0].DeclaredRole

	for _, p := range pages {
		if !constants.IsUnknownParty(p.PartyName) {
			doc.PartyName = p.PartyName
			break
		}
	}
	for _, p := range pages {
		if !r.pol.IsPlaceholderNumber(p.DocumentNumber) {
			doc.DocumentNumber = p.DocumentNumber
			break
		}
	}

	// line items: concatenate then collapse exact duplicates from
	// overlapping extraction passes, first occurrence wins
	seen := make(map[string]struct{})
	for _, p := range pages {
		for _, li := range p.LineItems {
			key := li.Date + "\x1f" + li.Description + "\x1f" + li.Amount.String()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			doc.LineItems = append(doc.LineItems, li)
		}
	}

	doc.ConfirmationNumbers = unionStrings(pages, func(p *entity.PageRecord) []string { return p.ConfirmationNumbers })
	doc.ReferenceNumbers = unionStrings(pages, func(p *entity.PageRecord) []string { return p.ReferenceNumbers })
	doc.PartyMemberNames = unionStrings(pages, func(p *entity.PageRecord) []string { return p.PartyMemberNames })

	doc.ServiceStart, doc.ServiceEnd = servicePeriod(pages)

	// max, never summed: a continuation page repeating the header's count
	// must not double it
	for _, p := range pages {
		if p.UnitCount > doc.UnitCount {
			doc.UnitCount = p.UnitCount
		}
	}

	for _, p := range pages {
		doc.MemberPages = append(doc.MemberPages, p.SourcePageIndex)
		doc.SourceProvenance = append(doc.SourceProvenance,
			entity.Provenance{FileID: p.SourceFileID, RowID: p.SourceRowID})
	}

	doc.MergeRationale = mergeRationale(g, totalsPage, found)
	doc.ID = documentID(doc)

	r.logger.Debug("reconcile.merged", "pages", len(pages),
		"first_page", pages[0].SourcePageIndex, "total", doc.TotalAmount)
	return doc
}

// mergeRationale enumerates the signals that drove the merge. Required for
// auditability, not just logging.
func mergeRationale(g assemble.Group, totalsPage *entity.PageRecord, totalFound bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "merged %d pages [", len(g.Pages))
	for i, p := range g.Pages {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%d", p.SourcePageIndex)
	}
	b.WriteString("]")
	if totalFound {
		fmt.Fprintf(&b, "; total %s from page %d", totalsPage.TotalAmount.StringFixed(2), totalsPage.SourcePageIndex)
	} else {
		b.WriteString("; no grand total page, financials from first page")
	}
	for _, line := range g.Rationale {
		b.WriteString("; ")
		b.WriteString(line)
	}
	return b.String()
}

func firstNonEmpty(pages []*entity.PageRecord, get func(*entity.PageRecord) string) string {
	for _, p := range pages {
		if v := strings.TrimSpace(get(p)); v != "" {
			return v
		}
	}
	return ""
}

func firstParseableDate(pages []*entity.PageRecord) string {
	for _, p := range pages {
		if _, ok := normalize.ParseDate(p.EntryDate); ok {
			return p.EntryDate
		}
	}
	return firstNonEmpty(pages, func(p *entity.PageRecord) string { return p.EntryDate })
}

func unionStrings(pages []*entity.PageRecord, get func(*entity.PageRecord) []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, p := range pages {
		for _, s := range get(p) {
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

func servicePeriod(pages []*entity.PageRecord) (start, end string) {
	for _, p := range pages {
		if t, ok := normalize.ParseDate(p.ServiceStart); ok {
			if start == "" {
				start = t.Format("2006-01-02")
			} else if s, _ := normalize.ParseDate(start); t.Before(s) {
				start = t.Format("2006-01-02")
			}
		}
		if t, ok := normalize.ParseDate(p.ServiceEnd); ok {
			if end == "" {
				end = t.Format("2006-01-02")
			} else if e, _ := normalize.ParseDate(end); t.After(e) {
				end = t.Format("2006-01-02")
			}
		}
	}
	return start, end
}

// documentID derives a stable identity from provenance and membership.
func documentID(doc *entity.AssembledDocument) uuid.UUID {
	var b strings.Builder
	for _, pr := range doc.SourceProvenance {
		b.WriteString(pr.FileID)
		b.WriteString("/")
		b.WriteString(pr.RowID)
		b.WriteString(";")
	}
	for _, idx := range doc.MemberPages {
		fmt.Fprintf(&b, "%d,", idx)
	}
	return uuid.NewSHA1(documentNamespace, []byte(b.String()))
}
