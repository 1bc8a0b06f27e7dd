package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"ledgerlink/internal/aggregate"
	"ledgerlink/internal/assemble"
	"ledgerlink/internal/entity"
	"ledgerlink/internal/match"
	"ledgerlink/internal/normalize"
	"ledgerlink/internal/reconcile"
)

// Processor coordinates the reconciliation stages in order: normalize →
// assemble → reconcile → match → aggregate. Each stage depends only on the
// previous stage's output.
type Processor struct {
	logger     *slog.Logger
	normalizer *normalize.Normalizer
	assembler  *assemble.Assembler
	reconciler *reconcile.Reconciler
	matcher    *match.Matcher
}

func NewProcessor(logger *slog.Logger, n *normalize.Normalizer, a *assemble.Assembler,
	r *reconcile.Reconciler, m *match.Matcher) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{logger: logger, normalizer: n, assembler: a, reconciler: r, matcher: m}
}

// Run executes one batch reconciliation over raw page rows and ledger
// entries. Unrepairable page payloads are dropped and counted, never fatal.
func (p *Processor) Run(ctx context.Context, raws []normalize.RawPageRecord, entries []*entity.LedgerEntry) (aggregate.Result, error) {
	pages := make([]*entity.PageRecord, 0, len(raws))
	dropped := 0
	for _, raw := range raws {
		if err := ctx.Err(); err != nil {
			return aggregate.Result{}, err
		}
		rec, err := p.normalizer.Normalize(raw)
		if err != nil {
			p.logger.Warn("processor.normalize.dropped", "err", err)
			dropped++
			continue
		}
		pages = append(pages, rec)
	}

	// the assembler is position-sensitive; establish the total order here
	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].SourcePageIndex < pages[j].SourcePageIndex
	})

	groups, err := p.assembler.Assemble(pages)
	if err != nil {
		return aggregate.Result{}, fmt.Errorf("assemble: %w", err)
	}
	p.logger.Debug("processor.assemble.ok", "pages", len(pages), "groups", len(groups))

	docs := p.reconciler.ReconcileAll(groups)
	outcome := p.matcher.Match(docs, entries)
	res := aggregate.Build(docs, outcome, len(raws), dropped)

	p.logger.Info("processor.run.ok",
		"pages_in", res.Summary.PagesIn,
		"pages_dropped", res.Summary.PagesDropped,
		"documents", res.Summary.DocumentsAssembled,
		"multi_page", res.Summary.MultiPageDocuments,
		"matched_by_number", res.Summary.MatchedByDocumentNumber,
		"matched_by_party_date_amount", res.Summary.MatchedByPartyDateAmount,
		"document_only", res.Summary.DocumentOnly,
		"ledger_only", res.Summary.LedgerOnly,
		"passthrough", res.Summary.PassthroughEntries,
	)
	return res, nil
}
