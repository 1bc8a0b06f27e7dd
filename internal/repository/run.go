package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"ledgerlink/constants"
	"ledgerlink/internal/aggregate"
)

// schema is portable across postgres and sqlite: TEXT identities,
// RFC3339 TEXT timestamps, amounts as fixed-point strings.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS recon_run (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		pages_in INTEGER NOT NULL,
		pages_dropped INTEGER NOT NULL,
		documents_assembled INTEGER NOT NULL,
		multi_page_documents INTEGER NOT NULL,
		matched_by_document_number INTEGER NOT NULL,
		matched_by_party_date_amount INTEGER NOT NULL,
		document_only INTEGER NOT NULL,
		ledger_only INTEGER NOT NULL,
		passthrough_entries INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS assembled_document (
		id TEXT NOT NULL,
		run_id TEXT NOT NULL,
		document_number TEXT,
		party_name TEXT,
		party_identifier TEXT,
		business_code TEXT,
		entry_date TEXT,
		total_amount TEXT NOT NULL,
		has_grand_total INTEGER NOT NULL,
		was_multi_page INTEGER NOT NULL,
		member_pages TEXT NOT NULL,
		merge_rationale TEXT NOT NULL,
		PRIMARY KEY (run_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS match_result (
		run_id TEXT NOT NULL,
		match_kind TEXT NOT NULL,
		confidence REAL NOT NULL,
		rationale TEXT NOT NULL,
		document_id TEXT,
		ledger_id TEXT
	)`,
}

// Migrate applies the schema. Idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

type RunRepository interface {
	SaveRun(ctx context.Context, runID uuid.UUID, status constants.RunStatus, res aggregate.Result) error
}

type runRepository struct {
	db       *sql.DB
	logger   *slog.Logger
	postgres bool
}

func NewRunRepository(db *sql.DB, postgres bool, logger *slog.Logger) RunRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &runRepository{db: db, logger: logger, postgres: postgres}
}

// rebind rewrites ? placeholders to $n for the postgres driver.
func (r *runRepository) rebind(q string) string {
	if !r.postgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, c := range q {
		if c == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (r *runRepository) SaveRun(ctx context.Context, runID uuid.UUID, status constants.RunStatus, res aggregate.Result) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	sum := res.Summary
	_, err = tx.ExecContext(ctx, r.rebind(
		`INSERT INTO recon_run (id, status, started_at, finished_at, pages_in, pages_dropped,
			documents_assembled, multi_page_documents, matched_by_document_number,
			matched_by_party_date_amount, document_only, ledger_only, passthrough_entries)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		runID.String(), string(status), now, now,
		sum.PagesIn, sum.PagesDropped, sum.DocumentsAssembled, sum.MultiPageDocuments,
		sum.MatchedByDocumentNumber, sum.MatchedByPartyDateAmount, sum.DocumentOnly,
		sum.LedgerOnly, sum.PassthroughEntries)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, d := range res.Documents {
		pages := make([]string, len(d.MemberPages))
		for i, p := range d.MemberPages {
			pages[i] = fmt.Sprintf("%d", p)
		}
		_, err = tx.ExecContext(ctx, r.rebind(
			`INSERT INTO assembled_document (id, run_id, document_number, party_name,
				party_identifier, business_code, entry_date, total_amount, has_grand_total,
				was_multi_page, member_pages, merge_rationale)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			d.ID.String(), runID.String(), d.DocumentNumber, d.PartyName,
			d.PartyIdentifier, d.BusinessCode, d.EntryDate, d.TotalAmount.StringFixed(2),
			boolInt(d.HasGrandTotal), boolInt(d.WasMultiPage),
			strings.Join(pages, " "), d.MergeRationale)
		if err != nil {
			return fmt.Errorf("insert document %s: %w", d.ID, err)
		}
	}

	for _, m := range res.Matches {
		var docID, ledgerID any
		if m.DocumentID != uuid.Nil {
			docID = m.DocumentID.String()
		}
		if m.LedgerID != uuid.Nil {
			ledgerID = m.LedgerID.String()
		}
		_, err = tx.ExecContext(ctx, r.rebind(
			`INSERT INTO match_result (run_id, match_kind, confidence, rationale, document_id, ledger_id)
			 VALUES (?, ?, ?, ?, ?, ?)`),
			runID.String(), string(m.Kind), m.Confidence, m.Rationale, docID, ledgerID)
		if err != nil {
			return fmt.Errorf("insert match result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	r.logger.Info("repository.run.saved", "run_id", runID,
		"documents", len(res.Documents), "matches", len(res.Matches))
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
