package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"ledgerlink/constants"
	"ledgerlink/internal/entity"
	"ledgerlink/internal/normalize"
)

// ledgerNamespace seeds stable ledger-entry identities from file + row.
// Project-specific, not one of the RFC 4122 well-known namespaces.
var ledgerNamespace = uuid.MustParse("3f8e1a9c-6b74-4d2f-a1c5-8e94d07b362a")

var ledgerColumns = []string{"entry_kind", "document_number", "party_name", "party_identifier", "entry_date", "debit_amount", "credit_amount"}

// ReadLedger loads ledger entries from either a CSV export or an XLSX
// workbook, chosen by extension.
func ReadLedger(path string, logger *slog.Logger) ([]*entity.LedgerEntry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readLedgerXLSX(path, logger)
	default:
		return readLedgerCSV(path, logger)
	}
}

func readLedgerCSV(path string, logger *slog.Logger) ([]*entity.LedgerEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read ledger header: %w", err)
	}
	col, err := columnIndex(header, ledgerColumns...)
	if err != nil {
		return nil, fmt.Errorf("ledger file %s: %w", path, err)
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read ledger row: %w", err)
		}
		rows = append(rows, row)
	}
	return ledgerFromRows(path, rows, col, logger)
}

func readLedgerXLSX(path string, logger *slog.Logger) ([]*entity.LedgerEntry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read ledger sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("ledger workbook %s: empty sheet %q", path, sheet)
	}
	col, err := columnIndex(rows[0], ledgerColumns...)
	if err != nil {
		return nil, fmt.Errorf("ledger workbook %s: %w", path, err)
	}
	return ledgerFromRows(path, rows[1:], col, logger)
}

func ledgerFromRows(path string, rows [][]string, col map[string]int, logger *slog.Logger) ([]*entity.LedgerEntry, error) {
	cell := func(row []string, name string) string {
		i := col[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := make([]*entity.LedgerEntry, 0, len(rows))
	for i, row := range rows {
		debit, debitFlag := normalize.ParseMoney(cell(row, "debit_amount"))
		credit, creditFlag := normalize.ParseMoney(cell(row, "credit_amount"))
		if debitFlag || creditFlag {
			logger.Warn("ingest.ledger.amount_coerced", "file", path, "row", i+2)
		}
		e := &entity.LedgerEntry{
			ID:              uuid.NewSHA1(ledgerNamespace, []byte(fmt.Sprintf("%s:%d", filepath.Base(path), i))),
			EntryKind:       constants.ParseEntryKind(cell(row, "entry_kind")),
			DocumentNumber:  cell(row, "document_number"),
			PartyName:       cell(row, "party_name"),
			PartyIdentifier: cell(row, "party_identifier"),
			EntryDate:       normalize.NormalizeDate(cell(row, "entry_date")),
			DebitAmount:     debit,
			CreditAmount:    credit,
		}
		out = append(out, e)
	}

	logger.Info("ingest.ledger.ok", "file", path, "rows", len(out))
	return out, nil
}
