package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"ledgerlink/constants"
	"ledgerlink/internal/aggregate"
)

// Service produces XLSX bytes for run reports.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// BuildRunReportXLSX returns an XLSX workbook with one sheet per result
// bucket plus a summary sheet.
func (s *Service) BuildRunReportXLSX(res aggregate.Result) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	if err := s.writeMatched(f, res); err != nil {
		return nil, err
	}
	if err := s.writeDocumentOnly(f, res); err != nil {
		return nil, err
	}
	if err := s.writeLedgerOnly(f, res); err != nil {
		return nil, err
	}
	if err := s.writePassthrough(f, res); err != nil {
		return nil, err
	}
	if err := s.writeSummary(f, res); err != nil {
		return nil, err
	}
	// drop the default sheet excelize creates
	_ = f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.report.ok",
		"matches", len(res.Matches),
		"bytes", buf.Len(),
		"elapsed", time.Since(start),
	)
	return buf.Bytes(), nil
}

func (s *Service) writeMatched(f *excelize.File, res aggregate.Result) error {
	headers := []string{
		"Match Kind", "Confidence", "Document Number", "Party",
		"Document Total", "Ledger Debit", "Entry Date", "Member Pages", "Rationale",
	}
	rows := make([][]any, 0, len(res.Matches))
	for _, m := range res.Matches {
		if !m.Kind.TwoSided() {
			continue
		}
		rows = append(rows, []any{
			string(m.Kind), m.Confidence, m.Document.DocumentNumber, m.Entry.PartyName,
			m.Document.TotalAmount.StringFixed(2), m.Entry.DebitAmount.StringFixed(2),
			m.Entry.EntryDate, pageList(m.Document.MemberPages), m.Rationale,
		})
	}
	return writeSheet(f, "Matched", headers, rows)
}

func (s *Service) writeDocumentOnly(f *excelize.File, res aggregate.Result) error {
	headers := []string{
		"Document Number", "Party", "Total", "Entry Date",
		"Member Pages", "Multi Page", "Merge Rationale",
	}
	var rows [][]any
	for _, m := range res.Matches {
		if m.Kind != constants.MatchDocumentOnly {
			continue
		}
		d := m.Document
		rows = append(rows, []any{
			d.DocumentNumber, d.PartyName, d.TotalAmount.StringFixed(2), d.EntryDate,
			pageList(d.MemberPages), d.WasMultiPage, d.MergeRationale,
		})
	}
	return writeSheet(f, "Document Only", headers, rows)
}

func (s *Service) writeLedgerOnly(f *excelize.File, res aggregate.Result) error {
	headers := []string{"Document Number", "Party", "Entry Date", "Debit", "Credit"}
	var rows [][]any
	for _, m := range res.Matches {
		if m.Kind != constants.MatchLedgerOnly {
			continue
		}
		e := m.Entry
		rows = append(rows, []any{
			e.DocumentNumber, e.PartyName, e.EntryDate,
			e.DebitAmount.StringFixed(2), e.CreditAmount.StringFixed(2),
		})
	}
	return writeSheet(f, "Ledger Only", headers, rows)
}

func (s *Service) writePassthrough(f *excelize.File, res aggregate.Result) error {
	headers := []string{"Entry Kind", "Document Number", "Party", "Entry Date", "Debit", "Credit"}
	rows := make([][]any, 0, len(res.Passthrough))
	for _, e := range res.Passthrough {
		rows = append(rows, []any{
			string(e.EntryKind), e.DocumentNumber, e.PartyName, e.EntryDate,
			e.DebitAmount.StringFixed(2), e.CreditAmount.StringFixed(2),
		})
	}
	return writeSheet(f, "Passthrough", headers, rows)
}

func (s *Service) writeSummary(f *excelize.File, res aggregate.Result) error {
	sum := res.Summary
	rows := [][]any{
		{"Pages In", sum.PagesIn},
		{"Pages Dropped", sum.PagesDropped},
		{"Documents Assembled", sum.DocumentsAssembled},
		{"Multi-Page Documents", sum.MultiPageDocuments},
		{"Matched By Document Number", sum.MatchedByDocumentNumber},
		{"Matched By Party/Date/Amount", sum.MatchedByPartyDateAmount},
		{"Document Only", sum.DocumentOnly},
		{"Ledger Only", sum.LedgerOnly},
		{"Passthrough Entries", sum.PassthroughEntries},
	}
	return writeSheet(f, "Summary", []string{"Metric", "Count"}, rows)
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %q: %w", sheet, err)
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func pageList(pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return strings.Join(parts, " ")
}
