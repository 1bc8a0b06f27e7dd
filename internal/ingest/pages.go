// Package ingest loads the pipeline's two inputs from delimited text and
// workbook files. Parsing stops at producing raw records; all semantics
// live downstream.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"ledgerlink/internal/normalize"
)

// ReadPageRecordsCSV loads raw page rows from a delimited file with the
// columns file_id,row_id,page_index,payload (header row required).
func ReadPageRecordsCSV(path string, logger *slog.Logger) ([]normalize.RawPageRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pages file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // rows may be ragged; validated per row below

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read pages header: %w", err)
	}
	required := []string{"file_id", "row_id", "page_index", "payload"}
	col, err := columnIndex(header, required...)
	if err != nil {
		return nil, fmt.Errorf("pages file %s: %w", path, err)
	}
	// rows must reach the highest required column, wherever it sits in the header
	maxCol := 0
	for _, name := range required {
		if col[name] > maxCol {
			maxCol = col[name]
		}
	}

	var out []normalize.RawPageRecord
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read pages row %d: %w", line+1, err)
		}
		line++
		if len(row) <= maxCol {
			logger.Warn("ingest.pages.short_row", "file", path, "line", line)
			continue
		}
		idx, err := strconv.Atoi(row[col["page_index"]])
		if err != nil {
			logger.Warn("ingest.pages.bad_index", "file", path, "line", line, "value", row[col["page_index"]])
			continue
		}
		out = append(out, normalize.RawPageRecord{
			SourceFileID: row[col["file_id"]],
			SourceRowID:  row[col["row_id"]],
			PageIndex:    idx,
			Payload:      row[col["payload"]],
		})
	}

	logger.Info("ingest.pages.ok", "file", path, "rows", len(out))
	return out, nil
}

func columnIndex(header []string, required ...string) (map[string]int, error) {
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return col, nil
}
