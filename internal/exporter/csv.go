package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"courieraudit/pkg/contracts/domain"
)

// CSVOptions configures summary CSV writing.
type CSVOptions struct {
	// BOMPrefix prepends a UTF-8 BOM for Excel compatibility.
	BOMPrefix bool
}

// WriteSummaryCSV writes one dimension's summary groups as CSV.
func WriteSummaryCSV(w io.Writer, summary domain.DimensionSummary, options CSVOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeaders); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, g := range summary.Groups {
		record := []string{
			g.Key,
			strconv.Itoa(g.Count),
			formatAmount(g.TotalExpected),
			formatAmount(g.TotalBilled),
			formatAmount(g.TotalOvercharge),
			formatAmount(g.TotalUndercharge),
			strconv.Itoa(g.CorrectCount),
			strconv.Itoa(g.OverchargedCount),
			strconv.Itoa(g.UnderchargedCount),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write group %s: %w", g.Key, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteQuarantineCSV writes the quarantine report as CSV.
func WriteQuarantineCSV(w io.Writer, entries []domain.QuarantineEntry, options CSVOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(quarantineHeaders); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, q := range entries {
		if err := cw.Write([]string{q.SourceFile, strconv.Itoa(q.SourceRowIndex), q.Reason}); err != nil {
			return fmt.Errorf("failed to write entry: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
