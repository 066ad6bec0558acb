package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"courieraudit/pkg/contracts/domain"
)

// Sheet names in the result workbook.
const (
	SheetMerged     = "Merged"
	SheetQuarantine = "Quarantine"
	summarySheetFmt = "Summary %s"
)

var mergedHeaders = []string{
	"Order ID", "AWB Number", "Expected Charge", "Billed Charge",
	"Difference", "Status", "Overcharge Amount", "Undercharge Amount",
	"Weight (X)", "Weight (Courier)", "Weight Slab (X)", "Weight Slab (Courier)",
	"Zone (X)", "Zone (Courier)", "Courier", "Invoice Date",
	"Predicted Charge", "Source File", "Source Row",
}

var summaryHeaders = []string{
	"Group", "Count", "Total Expected", "Total Billed",
	"Total Overcharge", "Total Undercharge",
	"Correct", "Overcharged", "Undercharged",
}

var quarantineHeaders = []string{"Source File", "Source Row", "Reason"}

// ExcelWriter renders RunResults as Excel workbooks.
type ExcelWriter struct {
	logger *slog.Logger
}

// NewExcelWriter creates a workbook writer.
func NewExcelWriter(logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{logger: logger.With(slog.String("component", "excel_writer"))}
}

// Write renders the complete workbook to w: one Merged sheet, one summary
// sheet per dimension, and one Quarantine sheet.
func (e *ExcelWriter) Write(w io.Writer, result *domain.RunResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetMerged); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := e.writeMerged(f, result.Records); err != nil {
		return err
	}

	for _, summary := range result.Summaries {
		if err := e.writeSummary(f, summary); err != nil {
			return err
		}
	}

	if err := e.writeQuarantine(f, result.Quarantine); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("workbook exported",
		slog.String("run_id", result.RunID),
		slog.Int("record_count", len(result.Records)),
		slog.Int("summary_sheets", len(result.Summaries)))
	return nil
}

func (e *ExcelWriter) writeMerged(f *excelize.File, records []domain.ShipmentRecord) error {
	if err := setRow(f, SheetMerged, 1, toAny(mergedHeaders)); err != nil {
		return err
	}
	for i, rec := range records {
		row := []interface{}{
			rec.OrderID, rec.AWBNumber, rec.ExpectedCharge, rec.BilledCharge,
			rec.Difference, string(rec.Status), rec.OverchargeAmount, rec.UnderchargeAmount,
			optFloat(rec.WeightX), optFloat(rec.WeightCourier), rec.WeightSlabX, rec.WeightSlabCourier,
			rec.ZoneX, rec.ZoneCourier, rec.CourierName, optDate(rec),
			optFloat(rec.PredictedCharge), rec.SourceFile, rec.SourceRowIndex,
		}
		if err := setRow(f, SheetMerged, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (e *ExcelWriter) writeSummary(f *excelize.File, summary domain.DimensionSummary) error {
	sheet := SummarySheetName(summary.Dimension)
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	if err := setRow(f, sheet, 1, toAny(summaryHeaders)); err != nil {
		return err
	}
	for i, g := range summary.Groups {
		row := []interface{}{
			g.Key, g.Count, g.TotalExpected, g.TotalBilled,
			g.TotalOvercharge, g.TotalUndercharge,
			g.CorrectCount, g.OverchargedCount, g.UnderchargedCount,
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (e *ExcelWriter) writeQuarantine(f *excelize.File, entries []domain.QuarantineEntry) error {
	if _, err := f.NewSheet(SheetQuarantine); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetQuarantine, err)
	}
	if err := setRow(f, SheetQuarantine, 1, toAny(quarantineHeaders)); err != nil {
		return err
	}
	for i, q := range entries {
		if err := setRow(f, SheetQuarantine, i+2, []interface{}{q.SourceFile, q.SourceRowIndex, q.Reason}); err != nil {
			return err
		}
	}
	return nil
}

// SummarySheetName returns the workbook sheet name for a dimension.
// Excel caps sheet names at 31 characters.
func SummarySheetName(dimension string) string {
	name := fmt.Sprintf(summarySheetFmt, strings.ReplaceAll(dimension, "_", " "))
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

func setRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", rowNum, sheet, err)
	}
	return nil
}

func toAny(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func optFloat(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func optDate(rec domain.ShipmentRecord) interface{} {
	if rec.InvoiceDate == nil {
		return ""
	}
	return rec.InvoiceDate.Format("2006-01-02")
}
