package domain

import (
	"time"
)

// Canonical field names recognized by the pipeline. Header spellings from
// source files are mapped onto these via the configured alias table.
const (
	FieldOrderID           = "order_id"
	FieldAWBNumber         = "awb_number"
	FieldExpectedCharge    = "expected_charge"
	FieldBilledCharge      = "billed_charge"
	FieldWeightX           = "weight_x"
	FieldWeightSlabX       = "weight_slab_x"
	FieldWeightCourier     = "weight_courier"
	FieldWeightSlabCourier = "weight_slab_courier"
	FieldZoneX             = "zone_x"
	FieldZoneCourier       = "zone_courier"
	FieldInvoiceDate       = "invoice_date"
	FieldCourierName       = "courier_name"
)

// RequiredFields are the canonical fields every source file must provide a
// header for. A file missing any of them is rejected in full.
var RequiredFields = []string{
	FieldOrderID,
	FieldAWBNumber,
	FieldExpectedCharge,
	FieldBilledCharge,
}

// OptionalFields are the canonical fields a source file may provide.
var OptionalFields = []string{
	FieldWeightX,
	FieldWeightSlabX,
	FieldWeightCourier,
	FieldWeightSlabCourier,
	FieldZoneX,
	FieldZoneCourier,
	FieldInvoiceDate,
	FieldCourierName,
}

// RawRow maps original header spellings to raw cell values for one logical
// row, exactly as produced by the file reader.
type RawRow map[string]string

// FileRows is the unit handed to the pipeline by the file-reader
// collaborator: one source file's header set and its logical rows.
type FileRows struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	Rows    []RawRow `json:"rows"`
}

// NormalizedRow is a row whose headers have been resolved to canonical field
// names. Values are still untyped strings; Extras holds headers that matched
// no alias and are carried through untouched.
type NormalizedRow struct {
	Fields         map[string]string `json:"fields"`
	Extras         map[string]string `json:"extras,omitempty"`
	SourceFile     string            `json:"source_file"`
	SourceRowIndex int               `json:"source_row_index"`
}

// ReconciliationStatus classifies a shipment's charge discrepancy.
type ReconciliationStatus string

const (
	StatusCorrect      ReconciliationStatus = "Correct"
	StatusOvercharged  ReconciliationStatus = "Overcharged"
	StatusUndercharged ReconciliationStatus = "Undercharged"
)

// ShipmentRecord is the typed, validated unit of work. Optional numeric
// fields are nil when the source cell was absent or unparseable; optional
// label fields are empty strings when absent.
type ShipmentRecord struct {
	OrderID   string `json:"order_id"`
	AWBNumber string `json:"awb_number"`

	ExpectedCharge float64 `json:"expected_charge"`
	BilledCharge   float64 `json:"billed_charge"`

	WeightX           *float64   `json:"weight_x,omitempty"`
	WeightCourier     *float64   `json:"weight_courier,omitempty"`
	WeightSlabX       string     `json:"weight_slab_x,omitempty"`
	WeightSlabCourier string     `json:"weight_slab_courier,omitempty"`
	ZoneX             string     `json:"zone_x,omitempty"`
	ZoneCourier       string     `json:"zone_courier,omitempty"`
	CourierName       string     `json:"courier_name,omitempty"`
	InvoiceDate       *time.Time `json:"invoice_date,omitempty"`

	SourceFile     string `json:"source_file"`
	SourceRowIndex int    `json:"source_row_index"`

	Difference        float64              `json:"difference"`
	Status            ReconciliationStatus `json:"status"`
	OverchargeAmount  float64              `json:"overcharge_amount"`
	UnderchargeAmount float64              `json:"undercharge_amount"`

	// PredictedCharge is attached by the external scoring collaborator,
	// never computed by the pipeline.
	PredictedCharge *float64 `json:"predicted_charge,omitempty"`
}

// Key returns the business identifier used for cross-file merging: the
// order ID when present, else the AWB number, else empty.
func (r ShipmentRecord) Key() string {
	if r.OrderID != "" {
		return r.OrderID
	}
	return r.AWBNumber
}

// Keys returns every non-empty business identifier the record carries.
// Either identifier alone is sufficient for a cross-file match.
func (r ShipmentRecord) Keys() []string {
	keys := make([]string, 0, 2)
	if r.OrderID != "" {
		keys = append(keys, r.OrderID)
	}
	if r.AWBNumber != "" {
		keys = append(keys, r.AWBNumber)
	}
	return keys
}

// QuarantineEntry records a row excluded from processing, with enough
// context to locate and fix the source cell.
type QuarantineEntry struct {
	SourceFile     string `json:"source_file"`
	SourceRowIndex int    `json:"source_row_index"`
	Reason         string `json:"reason"`
}

// FileError reports a source file rejected before per-row processing.
type FileError struct {
	SourceFile string   `json:"source_file"`
	Missing    []string `json:"missing_columns"`
}

func (e FileError) Error() string {
	return "missing required columns in " + e.SourceFile
}
