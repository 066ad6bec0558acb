package domain

// UnknownGroup is the reserved group key for records with no value for the
// grouping dimension. Every record lands in exactly one group, so group
// counts always sum to the record count.
const UnknownGroup = "Unknown"

// Aggregation dimensions accepted by the pipeline.
const (
	DimSourceFile        = "source_file"
	DimCourierName       = "courier_name"
	DimZoneX             = "zone_x"
	DimZoneCourier       = "zone_courier"
	DimWeightSlabX       = "weight_slab_x"
	DimWeightSlabCourier = "weight_slab_courier"
	DimInvoiceMonth      = "invoice_month"
)

// Dimensions lists every supported aggregation dimension.
var Dimensions = []string{
	DimSourceFile,
	DimCourierName,
	DimZoneX,
	DimZoneCourier,
	DimWeightSlabX,
	DimWeightSlabCourier,
	DimInvoiceMonth,
}

// SummaryGroup holds the aggregate figures for one group key within a
// dimension. Produced fresh per aggregation request, never mutated after.
type SummaryGroup struct {
	Key string `json:"key"`

	Count             int     `json:"count"`
	TotalExpected     float64 `json:"total_expected"`
	TotalBilled       float64 `json:"total_billed"`
	TotalOvercharge   float64 `json:"total_overcharge"`
	TotalUndercharge  float64 `json:"total_undercharge"`
	CorrectCount      int     `json:"correct_count"`
	OverchargedCount  int     `json:"overcharged_count"`
	UnderchargedCount int     `json:"undercharged_count"`
}

// DimensionSummary is the full group set for one requested dimension,
// sorted by group key for deterministic output.
type DimensionSummary struct {
	Dimension string         `json:"dimension"`
	Groups    []SummaryGroup `json:"groups"`
}
