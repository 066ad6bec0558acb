package config

import (
	"courieraudit/pkg/contracts/domain"
)

// DefaultTolerance is the classification threshold, in currency units,
// applied when no tolerance is configured for a run.
const DefaultTolerance = 1.0

// DefaultDimensions are the aggregation dimensions computed when none are
// requested explicitly.
var DefaultDimensions = []string{
	domain.DimSourceFile,
	domain.DimCourierName,
	domain.DimZoneX,
	domain.DimWeightSlabX,
}

// DefaultAliases is the built-in alias table covering the header spellings
// seen in courier billing exports. Matching is case-, whitespace- and
// punctuation-insensitive, so each spelling here stands for every variant
// that normalizes to the same form.
var DefaultAliases = map[string][]string{
	domain.FieldOrderID: {
		"Order ID",
		"Order No",
		"Order Number",
	},
	domain.FieldAWBNumber: {
		"AWB Number",
		"AWB No",
		"Airway Bill Number",
	},
	domain.FieldExpectedCharge: {
		"Expected Charge as per X (Rs.)",
		"Expected Charge (Rs.)",
		"Expected Charge",
	},
	domain.FieldBilledCharge: {
		"Charges Billed by Courier Company (Rs.)",
		"Billed Charge (Rs.)",
		"Billed Charge",
	},
	domain.FieldWeightX: {
		"Total weight as per X (KG)",
		"Weight as per X (KG)",
	},
	domain.FieldWeightSlabX: {
		"Weight slab as per X (KG)",
	},
	domain.FieldWeightCourier: {
		"Total weight as per Courier Company (KG)",
		"Weight as per Courier Company (KG)",
	},
	domain.FieldWeightSlabCourier: {
		"Weight slab charged by Courier Company (KG)",
	},
	domain.FieldZoneX: {
		"Delivery Zone as per X",
		"Zone as per X",
	},
	domain.FieldZoneCourier: {
		"Delivery Zone charged by Courier Company",
		"Zone charged by Courier Company",
	},
	domain.FieldInvoiceDate: {
		"Invoice Date",
		"Billing Date",
	},
	domain.FieldCourierName: {
		"Courier Company",
		"Courier Name",
		"Courier",
	},
}
