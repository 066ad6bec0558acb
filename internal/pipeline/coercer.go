package pipeline

import (
	"math"
	"strconv"
	"strings"
	"time"

	"courieraudit/pkg/contracts/domain"
)

// Quarantine reason prefixes. The full reason names the offending canonical
// field, e.g. "InvalidNumeric:billed_charge".
const (
	ReasonInvalidNumeric    = "InvalidNumeric"
	ReasonMissingIdentifier = "MissingIdentifier"
)

// dateLayouts are the textual date forms accepted for invoice_date.
// Unparseable dates are treated as absent, never as an error.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	time.RFC3339,
}

// Coerce converts a normalized row into exactly one outcome: a typed
// ShipmentRecord, or a QuarantineEntry naming the defect. It is pure and
// total; optional fields that fail coercion become absent rather than
// blocking the row.
func Coerce(row domain.NormalizedRow) (*domain.ShipmentRecord, *domain.QuarantineEntry) {
	quarantine := func(reason, field string) (*domain.ShipmentRecord, *domain.QuarantineEntry) {
		return nil, &domain.QuarantineEntry{
			SourceFile:     row.SourceFile,
			SourceRowIndex: row.SourceRowIndex,
			Reason:         reason + ":" + field,
		}
	}

	orderID := strings.TrimSpace(row.Fields[domain.FieldOrderID])
	if orderID == "" {
		return quarantine(ReasonMissingIdentifier, domain.FieldOrderID)
	}
	awb := strings.TrimSpace(row.Fields[domain.FieldAWBNumber])
	if awb == "" {
		return quarantine(ReasonMissingIdentifier, domain.FieldAWBNumber)
	}

	expected, err := parseAmount(row.Fields[domain.FieldExpectedCharge])
	if err != nil {
		return quarantine(ReasonInvalidNumeric, domain.FieldExpectedCharge)
	}
	billed, err := parseAmount(row.Fields[domain.FieldBilledCharge])
	if err != nil {
		return quarantine(ReasonInvalidNumeric, domain.FieldBilledCharge)
	}

	rec := &domain.ShipmentRecord{
		OrderID:        orderID,
		AWBNumber:      awb,
		ExpectedCharge: expected,
		BilledCharge:   billed,

		WeightX:           parseOptionalAmount(row.Fields[domain.FieldWeightX]),
		WeightCourier:     parseOptionalAmount(row.Fields[domain.FieldWeightCourier]),
		WeightSlabX:       strings.TrimSpace(row.Fields[domain.FieldWeightSlabX]),
		WeightSlabCourier: strings.TrimSpace(row.Fields[domain.FieldWeightSlabCourier]),
		ZoneX:             strings.TrimSpace(row.Fields[domain.FieldZoneX]),
		ZoneCourier:       strings.TrimSpace(row.Fields[domain.FieldZoneCourier]),
		CourierName:       strings.TrimSpace(row.Fields[domain.FieldCourierName]),
		InvoiceDate:       parseOptionalDate(row.Fields[domain.FieldInvoiceDate]),

		SourceFile:     row.SourceFile,
		SourceRowIndex: row.SourceRowIndex,
	}
	return rec, nil
}

// CoerceAll applies Coerce to every row, splitting the outcomes. Each input
// row appears in exactly one of the two results.
func CoerceAll(rows []domain.NormalizedRow) ([]domain.ShipmentRecord, []domain.QuarantineEntry) {
	records := make([]domain.ShipmentRecord, 0, len(rows))
	var quarantined []domain.QuarantineEntry
	for _, row := range rows {
		rec, q := Coerce(row)
		if q != nil {
			quarantined = append(quarantined, *q)
			continue
		}
		records = append(records, *rec)
	}
	return records, quarantined
}

// parseAmount parses a numeric literal that may carry thousands separators
// or currency decorations ("Rs. 1,234.50"). Everything other than digits,
// the decimal point, and a leading sign is stripped before parsing. A value
// that cannot be parsed, or parses to a non-finite number, is an error; it
// is never coerced to zero.
func parseAmount(raw string) (float64, error) {
	cleaned := stripNonNumeric(raw)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}

func parseOptionalAmount(raw string) *float64 {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	v, err := parseAmount(raw)
	if err != nil {
		return nil
	}
	return &v
}

func parseOptionalDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// stripNonNumeric keeps digits, a sign preceding the first digit, and
// decimal points adjacent to a digit. The adjacency rule keeps the point in
// "1,234.50" while dropping the one in a "Rs." prefix.
func stripNonNumeric(raw string) string {
	runes := []rune(raw)
	var b strings.Builder
	b.Grow(len(raw))

	sawDigit := false
	for i, r := range runes {
		switch {
		case r >= '0' && r <= '9':
			sawDigit = true
			b.WriteRune(r)
		case r == '.':
			prevDigit := i > 0 && runes[i-1] >= '0' && runes[i-1] <= '9'
			nextDigit := i+1 < len(runes) && runes[i+1] >= '0' && runes[i+1] <= '9'
			if prevDigit || nextDigit {
				b.WriteRune(r)
			}
		case r == '-' && !sawDigit && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
