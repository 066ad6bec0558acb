package pipeline

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courieraudit/pkg/contracts/domain"
)

func normalizedRow(fields map[string]string) domain.NormalizedRow {
	base := map[string]string{
		domain.FieldOrderID:        "ORD-1",
		domain.FieldAWBNumber:      "AWB-1",
		domain.FieldExpectedCharge: "100",
		domain.FieldBilledCharge:   "100",
	}
	for k, v := range fields {
		base[k] = v
	}
	return domain.NormalizedRow{Fields: base, SourceFile: "a.csv", SourceRowIndex: 7}
}

func TestCoerceValidRow(t *testing.T) {
	rec, q := Coerce(normalizedRow(map[string]string{
		domain.FieldExpectedCharge: "Rs. 1,234.50",
		domain.FieldBilledCharge:   "₹1,240",
		domain.FieldWeightX:        "0.5",
		domain.FieldZoneX:          " Zone B ",
		domain.FieldInvoiceDate:    "2024-03-15",
	}))

	require.Nil(t, q)
	require.NotNil(t, rec)
	assert.Equal(t, "ORD-1", rec.OrderID)
	assert.Equal(t, 1234.50, rec.ExpectedCharge)
	assert.Equal(t, 1240.0, rec.BilledCharge)
	require.NotNil(t, rec.WeightX)
	assert.Equal(t, 0.5, *rec.WeightX)
	assert.Equal(t, "Zone B", rec.ZoneX)
	require.NotNil(t, rec.InvoiceDate)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *rec.InvoiceDate)
	assert.Equal(t, "a.csv", rec.SourceFile)
	assert.Equal(t, 7, rec.SourceRowIndex)
}

func TestCoerceQuarantineReasons(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		reason string
	}{
		{
			name:   "empty order id",
			fields: map[string]string{domain.FieldOrderID: "   "},
			reason: "MissingIdentifier:order_id",
		},
		{
			name:   "empty awb number",
			fields: map[string]string{domain.FieldAWBNumber: ""},
			reason: "MissingIdentifier:awb_number",
		},
		{
			name:   "garbled expected charge",
			fields: map[string]string{domain.FieldExpectedCharge: "n/a"},
			reason: "InvalidNumeric:expected_charge",
		},
		{
			name:   "empty billed charge",
			fields: map[string]string{domain.FieldBilledCharge: ""},
			reason: "InvalidNumeric:billed_charge",
		},
		{
			name:   "non-finite billed charge",
			fields: map[string]string{domain.FieldBilledCharge: "Inf"},
			reason: "InvalidNumeric:billed_charge",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, q := Coerce(normalizedRow(tt.fields))
			assert.Nil(t, rec)
			require.NotNil(t, q)
			assert.Equal(t, tt.reason, q.Reason)
			assert.Equal(t, "a.csv", q.SourceFile)
			assert.Equal(t, 7, q.SourceRowIndex)
		})
	}
}

func TestCoerceOptionalFailuresBecomeAbsent(t *testing.T) {
	rec, q := Coerce(normalizedRow(map[string]string{
		domain.FieldWeightX:     "heavy",
		domain.FieldInvoiceDate: "sometime in March",
	}))

	require.Nil(t, q)
	require.NotNil(t, rec)
	assert.Nil(t, rec.WeightX)
	assert.Nil(t, rec.InvoiceDate)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"150.0", 150.0, false},
		{"1,234.50", 1234.50, false},
		{"Rs. 99", 99, false},
		{"$1,000,000.25", 1000000.25, false},
		{"-42.5", -42.5, false},
		{".5", 0.5, false},
		{"", 0, true},
		{"abc", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAmount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOptionalDate(t *testing.T) {
	tests := []struct {
		in   string
		want *time.Time
	}{
		{"2024-03-15", timePtr(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))},
		{"15/03/2024", timePtr(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))},
		{"15 Mar 2024", timePtr(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))},
		{"not a date", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := parseOptionalDate(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got))
		})
	}
}

// Every row yields exactly one outcome: a record or a quarantine entry,
// never both, never neither.
func TestCoerceAllExactlyOneOutcome(t *testing.T) {
	rows := []domain.NormalizedRow{
		normalizedRow(nil),
		normalizedRow(map[string]string{domain.FieldOrderID: ""}),
		normalizedRow(map[string]string{domain.FieldBilledCharge: "oops"}),
		normalizedRow(map[string]string{domain.FieldWeightX: "not a number"}),
	}
	for i := range rows {
		rows[i].SourceRowIndex = i
	}

	records, quarantined := CoerceAll(rows)
	assert.Equal(t, len(rows), len(records)+len(quarantined))

	seen := make(map[int]int)
	for _, rec := range records {
		seen[rec.SourceRowIndex]++
	}
	for _, q := range quarantined {
		seen[q.SourceRowIndex]++
	}
	for i := range rows {
		assert.Equal(t, 1, seen[i], fmt.Sprintf("row %d must appear exactly once", i))
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
