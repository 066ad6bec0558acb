package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courieraudit/pkg/contracts/domain"
)

func record(file, orderID, awb string, expected, billed float64) domain.ShipmentRecord {
	return domain.ShipmentRecord{
		OrderID:        orderID,
		AWBNumber:      awb,
		ExpectedCharge: expected,
		BilledCharge:   billed,
		SourceFile:     file,
	}
}

func TestMergeByKeyFieldLevelOverride(t *testing.T) {
	first := record("expected.csv", "ORD-1", "AWB-1", 150, 0)
	first.ZoneX = "North"
	w := 2.5
	first.WeightX = &w

	second := record("billed.csv", "ORD-1", "AWB-1", 150, 160)
	second.CourierName = "FastShip"

	merged := Merge([]FileRecords{
		{File: "expected.csv", Records: []domain.ShipmentRecord{first}},
		{File: "billed.csv", Records: []domain.ShipmentRecord{second}},
	})

	require.Len(t, merged, 1)
	got := merged[0]

	// Later file overrides fields it carries.
	assert.Equal(t, 160.0, got.BilledCharge)
	assert.Equal(t, "FastShip", got.CourierName)

	// Fields absent from the later file survive from the earlier one.
	assert.Equal(t, "North", got.ZoneX)
	require.NotNil(t, got.WeightX)
	assert.Equal(t, 2.5, *got.WeightX)

	// Provenance stays with the first file the key appeared in.
	assert.Equal(t, "expected.csv", got.SourceFile)
}

func TestMergeFallsBackToConcatenation(t *testing.T) {
	a := record("a.csv", "ORD-1", "AWB-1", 10, 10)
	b := record("b.csv", "ORD-2", "AWB-2", 20, 20)

	merged := Merge([]FileRecords{
		{File: "a.csv", Records: []domain.ShipmentRecord{a}},
		{File: "b.csv", Records: []domain.ShipmentRecord{b}},
	})

	require.Len(t, merged, 2)
	assert.Equal(t, "a.csv", merged[0].SourceFile)
	assert.Equal(t, "b.csv", merged[1].SourceFile)
}

func TestMergeSingleFileIsConcatenation(t *testing.T) {
	a := record("a.csv", "ORD-1", "AWB-1", 10, 10)
	dup := record("a.csv", "ORD-1", "AWB-1", 11, 11)

	merged := Merge([]FileRecords{{File: "a.csv", Records: []domain.ShipmentRecord{a, dup}}})
	assert.Len(t, merged, 2)
}

func TestMergeAWBAloneSufficesForMatch(t *testing.T) {
	a := record("a.csv", "ORD-1", "AWB-1", 100, 0)
	b := record("b.csv", "ORD-OTHER", "AWB-1", 100, 101)

	merged := Merge([]FileRecords{
		{File: "a.csv", Records: []domain.ShipmentRecord{a}},
		{File: "b.csv", Records: []domain.ShipmentRecord{b}},
	})

	require.Len(t, merged, 1)
	assert.Equal(t, 101.0, merged[0].BilledCharge)
}

func TestMergeSameFileDuplicatesStayDistinct(t *testing.T) {
	dup1 := record("a.csv", "ORD-1", "AWB-1", 10, 10)
	dup2 := record("a.csv", "ORD-1", "AWB-1", 12, 12)
	other := record("b.csv", "ORD-1", "AWB-1", 10, 15)

	merged := Merge([]FileRecords{
		{File: "a.csv", Records: []domain.ShipmentRecord{dup1, dup2}},
		{File: "b.csv", Records: []domain.ShipmentRecord{other}},
	})

	// Both same-file duplicates survive; the cross-file record overrides
	// the first occurrence of the key.
	require.Len(t, merged, 2)
	assert.Equal(t, 15.0, merged[0].BilledCharge)
	assert.Equal(t, 12.0, merged[1].BilledCharge)
}

func TestMergeOrderIsStable(t *testing.T) {
	merged := Merge([]FileRecords{
		{File: "a.csv", Records: []domain.ShipmentRecord{
			record("a.csv", "ORD-1", "AWB-1", 1, 1),
			record("a.csv", "ORD-2", "AWB-2", 2, 2),
		}},
		{File: "b.csv", Records: []domain.ShipmentRecord{
			record("b.csv", "ORD-3", "AWB-3", 3, 3),
			record("b.csv", "ORD-1", "AWB-1", 1, 9),
		}},
	})

	// Grouped by first file a key appeared in, then by row order: ORD-1 and
	// ORD-2 from a.csv first, then ORD-3 (new in b.csv).
	require.Len(t, merged, 3)
	assert.Equal(t, "ORD-1", merged[0].OrderID)
	assert.Equal(t, 9.0, merged[0].BilledCharge)
	assert.Equal(t, "ORD-2", merged[1].OrderID)
	assert.Equal(t, "ORD-3", merged[2].OrderID)
}

// Merging two single-file sets sharing all keys and re-splitting by
// provenance recovers the per-file values of fields the later file did not
// override.
func TestMergeRoundTripPreservesNonOverriddenFields(t *testing.T) {
	a1 := record("a.csv", "ORD-1", "AWB-1", 100, 100)
	a1.ZoneX = "East"
	a2 := record("a.csv", "ORD-2", "AWB-2", 200, 200)
	a2.WeightSlabX = "0.5"

	b1 := record("b.csv", "ORD-1", "AWB-1", 100, 110)
	b2 := record("b.csv", "ORD-2", "AWB-2", 200, 190)

	merged := Merge([]FileRecords{
		{File: "a.csv", Records: []domain.ShipmentRecord{a1, a2}},
		{File: "b.csv", Records: []domain.ShipmentRecord{b1, b2}},
	})

	require.Len(t, merged, 2)
	byProvenance := make(map[string][]domain.ShipmentRecord)
	for _, rec := range merged {
		byProvenance[rec.SourceFile] = append(byProvenance[rec.SourceFile], rec)
	}

	require.Len(t, byProvenance["a.csv"], 2)
	assert.Equal(t, "East", byProvenance["a.csv"][0].ZoneX)
	assert.Equal(t, "0.5", byProvenance["a.csv"][1].WeightSlabX)
}

func TestMergeThreeFilesLastSuppliedWins(t *testing.T) {
	merged := Merge([]FileRecords{
		{File: "a.csv", Records: []domain.ShipmentRecord{record("a.csv", "ORD-1", "AWB-1", 100, 100)}},
		{File: "b.csv", Records: []domain.ShipmentRecord{record("b.csv", "ORD-1", "AWB-1", 100, 105)}},
		{File: "c.csv", Records: []domain.ShipmentRecord{record("c.csv", "ORD-1", "AWB-1", 100, 110)}},
	})

	require.Len(t, merged, 1)
	assert.Equal(t, 110.0, merged[0].BilledCharge)
}
