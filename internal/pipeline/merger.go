package pipeline

import (
	"courieraudit/pkg/contracts/domain"
)

// FileRecords groups the coerced records of one source file, in the order
// the files were supplied to the run.
type FileRecords struct {
	File    string
	Records []domain.ShipmentRecord
}

// Merge combines per-file record sets into the run-level record set.
//
// The decision rule is evaluated once over the full set of files: when every
// file shares at least one business key (order_id or awb_number, either
// alone suffices) with another file, records are merged by key with
// field-level override by later file order. Otherwise the sets are simply
// concatenated with provenance intact.
//
// Merge order is stable: records are grouped by the first file in which
// their key appeared, secondarily by original row order. Duplicate keys
// within the same file stay distinct records; only cross-file duplicates
// are subject to override.
func Merge(files []FileRecords) []domain.ShipmentRecord {
	if !shouldMergeByKey(files) {
		return concatenate(files)
	}

	type entry struct {
		record domain.ShipmentRecord
		file   int
	}

	var entries []*entry
	byKey := make(map[string]*entry)

	for fileIdx, file := range files {
		for _, rec := range file.Records {
			var match *entry
			for _, key := range rec.Keys() {
				if e, ok := byKey[key]; ok && e.file != fileIdx {
					match = e
					break
				}
			}

			if match != nil {
				overrideFields(&match.record, rec)
				for _, key := range rec.Keys() {
					if _, ok := byKey[key]; !ok {
						byKey[key] = match
					}
				}
				continue
			}

			e := &entry{record: rec, file: fileIdx}
			entries = append(entries, e)
			for _, key := range rec.Keys() {
				if _, ok := byKey[key]; !ok {
					byKey[key] = e
				}
			}
		}
	}

	merged := make([]domain.ShipmentRecord, len(entries))
	for i, e := range entries {
		merged[i] = e.record
	}
	return merged
}

// shouldMergeByKey reports whether every file shares at least one business
// key with some other file. A single file never merges with itself.
func shouldMergeByKey(files []FileRecords) bool {
	if len(files) < 2 {
		return false
	}

	keySets := make([]map[string]bool, len(files))
	for i, file := range files {
		keySets[i] = make(map[string]bool)
		for _, rec := range file.Records {
			for _, key := range rec.Keys() {
				keySets[i][key] = true
			}
		}
	}

	for i := range files {
		if !sharesKey(keySets, i) {
			return false
		}
	}
	return true
}

func sharesKey(keySets []map[string]bool, i int) bool {
	for key := range keySets[i] {
		for j := range keySets {
			if j != i && keySets[j][key] {
				return true
			}
		}
	}
	return false
}

func concatenate(files []FileRecords) []domain.ShipmentRecord {
	var out []domain.ShipmentRecord
	for _, file := range files {
		out = append(out, file.Records...)
	}
	return out
}

// overrideFields applies field-level override: the later record's present
// fields replace the earlier record's, absent fields leave the earlier
// values intact. Provenance stays with the first file the key appeared in.
func overrideFields(dst *domain.ShipmentRecord, src domain.ShipmentRecord) {
	if src.OrderID != "" {
		dst.OrderID = src.OrderID
	}
	if src.AWBNumber != "" {
		dst.AWBNumber = src.AWBNumber
	}

	// Required charges are always present on a coerced record.
	dst.ExpectedCharge = src.ExpectedCharge
	dst.BilledCharge = src.BilledCharge

	if src.WeightX != nil {
		dst.WeightX = src.WeightX
	}
	if src.WeightCourier != nil {
		dst.WeightCourier = src.WeightCourier
	}
	if src.WeightSlabX != "" {
		dst.WeightSlabX = src.WeightSlabX
	}
	if src.WeightSlabCourier != "" {
		dst.WeightSlabCourier = src.WeightSlabCourier
	}
	if src.ZoneX != "" {
		dst.ZoneX = src.ZoneX
	}
	if src.ZoneCourier != "" {
		dst.ZoneCourier = src.ZoneCourier
	}
	if src.CourierName != "" {
		dst.CourierName = src.CourierName
	}
	if src.InvoiceDate != nil {
		dst.InvoiceDate = src.InvoiceDate
	}
}
