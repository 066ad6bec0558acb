package pipeline

import (
	"sort"

	"courieraudit/pkg/contracts/domain"
)

// Aggregate computes one summary collection per requested dimension. It is
// a pure read-only projection over the record set: running it twice on the
// same records yields identical output, and group counts always sum to the
// record count because records without a value for the dimension land in
// the reserved Unknown group.
func Aggregate(records []domain.ShipmentRecord, dimensions []string) []domain.DimensionSummary {
	summaries := make([]domain.DimensionSummary, 0, len(dimensions))
	for _, dim := range dimensions {
		summaries = append(summaries, aggregateDimension(records, dim))
	}
	return summaries
}

func aggregateDimension(records []domain.ShipmentRecord, dimension string) domain.DimensionSummary {
	groups := make(map[string]*domain.SummaryGroup)

	for _, rec := range records {
		key := dimensionValue(rec, dimension)
		if key == "" {
			key = domain.UnknownGroup
		}

		g, ok := groups[key]
		if !ok {
			g = &domain.SummaryGroup{Key: key}
			groups[key] = g
		}

		g.Count++
		g.TotalExpected += rec.ExpectedCharge
		g.TotalBilled += rec.BilledCharge
		g.TotalOvercharge += rec.OverchargeAmount
		g.TotalUndercharge += rec.UnderchargeAmount

		switch rec.Status {
		case domain.StatusOvercharged:
			g.OverchargedCount++
		case domain.StatusUndercharged:
			g.UnderchargedCount++
		default:
			g.CorrectCount++
		}
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]domain.SummaryGroup, 0, len(keys))
	for _, key := range keys {
		out = append(out, *groups[key])
	}
	return domain.DimensionSummary{Dimension: dimension, Groups: out}
}

// dimensionValue extracts a record's group key for the given dimension.
// An empty return means the record has no value for it.
func dimensionValue(rec domain.ShipmentRecord, dimension string) string {
	switch dimension {
	case domain.DimSourceFile:
		return rec.SourceFile
	case domain.DimCourierName:
		return rec.CourierName
	case domain.DimZoneX:
		return rec.ZoneX
	case domain.DimZoneCourier:
		return rec.ZoneCourier
	case domain.DimWeightSlabX:
		return rec.WeightSlabX
	case domain.DimWeightSlabCourier:
		return rec.WeightSlabCourier
	case domain.DimInvoiceMonth:
		if rec.InvoiceDate == nil {
			return ""
		}
		return rec.InvoiceDate.Format("2006-01")
	default:
		return ""
	}
}
