package pipeline

import (
	"math"

	"courieraudit/pkg/contracts/domain"
)

// Reconcile computes the signed charge difference for a record and
// classifies it against the tolerance. It is a pure function of its inputs
// and idempotent: re-invoking with a different tolerance reclassifies the
// record without touching any upstream stage.
//
// The boundary is inclusive of Correct: a difference of exactly the
// tolerance is not an overcharge.
func Reconcile(rec domain.ShipmentRecord, tolerance float64) domain.ShipmentRecord {
	diff := rec.BilledCharge - rec.ExpectedCharge

	rec.Difference = diff
	rec.OverchargeAmount = 0
	rec.UnderchargeAmount = 0

	switch {
	case math.Abs(diff) <= tolerance:
		rec.Status = domain.StatusCorrect
	case diff > tolerance:
		rec.Status = domain.StatusOvercharged
		rec.OverchargeAmount = diff
	default:
		rec.Status = domain.StatusUndercharged
		rec.UnderchargeAmount = -diff
	}
	return rec
}

// ReconcileAll classifies every record, returning a new slice in input
// order. The input is never mutated.
func ReconcileAll(records []domain.ShipmentRecord, tolerance float64) []domain.ShipmentRecord {
	out := make([]domain.ShipmentRecord, len(records))
	for i, rec := range records {
		out[i] = Reconcile(rec, tolerance)
	}
	return out
}
