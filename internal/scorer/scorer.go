// Package scorer is the boundary to the external charge-prediction model.
// The model is a black box: given one feature vector per record it returns
// one number per record, which is attached to the record set verbatim.
// Nothing here trains, loads, or interprets a model.
package scorer

import (
	"context"
	"fmt"
	"log/slog"

	"courieraudit/pkg/contracts/domain"
)

// Scorer is the external forecasting/anomaly collaborator. Implementations
// must return exactly one value per input vector, in order.
type Scorer interface {
	Score(ctx context.Context, features [][]float64) ([]float64, error)
}

// FeatureNames documents the order of the numeric projection handed to the
// scorer.
var FeatureNames = []string{
	"expected_charge",
	"billed_charge",
	"difference",
	"weight_x",
	"weight_courier",
}

// Features projects a record onto the numeric feature vector the scorer
// consumes. Absent optional weights are projected as zero.
func Features(rec domain.ShipmentRecord) []float64 {
	var weightX, weightCourier float64
	if rec.WeightX != nil {
		weightX = *rec.WeightX
	}
	if rec.WeightCourier != nil {
		weightCourier = *rec.WeightCourier
	}
	return []float64{
		rec.ExpectedCharge,
		rec.BilledCharge,
		rec.Difference,
		weightX,
		weightCourier,
	}
}

// Attach scores every record and returns a copy of the set with the
// predicted charge attached. The input is never mutated, and a scoring
// failure leaves the reconciliation result intact: the caller decides
// whether to surface or ignore the error.
func Attach(ctx context.Context, s Scorer, logger *slog.Logger, records []domain.ShipmentRecord) ([]domain.ShipmentRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if s == nil || len(records) == 0 {
		return records, nil
	}

	features := make([][]float64, len(records))
	for i, rec := range records {
		features[i] = Features(rec)
	}

	predictions, err := s.Score(ctx, features)
	if err != nil {
		return records, fmt.Errorf("scoring failed: %w", err)
	}
	if len(predictions) != len(records) {
		return records, fmt.Errorf("scorer returned %d predictions for %d records", len(predictions), len(records))
	}

	out := make([]domain.ShipmentRecord, len(records))
	for i, rec := range records {
		p := predictions[i]
		rec.PredictedCharge = &p
		out[i] = rec
	}

	logger.InfoContext(ctx, "predictions attached", slog.Int("record_count", len(out)))
	return out, nil
}
