package scorer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courieraudit/pkg/contracts/domain"
)

type stubScorer struct {
	predictions []float64
	err         error
	gotFeatures [][]float64
}

func (s *stubScorer) Score(_ context.Context, features [][]float64) ([]float64, error) {
	s.gotFeatures = features
	return s.predictions, s.err
}

func TestFeatures(t *testing.T) {
	w := 2.5
	rec := domain.ShipmentRecord{
		ExpectedCharge: 100,
		BilledCharge:   110,
		Difference:     10,
		WeightX:        &w,
	}
	assert.Equal(t, []float64{100, 110, 10, 2.5, 0}, Features(rec))
	assert.Len(t, FeatureNames, len(Features(rec)))
}

func TestAttach(t *testing.T) {
	records := []domain.ShipmentRecord{
		{OrderID: "1", ExpectedCharge: 100, BilledCharge: 110, Difference: 10},
		{OrderID: "2", ExpectedCharge: 200, BilledCharge: 195, Difference: -5},
	}
	s := &stubScorer{predictions: []float64{105.5, 198}}

	out, err := Attach(context.Background(), s, nil, records)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.NotNil(t, out[0].PredictedCharge)
	assert.Equal(t, 105.5, *out[0].PredictedCharge)
	assert.Equal(t, 198.0, *out[1].PredictedCharge)

	// One feature vector per record, input untouched.
	assert.Len(t, s.gotFeatures, 2)
	assert.Nil(t, records[0].PredictedCharge)
}

func TestAttachScorerFailureKeepsRecords(t *testing.T) {
	records := []domain.ShipmentRecord{{OrderID: "1"}}
	s := &stubScorer{err: errors.New("model unavailable")}

	out, err := Attach(context.Background(), s, nil, records)
	require.Error(t, err)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].PredictedCharge)
}

func TestAttachLengthMismatch(t *testing.T) {
	records := []domain.ShipmentRecord{{OrderID: "1"}, {OrderID: "2"}}
	s := &stubScorer{predictions: []float64{1}}

	_, err := Attach(context.Background(), s, nil, records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 predictions for 2 records")
}

func TestAttachNilScorerIsNoop(t *testing.T) {
	records := []domain.ShipmentRecord{{OrderID: "1"}}
	out, err := Attach(context.Background(), nil, nil, records)
	require.NoError(t, err)
	assert.Equal(t, records, out)
}
