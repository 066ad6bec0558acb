package domain

import (
	"time"
)

// RunResult is the complete output of one pipeline run: the merged record
// set, every quarantined row, every rejected file, and one summary
// collection per requested dimension. Immutable once returned.
type RunResult struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Tolerance   float64   `json:"tolerance"`

	Records    []ShipmentRecord   `json:"records"`
	Quarantine []QuarantineEntry  `json:"quarantine"`
	FileErrors []FileError        `json:"file_errors"`
	Summaries  []DimensionSummary `json:"summaries"`
}

// QuarantineCount is a convenience for reporting surfaces.
func (r *RunResult) QuarantineCount() int {
	return len(r.Quarantine)
}
