// Package exporter renders a finished RunResult for downstream consumers:
// an Excel workbook with the merged record set, per-dimension summaries,
// and the quarantine report, plus plain CSV summaries for tooling.
//
// Exporting is strictly read-only over the RunResult; it never recomputes
// or mutates reconciliation outputs.
package exporter
