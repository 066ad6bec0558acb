// Package pipeline implements the charge reconciliation core: it turns
// heterogeneous tabular courier files into a single validated record set,
// classifies each shipment's billing discrepancy, and computes grouped
// summaries.
//
// # Architecture
//
// The package is organized into five stages, applied strictly in order:
//
//  1. Normalizer: maps raw column headers onto canonical field names
//  2. Coercer: converts raw cells to typed fields, quarantining bad rows
//  3. Merger: combines per-file record sets, by business key when possible
//  4. Reconciler: classifies the billed-vs-expected difference per record
//  5. Aggregator: computes count/sum summaries along requested dimensions
//
// # Usage
//
//	p, err := pipeline.New(cfg.Reconciliation, logger)
//	if err != nil {
//	    return err // configuration error, nothing was processed
//	}
//	result, err := p.Run(ctx, files)
//
// # Error Handling
//
// File-level defects (missing required columns) and row-level defects
// (unparseable charges, missing identifiers) never abort a run; they are
// collected into the RunResult's FileErrors and Quarantine lists. Only
// configuration errors fail pipeline construction, and only context
// cancellation fails Run.
package pipeline
