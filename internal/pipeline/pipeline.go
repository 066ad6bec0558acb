package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"courieraudit/internal/config"
	apperrors "courieraudit/internal/errors"
	"courieraudit/pkg/contracts/domain"
)

const tracerName = "courieraudit/pipeline"

// Pipeline executes the ingestion-normalization-reconciliation-aggregation
// flow for one run at a time. Instances are immutable after construction
// and safe for concurrent use; independent runs share no mutable state.
type Pipeline struct {
	aliases    *AliasTable
	tolerance  float64
	dimensions []string
	logger     *slog.Logger
	tracer     trace.Tracer
}

// New validates the run configuration and constructs a pipeline.
// Configuration errors (negative tolerance, alias table not covering a
// required field, unknown dimension) are fatal and raised here, before any
// file is processed.
func New(cfg config.ReconciliationConfig, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Tolerance < 0 {
		return nil, apperrors.NewConfigError(
			fmt.Sprintf("tolerance must be non-negative, got %v", cfg.Tolerance), nil)
	}

	aliases := cfg.AliasTable()
	table := NewAliasTable(aliases)
	var missing []string
	for _, field := range domain.RequiredFields {
		if len(aliases[field]) == 0 {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewConfigError(
			fmt.Sprintf("alias table missing required canonical fields: %s", strings.Join(missing, ", ")), nil)
	}

	dimensions := cfg.Dimensions
	if len(dimensions) == 0 {
		dimensions = config.DefaultDimensions
	}
	for _, dim := range dimensions {
		if !knownDimension(dim) {
			return nil, apperrors.NewConfigError(fmt.Sprintf("unknown aggregation dimension %q", dim), nil)
		}
	}

	return &Pipeline{
		aliases:    table,
		tolerance:  cfg.Tolerance,
		dimensions: append([]string(nil), dimensions...),
		logger:     logger.With(slog.String("component", "pipeline")),
		tracer:     otel.Tracer(tracerName),
	}, nil
}

// WithTolerance returns a copy of the pipeline classifying against a
// different tolerance. Upstream stages are unaffected; this is how a caller
// re-runs classification without re-ingesting files.
func (p *Pipeline) WithTolerance(tolerance float64) (*Pipeline, error) {
	if tolerance < 0 {
		return nil, apperrors.NewConfigError(
			fmt.Sprintf("tolerance must be non-negative, got %v", tolerance), nil)
	}
	clone := *p
	clone.tolerance = tolerance
	return &clone, nil
}

// Tolerance returns the classification threshold this pipeline applies.
func (p *Pipeline) Tolerance() float64 {
	return p.tolerance
}

// fileOutcome is the result of one file's normalize+coerce work.
type fileOutcome struct {
	fileErr    *domain.FileError
	records    []domain.ShipmentRecord
	quarantine []domain.QuarantineEntry
}

// Run executes one complete pipeline pass over the supplied files and
// returns an immutable RunResult. Files are normalized and coerced
// concurrently (coercion is a pure per-row function); the merge stage is
// the synchronization barrier and does not begin until every file is done.
// The only error Run returns is context cancellation, in which case no
// partial state is published.
func (p *Pipeline) Run(ctx context.Context, files []domain.FileRows) (*domain.RunResult, error) {
	runID := uuid.New().String()
	ctx, span := p.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.Int("run.files", len(files)),
		attribute.Float64("run.tolerance", p.tolerance),
	))
	defer span.End()

	logger := p.logger.With(slog.String("run_id", runID))
	logger.InfoContext(ctx, "starting reconciliation run",
		slog.Int("file_count", len(files)),
		slog.Float64("tolerance", p.tolerance))

	outcomes, err := p.ingest(ctx, files)
	if err != nil {
		return nil, err
	}

	var fileRecords []FileRecords
	var fileErrors []domain.FileError
	var quarantine []domain.QuarantineEntry
	for i, outcome := range outcomes {
		if outcome.fileErr != nil {
			logger.WarnContext(ctx, "file rejected",
				slog.String("source_file", outcome.fileErr.SourceFile),
				slog.Any("missing_columns", outcome.fileErr.Missing))
			fileErrors = append(fileErrors, *outcome.fileErr)
			continue
		}
		fileRecords = append(fileRecords, FileRecords{File: files[i].Name, Records: outcome.records})
		quarantine = append(quarantine, outcome.quarantine...)
	}

	_, mergeSpan := p.tracer.Start(ctx, "pipeline.merge")
	merged := Merge(fileRecords)
	mergeSpan.End()

	_, reconcileSpan := p.tracer.Start(ctx, "pipeline.reconcile")
	records := ReconcileAll(merged, p.tolerance)
	reconcileSpan.End()

	_, aggregateSpan := p.tracer.Start(ctx, "pipeline.aggregate")
	summaries := Aggregate(records, p.dimensions)
	aggregateSpan.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "reconciliation run complete",
		slog.Int("record_count", len(records)),
		slog.Int("quarantined_rows", len(quarantine)),
		slog.Int("rejected_files", len(fileErrors)))

	return &domain.RunResult{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Tolerance:   p.tolerance,
		Records:     records,
		Quarantine:  quarantine,
		FileErrors:  fileErrors,
		Summaries:   summaries,
	}, nil
}

// ingest runs normalize+coerce for every file concurrently, preserving the
// supplied file order in its output.
func (p *Pipeline) ingest(ctx context.Context, files []domain.FileRows) ([]fileOutcome, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.ingest")
	defer span.End()

	outcomes := make([]fileOutcome, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows, ferr := NormalizeFile(file, p.aliases)
			if ferr != nil {
				outcomes[i].fileErr = ferr
				return nil
			}
			outcomes[i].records, outcomes[i].quarantine = CoerceAll(rows)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// Reclassify re-runs the Reconciler and Aggregator over an existing record
// set with a different tolerance. Coercion and merging are not repeated.
func (p *Pipeline) Reclassify(records []domain.ShipmentRecord, tolerance float64) ([]domain.ShipmentRecord, []domain.DimensionSummary, error) {
	if tolerance < 0 {
		return nil, nil, apperrors.NewConfigError(
			fmt.Sprintf("tolerance must be non-negative, got %v", tolerance), nil)
	}
	reclassified := ReconcileAll(records, tolerance)
	return reclassified, Aggregate(reclassified, p.dimensions), nil
}

func knownDimension(dim string) bool {
	for _, d := range domain.Dimensions {
		if d == dim {
			return true
		}
	}
	return false
}
