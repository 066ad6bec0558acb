package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"courieraudit/internal/config"
	"courieraudit/internal/exporter"
	"courieraudit/internal/files"
	"courieraudit/internal/infrastructure"
	"courieraudit/internal/pipeline"
	"courieraudit/pkg/contracts/domain"
)

func main() {
	inDir := flag.String("in", ".", "input directory scanned for .csv/.xlsx charge files")
	outPath := flag.String("out", "", "output workbook path (.xlsx); omit to skip the workbook")
	tolerance := flag.String("tolerance", "", "absolute charge tolerance override (e.g. 0.5)")
	byDims := flag.String("by", "", "comma-separated aggregation dimensions (defaults to configured dimensions)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if *tolerance != "" {
		v, err := strconv.ParseFloat(*tolerance, 64)
		if err != nil {
			slog.Error("invalid -tolerance value", "error", err)
			os.Exit(1)
		}
		cfg.Reconciliation.Tolerance = v
	}
	if *byDims != "" {
		dims := strings.Split(*byDims, ",")
		for i := range dims {
			dims[i] = strings.TrimSpace(dims[i])
		}
		cfg.Reconciliation.Dimensions = dims
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	p, err := pipeline.New(cfg.Reconciliation, logger)
	if err != nil {
		slog.Error("invalid reconciliation configuration", "error", err)
		os.Exit(1)
	}

	reader := files.NewReader(logger)
	paths, err := files.NewDiscovery(".").FindSupportedFiles(*inDir)
	if err != nil {
		slog.Error("failed to scan input directory", "error", err, "dir", *inDir)
		os.Exit(1)
	}
	if len(paths) == 0 {
		slog.Error("no .csv or .xlsx files found", "dir", *inDir)
		os.Exit(1)
	}

	uploads := make([]domain.FileRows, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			slog.Error("failed to open file", "error", err, "file", path)
			os.Exit(1)
		}
		rows, err := reader.Read(f, filepath.Base(path))
		f.Close()
		if err != nil {
			// An unreadable file is reported but does not abort the run.
			logger.Warn("skipping unreadable file",
				slog.String("file", path),
				slog.String("error", err.Error()))
			continue
		}
		uploads = append(uploads, rows)
	}

	result, err := p.Run(context.Background(), uploads)
	if err != nil {
		slog.Error("reconciliation run failed", "error", err)
		os.Exit(1)
	}

	printResult(result)

	if *outPath != "" {
		out, err := os.Create(*outPath)
		if err != nil {
			slog.Error("failed to create output workbook", "error", err, "path", *outPath)
			os.Exit(1)
		}
		writer := exporter.NewExcelWriter(logger)
		if err := writer.Write(out, result); err != nil {
			out.Close()
			slog.Error("failed to write output workbook", "error", err)
			os.Exit(1)
		}
		if err := out.Close(); err != nil {
			slog.Error("failed to close output workbook", "error", err)
			os.Exit(1)
		}
		fmt.Printf("\nWorkbook written to %s\n", *outPath)
	}
}

func printResult(result *domain.RunResult) {
	fmt.Printf("Run %s  tolerance=%.2f  records=%d  quarantined=%d\n",
		result.RunID, result.Tolerance, len(result.Records), result.QuarantineCount())

	for _, fe := range result.FileErrors {
		fmt.Printf("REJECTED %s: missing required columns %s\n",
			fe.SourceFile, strings.Join(fe.Missing, ", "))
	}

	for _, summary := range result.Summaries {
		fmt.Printf("\nSummary by %s\n", summary.Dimension)
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "GROUP\tSHIPMENTS\tEXPECTED\tBILLED\tOVERCHARGE\tUNDERCHARGE\tCORRECT\tOVER\tUNDER")
		for _, g := range summary.Groups {
			fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%d\t%d\t%d\n",
				g.Key, g.Count, g.TotalExpected, g.TotalBilled,
				g.TotalOvercharge, g.TotalUndercharge,
				g.CorrectCount, g.OverchargedCount, g.UnderchargedCount)
		}
		w.Flush()
	}

	if len(result.Quarantine) > 0 {
		fmt.Printf("\nQuarantined rows\n")
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FILE\tROW\tREASON")
		for _, q := range result.Quarantine {
			fmt.Fprintf(w, "%s\t%d\t%s\n", q.SourceFile, q.SourceRowIndex, q.Reason)
		}
		w.Flush()
	}
}
