package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "courieraudit/internal/errors"
	"courieraudit/internal/exporter"
	"courieraudit/internal/files"
	"courieraudit/internal/pipeline"
	"courieraudit/pkg/contracts/domain"
)

type runCtxKey struct{}

// RunHandler handles reconciliation run requests.
type RunHandler struct {
	pipeline       *pipeline.Pipeline
	reader         *files.Reader
	writer         *exporter.ExcelWriter
	store          *RunStore
	logger         *slog.Logger
	maxUploadBytes int64
}

// NewRunHandler creates a run handler. maxUploadBytes limits the total
// multipart payload size; zero disables the limit.
func NewRunHandler(p *pipeline.Pipeline, reader *files.Reader, writer *exporter.ExcelWriter, store *RunStore, logger *slog.Logger, maxUploadBytes int64) *RunHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RunHandler{
		pipeline:       p,
		reader:         reader,
		writer:         writer,
		store:          store,
		logger:         logger.With(slog.String("handler", "runs")),
		maxUploadBytes: maxUploadBytes,
	}
}

// RunResponse is the success envelope for run endpoints.
type RunResponse struct {
	Success bool              `json:"success"`
	Run     *domain.RunResult `json:"run"`
}

// Routes returns the run routes.
func (h *RunHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.CreateRun)

	r.Route("/{runID}", func(r chi.Router) {
		r.Use(h.RunCtx) // Load run result into context
		r.Get("/", h.GetRun)
		r.Get("/result.xlsx", h.DownloadResult)
	})

	return r
}

// RunCtx middleware resolves the runID parameter against the store.
func (h *RunHandler) RunCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		runID := chi.URLParam(r, "runID")
		result, ok := h.store.Get(runID)
		if !ok {
			apierrors.WriteError(w, apierrors.ErrRunNotFound)
			return
		}
		ctx := context.WithValue(r.Context(), runCtxKey{}, result)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CreateRun handles POST /api/runs. It accepts a multipart upload under
// the "files" field plus an optional "tolerance" form value overriding
// the configured tolerance for this run only.
func (h *RunHandler) CreateRun(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			apierrors.WriteError(w, apierrors.ErrPayloadTooLarge)
			return
		}
		apierrors.WriteError(w, apierrors.InvalidRequestWithError(err))
		return
	}

	pl := h.pipeline
	if raw := r.FormValue("tolerance"); raw != "" {
		tolerance, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			apierrors.WriteError(w, apierrors.ErrValidation("tolerance", "tolerance must be a number"))
			return
		}
		pl, err = h.pipeline.WithTolerance(tolerance)
		if err != nil {
			apierrors.WriteError(w, apierrors.ErrValidation("tolerance", err.Error()))
			return
		}
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		apierrors.WriteError(w, apierrors.ErrNoFilesUploaded)
		return
	}

	uploads := make([]domain.FileRows, 0, len(headers))
	for _, fh := range headers {
		if !files.Supported(fh.Filename) {
			apierrors.WriteError(w, apierrors.NewWithDetails(
				http.StatusUnsupportedMediaType, "UNSUPPORTED_FILE_TYPE",
				"Uploaded file type is not supported", fh.Filename))
			return
		}

		src, err := fh.Open()
		if err != nil {
			apierrors.WriteError(w, apierrors.FileSystemError("upload", err))
			return
		}

		rows, err := h.reader.Read(src, fh.Filename)
		src.Close()
		if err != nil {
			apierrors.WriteError(w, apierrors.NewWithDetails(
				http.StatusUnprocessableEntity, "UNREADABLE_FILE",
				fmt.Sprintf("Could not read %s", fh.Filename), err.Error()))
			return
		}
		uploads = append(uploads, rows)
	}

	start := time.Now()
	result, err := pl.Run(r.Context(), uploads)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "run failed",
			slog.Int("files", len(uploads)),
			slog.String("error", err.Error()))
		apierrors.WriteError(w, apierrors.ErrRunExecution(err))
		return
	}

	runsTotal.Inc()
	quarantinedRowsTotal.Add(float64(result.QuarantineCount()))
	runDuration.Observe(time.Since(start).Seconds())

	h.store.Put(result)

	h.logger.InfoContext(r.Context(), "run completed",
		slog.String("run_id", result.RunID),
		slog.Int("files", len(uploads)),
		slog.Int("records", len(result.Records)),
		slog.Int("quarantined", result.QuarantineCount()))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, RunResponse{Success: true, Run: result})
}

// GetRun handles GET /api/runs/{runID}.
func (h *RunHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	result := r.Context().Value(runCtxKey{}).(*domain.RunResult)
	render.JSON(w, r, RunResponse{Success: true, Run: result})
}

// DownloadResult handles GET /api/runs/{runID}/result.xlsx, streaming the
// reconciliation workbook.
func (h *RunHandler) DownloadResult(w http.ResponseWriter, r *http.Request) {
	result := r.Context().Value(runCtxKey{}).(*domain.RunResult)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="reconciliation_%s.xlsx"`, result.RunID))

	if err := h.writer.Write(w, result); err != nil {
		// Headers are already written; log and abandon the response.
		h.logger.ErrorContext(r.Context(), "workbook download failed",
			slog.String("run_id", result.RunID),
			slog.String("error", err.Error()))
	}
}
