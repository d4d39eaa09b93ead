package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"epiqc/internal/config"
	apierrors "epiqc/internal/errors"
	"epiqc/internal/metrics"
	"epiqc/internal/quality"
	"epiqc/internal/websocket"
	api "epiqc/pkg/contracts/api/v1"
	"epiqc/pkg/contracts/domain"
)

// QualityHandler handles quality-check HTTP requests.
type QualityHandler struct {
	engine       *quality.Engine
	metrics      *metrics.Metrics
	hub          *websocket.Hub
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	defaults     config.QualityConfig
}

// NewQualityHandler creates a quality handler. hub and m may be nil in
// tests.
func NewQualityHandler(engine *quality.Engine, m *metrics.Metrics, hub *websocket.Hub, defaults config.QualityConfig, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *QualityHandler {
	return &QualityHandler{
		engine:       engine,
		metrics:      m,
		hub:          hub,
		validate:     validator.New(),
		logger:       logger.With(slog.String("component", "quality_handler")),
		errorHandler: errorHandler,
		defaults:     defaults,
	}
}

// applyDefaults fills fuzzy-matching settings a request enabled but left
// unset with the service-level defaults.
func (h *QualityHandler) applyDefaults(cfg *domain.DataQualityConfig) {
	if !cfg.FuzzyMatching.Enabled {
		return
	}
	if cfg.FuzzyMatching.TextThreshold == 0 {
		cfg.FuzzyMatching.TextThreshold = h.defaults.DefaultTextThreshold
	}
	if cfg.FuzzyMatching.DateToleranceDays == 0 {
		cfg.FuzzyMatching.DateToleranceDays = h.defaults.DefaultDateToleranceDays
	}
}

// Routes returns the quality routes.
func (h *QualityHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/checks", h.RunChecks)
	r.Post("/summary", h.Summary)

	return r
}

// RunChecks executes every enabled check against the posted dataset.
func (h *QualityHandler) RunChecks(w http.ResponseWriter, r *http.Request) {
	var req api.RunChecksRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", err.Error()))
		return
	}
	if h.defaults.MaxRecordsPerRequest > 0 && len(req.Records) > h.defaults.MaxRecordsPerRequest {
		h.errorHandler.HandleError(w, r, apierrors.ErrTooManyRecords)
		return
	}
	h.applyDefaults(&req.Config)

	start := time.Now()
	issues := h.engine.RunChecks(r.Context(), req.Records, req.Columns, req.Config)
	elapsed := time.Since(start)

	summary := quality.Summarize(issues)
	runID := uuid.New().String()

	if h.metrics != nil {
		h.metrics.CheckRuns.Inc()
		h.metrics.CheckRunDuration.Observe(elapsed.Seconds())
		h.metrics.RecordsChecked.Add(float64(len(req.Records)))
		for _, issue := range issues {
			h.metrics.IssuesFound.WithLabelValues(string(issue.Category), string(issue.Severity)).Inc()
		}
	}

	if h.hub != nil {
		h.hub.Broadcast(websocket.TypeCheckRunComplete, map[string]interface{}{
			"run_id":   runID,
			"records":  len(req.Records),
			"issues":   summary.Total,
			"errors":   summary.Errors,
			"warnings": summary.Warnings,
		})
	}

	h.logger.InfoContext(r.Context(), "check run completed",
		slog.String("run_id", runID),
		slog.Int("records", len(req.Records)),
		slog.Int("issues", summary.Total),
		slog.Duration("duration", elapsed))

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data": api.RunChecksResponse{
			Issues:    issues,
			Summary:   toSummaryResponse(summary, 0),
			RunID:     runID,
			CheckedAt: time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// Summary aggregates posted issues into overall and per-category counts.
// Dismissed issues are excluded from the counts but reported separately.
func (h *QualityHandler) Summary(w http.ResponseWriter, r *http.Request) {
	var req api.SummaryRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	active := quality.Active(req.Issues)
	summary := quality.Summarize(active)
	dismissed := len(req.Issues) - len(active)

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   toSummaryResponse(summary, dismissed),
	})
}

func toSummaryResponse(summary quality.Summary, dismissed int) api.SummaryResponse {
	resp := api.SummaryResponse{
		Total:      summary.Total,
		Errors:     summary.Errors,
		Warnings:   summary.Warnings,
		Dismissed:  dismissed,
		Categories: make(map[string]api.CatCounts, len(summary.ByCategory)),
	}
	for category, count := range summary.ByCategory {
		resp.Categories[string(category)] = api.CatCounts{
			Total:    count.Total,
			Errors:   count.Errors,
			Warnings: count.Warnings,
		}
	}
	return resp
}
