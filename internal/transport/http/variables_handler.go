package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"epiqc/internal/derive"
	apierrors "epiqc/internal/errors"
	"epiqc/internal/metrics"
	"epiqc/internal/websocket"
	api "epiqc/pkg/contracts/api/v1"
	"epiqc/pkg/contracts/domain"
)

// VariablesHandler handles derived-variable HTTP requests.
type VariablesHandler struct {
	metrics      *metrics.Metrics
	hub          *websocket.Hub
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	maxRecords   int
}

// NewVariablesHandler creates a variables handler.
func NewVariablesHandler(m *metrics.Metrics, hub *websocket.Hub, maxRecords int, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *VariablesHandler {
	return &VariablesHandler{
		metrics:      m,
		hub:          hub,
		validate:     validator.New(),
		logger:       logger.With(slog.String("component", "variables_handler")),
		errorHandler: errorHandler,
		maxRecords:   maxRecords,
	}
}

// Routes returns the variable routes.
func (h *VariablesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/validate", h.Validate)
	r.Post("/generate", h.Generate)

	return r
}

// Validate checks a variable definition against existing field names.
// A failed definition is a successful validation request; the outcome
// is carried in the body, not the status code.
func (h *VariablesHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req api.ValidateVariableRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	existing := make([]domain.DataColumn, len(req.ExistingFields))
	for i, field := range req.ExistingFields {
		existing[i] = domain.DataColumn{Key: field, Type: domain.ColumnText}
	}

	resp := api.ValidateVariableResponse{Valid: true}
	if err := derive.ValidateConfig(req.Variable, existing); err != nil {
		resp.Valid = false
		resp.Error = err.Error()
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   resp,
	})
}

// Generate validates a variable definition and computes one value per
// posted record, index-aligned with the request order.
func (h *VariablesHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req api.GenerateVariableRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", err.Error()))
		return
	}
	if h.maxRecords > 0 && len(req.Records) > h.maxRecords {
		h.errorHandler.HandleError(w, r, apierrors.ErrTooManyRecords)
		return
	}

	if err := derive.ValidateConfig(req.Variable, req.Columns); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrVariableInvalid(err))
		return
	}

	columns := domain.NewColumnSet(req.Columns)
	sourceType := columns.TypeOf(req.Variable.SourceColumn)
	values := derive.GenerateValues(req.Records, req.Variable, sourceType)

	if h.metrics != nil {
		h.metrics.VariablesGenerated.Inc()
		if req.Variable.Method == domain.MethodFormula {
			for _, value := range values {
				if value == "" {
					h.metrics.FormulaFailures.Inc()
				}
			}
		}
	}

	if h.hub != nil {
		h.hub.Broadcast(websocket.TypeVariableGenerated, map[string]interface{}{
			"name":    req.Variable.Name,
			"method":  string(req.Variable.Method),
			"records": len(req.Records),
		})
	}

	h.logger.InfoContext(r.Context(), "variable generated",
		slog.String("name", req.Variable.Name),
		slog.String("method", string(req.Variable.Method)),
		slog.Int("records", len(req.Records)))

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data": api.GenerateVariableResponse{
			Name:   req.Variable.Name,
			Values: values,
		},
	})
}
