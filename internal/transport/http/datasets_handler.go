package http

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"epiqc/internal/dataset"
	apierrors "epiqc/internal/errors"
)

// DatasetsHandler serves line-list files from the configured data
// directory.
type DatasetsHandler struct {
	loader       *dataset.Loader
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDatasetsHandler creates a datasets handler.
func NewDatasetsHandler(loader *dataset.Loader, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DatasetsHandler {
	return &DatasetsHandler{
		loader:       loader,
		logger:       logger.With(slog.String("component", "datasets_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dataset routes.
func (h *DatasetsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.List)
	r.Get("/{name}", h.Get)

	return r
}

// List returns the datasets available in the data directory.
func (h *DatasetsHandler) List(w http.ResponseWriter, r *http.Request) {
	infos, err := h.loader.List()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if infos == nil {
		infos = []dataset.Info{}
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   infos,
		"count":  len(infos),
	})
}

// Get loads one dataset by name.
func (h *DatasetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("name", "Dataset name is required"))
		return
	}

	ds, err := h.loader.Load(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			h.errorHandler.HandleError(w, r, apierrors.DatasetNotFoundError(name))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   ds,
	})
}
