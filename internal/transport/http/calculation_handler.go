package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"erpcalc/internal/calc"
	apierrors "erpcalc/internal/errors"
	"erpcalc/internal/exporter"
	mw "erpcalc/internal/middleware"
	"erpcalc/internal/services"
	api "erpcalc/pkg/contracts/api/v1"
)

// CalculationService is the part of services.CalculationService the handler uses
type CalculationService interface {
	Calculators() []calc.Calculator
	Calculate(ctx context.Context, name string, req api.CalculationRequest) (*services.Calculation, error)
	Export(ctx context.Context, name string, req api.CalculationRequest, format exporter.Format, table string) (*services.Export, error)
}

// CalculationHandler serves the calculator listing, calculation and export endpoints
type CalculationHandler struct {
	service      CalculationService
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewCalculationHandler creates a new calculation handler
func NewCalculationHandler(service CalculationService, validate *validator.Validate, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *CalculationHandler {
	return &CalculationHandler{
		service:      service,
		validate:     validate,
		logger:       logger.With(slog.String("component", "calculation_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the calculator routes
func (h *CalculationHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListCalculators)
	r.Route("/{name}", func(r chi.Router) {
		r.Use(h.CalculatorCtx)
		r.With(mw.ContentTypeValidator("application/json")).Post("/", h.Calculate)
		r.With(mw.ContentTypeValidator("application/json")).Post("/export", h.Export)
	})

	return r
}

// CalculatorCtx rejects unregistered calculator names before the body is read
func (h *CalculationHandler) CalculatorCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if _, err := calc.Lookup(name); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.CalculatorNotFound(name))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListCalculators handles GET /api/calculators
func (h *CalculationHandler) ListCalculators(w http.ResponseWriter, r *http.Request) {
	calculators := h.service.Calculators()
	list := make([]render.Renderer, 0, len(calculators))
	for _, c := range calculators {
		list = append(list, api.NewCalculatorInfo(c))
	}
	if err := render.RenderList(w, r, list); err != nil {
		h.errorHandler.HandleError(w, r, err)
	}
}

// Calculate handles POST /api/calculators/{name}
func (h *CalculationHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	calculation, err := h.service.Calculate(r.Context(), name, req)
	if err != nil {
		h.handleServiceError(w, r, name, err)
		return
	}

	render.Status(r, http.StatusOK)
	if err := render.Render(w, r, calculation.Response()); err != nil {
		h.errorHandler.HandleError(w, r, err)
	}
}

// Export handles POST /api/calculators/{name}/export?format=csv|xlsx&table=
func (h *CalculationHandler) Export(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	query := api.ExportQuery{
		Format: r.URL.Query().Get("format"),
		Table:  r.URL.Query().Get("table"),
	}
	if err := mw.ValidateStruct(h.validate, &query); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	format := exporter.FormatCSV
	if query.Format != "" {
		f, err := exporter.ParseFormat(query.Format)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(http.StatusBadRequest, "INVALID_FORMAT", "Unsupported export format", query.Format))
			return
		}
		format = f
	}

	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	export, err := h.service.Export(r.Context(), name, req, format, query.Table)
	if err != nil {
		h.handleServiceError(w, r, name, err)
		return
	}

	h.logger.InfoContext(r.Context(), "export rendered",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("calculation_id", export.ID),
		slog.String("file", export.FileName),
		slog.Int("bytes", len(export.Data)))

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(export.Data)))
	w.Header().Set("X-Calculation-ID", export.ID)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(export.Data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export",
			slog.String("error", err.Error()))
	}
}

// decode reads and validates the request body. It writes the error response
// itself and reports false when the request cannot be served.
func (h *CalculationHandler) decode(w http.ResponseWriter, r *http.Request) (api.CalculationRequest, bool) {
	var req api.CalculationRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return req, false
	}
	if err := mw.ValidateStruct(h.validate, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return req, false
	}
	return req, true
}

func (h *CalculationHandler) handleServiceError(w http.ResponseWriter, r *http.Request, name string, err error) {
	switch {
	case errors.Is(err, services.ErrInputTooLarge):
		h.errorHandler.HandleError(w, r, apierrors.InputTooLarge(err))
	case errors.Is(err, services.ErrExportFailed):
		h.errorHandler.HandleError(w, r, apierrors.ExportFailed(err))
	case errors.Is(err, calc.ErrUnknownCalculator):
		h.errorHandler.HandleError(w, r, apierrors.CalculatorNotFound(name))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}
