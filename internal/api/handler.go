package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/emicklei/go-restful/v3"
	"github.com/go-gota/gota/dataframe"
	"github.com/povarna/iris-pipeline/internal/api/middleware"
	"github.com/povarna/iris-pipeline/internal/database"
	"github.com/povarna/iris-pipeline/internal/models"
	"github.com/rs/zerolog"
)

type RequestValidator interface {
	ValidateRequest(ctx context.Context, req models.ValidationRequest) (dataframe.DataFrame, models.ValidationReport, error)
}

type ReportLister interface {
	ListReports(ctx context.Context, limit int) ([]models.ValidationReport, error)
}

type HealthResponse struct {
	Status  string `json:"status" description:"Service status"`
	Version string `json:"version" description:"API version"`
}

type Handler struct {
	validator RequestValidator
	store     ReportLister
	logger    *zerolog.Logger
}

// NewHandler builds the API handler. store may be nil, in which case the
// reports endpoint answers 404.
func NewHandler(validator RequestValidator, store ReportLister, logger *zerolog.Logger) *Handler {
	return &Handler{
		validator: validator,
		store:     store,
		logger:    logger,
	}
}

// POST /api/v1/validate
// Body: ValidationRequest
// Returns: ValidationReport (200 when usable, 422 when a check failed)
func (h *Handler) Validate(req *restful.Request, resp *restful.Response) {
	var validationRequest models.ValidationRequest
	if err := req.ReadEntity(&validationRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(validationRequest.CSV) == "" {
		middleware.HandleError(resp, middleware.ErrEmptyCSV, http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Str("event_id", validationRequest.EventID).
		Str("source", validationRequest.Source).
		Msg("Start validation")

	ctx := req.Request.Context()
	_, report, err := h.validator.ValidateRequest(ctx, validationRequest)

	status := http.StatusOK
	if err != nil {
		status = http.StatusUnprocessableEntity
		h.logger.Warn().Err(err).Str("id", report.ID).Msg("Validation failed")
	}

	h.logger.Info().
		Str("id", report.ID).
		Str("status", string(report.Status)).
		Int("rows_out", report.RowsOut).
		Msg("Validation complete")

	resp.WriteHeaderAndEntity(status, report)
}

// GET /api/v1/reports?limit=N
func (h *Handler) ListReports(req *restful.Request, resp *restful.Response) {
	if h.store == nil {
		middleware.HandleError(resp, middleware.ErrStoreDisabled, http.StatusNotFound)
		return
	}

	limit := database.DefaultListLimit
	if raw := req.QueryParameter("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.logger.Warn().Str("limit", raw).Msg("Invalid limit")
			middleware.HandleError(resp, middleware.ErrInvalidLimit, http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	reports, err := h.store.ListReports(req.Request.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list reports")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, reports)
}

// Health handler GET API /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}
