package fulfilments

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fulfilment-app/fulfilment/internal/observability"
	"github.com/fulfilment-app/fulfilment/internal/platform/httpx"
)

// Handler exposes fulfilment link assignment over JSON.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	metrics   *observability.Metrics
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		metrics:   metrics,
		validator: validator.New(),
	}
}

// MountRoutes registers fulfilment routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.assign)
}

type linkBean struct {
	StoreID                   *int64 `json:"storeId" validate:"required,gt=0"`
	ProductID                 *int64 `json:"productId" validate:"required,gt=0"`
	WarehouseBusinessUnitCode string `json:"warehouseBusinessUnitCode" validate:"required"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	links, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list fulfilment links failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if links == nil {
		links = []Link{}
	}
	httpx.JSON(w, http.StatusOK, links)
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	var bean linkBean
	if err := httpx.DecodeJSON(r, &bean); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: fulfilment payload is required", httpx.ErrInvalidRequest))
		return
	}
	if err := h.validator.Struct(bean); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: storeId, productId and warehouseBusinessUnitCode are required", httpx.ErrInvalidRequest))
		return
	}

	link := Link{
		StoreID:                   *bean.StoreID,
		ProductID:                 *bean.ProductID,
		WarehouseBusinessUnitCode: bean.WarehouseBusinessUnitCode,
	}
	assigned, err := h.service.Assign(r.Context(), link)
	if err != nil {
		h.logger.Error("assign fulfilment failed",
			slog.Any("error", err),
			slog.Int64("storeId", link.StoreID),
			slog.String("warehouseBusinessUnitCode", link.WarehouseBusinessUnitCode))
		h.observeRejection(err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, assigned)
}

func (h *Handler) observeRejection(err error) {
	if h.metrics == nil {
		return
	}
	if errors.Is(err, httpx.ErrLimitExceeded) {
		h.metrics.RecordRejection("assign", "limit_exceeded")
	}
}
