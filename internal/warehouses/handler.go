package warehouses

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fulfilment-app/fulfilment/internal/observability"
	"github.com/fulfilment-app/fulfilment/internal/platform/httpx"
)

// Handler exposes the warehouse lifecycle over JSON.
type Handler struct {
	logger  *slog.Logger
	service *Service
	metrics *observability.Metrics
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics) *Handler {
	return &Handler{logger: logger, service: service, metrics: metrics}
}

// MountRoutes registers warehouse routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.archive)
	r.Post("/{businessUnitCode}/replacement", h.replace)
}

type warehouseBean struct {
	BusinessUnitCode string `json:"businessUnitCode"`
	Location         string `json:"location"`
	Capacity         *int   `json:"capacity"`
	Stock            *int   `json:"stock"`
}

func (b warehouseBean) toDomain() *Warehouse {
	return &Warehouse{
		BusinessUnitCode: b.BusinessUnitCode,
		Location:         b.Location,
		Capacity:         b.Capacity,
		Stock:            b.Stock,
	}
}

func toBean(w Warehouse) warehouseBean {
	return warehouseBean{
		BusinessUnitCode: w.BusinessUnitCode,
		Location:         w.Location,
		Capacity:         w.Capacity,
		Stock:            w.Stock,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	warehouses, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list warehouses failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	beans := make([]warehouseBean, 0, len(warehouses))
	for _, warehouse := range warehouses {
		beans = append(beans, toBean(warehouse))
	}
	httpx.JSON(w, http.StatusOK, beans)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	warehouse, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toBean(*warehouse))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var bean warehouseBean
	if err := httpx.DecodeJSON(r, &bean); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: warehouse payload is required", httpx.ErrInvalidRequest))
		return
	}

	warehouse := bean.toDomain()
	if err := h.service.Create(r.Context(), warehouse); err != nil {
		h.logger.Error("create warehouse failed", slog.Any("error", err), slog.String("businessUnitCode", bean.BusinessUnitCode))
		h.observeRejection("create", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toBean(*warehouse))
}

func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	warehouse, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Archive(r.Context(), warehouse); err != nil {
		h.logger.Error("archive warehouse failed", slog.Any("error", err), slog.String("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) replace(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "businessUnitCode")

	var bean warehouseBean
	if err := httpx.DecodeJSON(r, &bean); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: warehouse payload is required", httpx.ErrInvalidRequest))
		return
	}

	replacement := bean.toDomain()
	replacement.BusinessUnitCode = code
	if err := h.service.Replace(r.Context(), replacement); err != nil {
		h.logger.Error("replace warehouse failed", slog.Any("error", err), slog.String("businessUnitCode", code))
		h.observeRejection("replace", err)
		httpx.RespondError(w, err)
		return
	}

	created, err := h.service.Get(r.Context(), code)
	if err != nil {
		h.logger.Error("read replacement failed", slog.Any("error", err), slog.String("businessUnitCode", code))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toBean(*created))
}

func (h *Handler) observeRejection(operation string, err error) {
	if h.metrics == nil {
		return
	}
	switch {
	case errors.Is(err, httpx.ErrLimitExceeded):
		h.metrics.RecordRejection(operation, "limit_exceeded")
	case errors.Is(err, httpx.ErrConflict):
		h.metrics.RecordRejection(operation, "conflict")
	case errors.Is(err, httpx.ErrInvariantViolation):
		h.metrics.RecordRejection(operation, "invariant_violation")
	}
}
