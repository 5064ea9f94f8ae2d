package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fulfilment-app/fulfilment/internal/fulfilments"
	"github.com/fulfilment-app/fulfilment/internal/observability"
	"github.com/fulfilment-app/fulfilment/internal/products"
	"github.com/fulfilment-app/fulfilment/internal/stores"
	"github.com/fulfilment-app/fulfilment/internal/warehouses"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	WarehouseHandler  *warehouses.Handler
	FulfilmentHandler *fulfilments.Handler
	StoreHandler      *stores.Handler
	ProductHandler    *products.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/warehouse", params.WarehouseHandler.MountRoutes)
	r.Route("/warehouse-fulfilment", params.FulfilmentHandler.MountRoutes)
	if params.StoreHandler != nil {
		r.Route("/store", params.StoreHandler.MountRoutes)
	}
	if params.ProductHandler != nil {
		r.Route("/product", params.ProductHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Handle("/metrics", params.Metrics.Handler())
	}

	return r
}
