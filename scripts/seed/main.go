package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/fulfilment-app/fulfilment/internal/app"
	"github.com/fulfilment-app/fulfilment/internal/platform/db"
)

type seedStore struct {
	name     string
	quantity int
}

type seedProduct struct {
	name        string
	description string
	price       float64
	stock       int
}

type seedWarehouse struct {
	businessUnitCode string
	location         string
	capacity         int
	stock            int
}

var demoStores = []seedStore{
	{"TONSTAD", 25},
	{"KALLAX", 40},
	{"BESTA", 15},
	{"EKET", 10},
}

var demoProducts = []seedProduct{
	{"Office Desk", "Height adjustable desk", 349.00, 120},
	{"Desk Chair", "Ergonomic chair with lumbar support", 229.50, 80},
	{"Bookcase", "Five shelf bookcase in oak veneer", 149.00, 60},
	{"Monitor Stand", "Bamboo monitor stand", 39.95, 200},
	{"Filing Cabinet", "Two drawer lockable cabinet", 89.00, 45},
}

var demoWarehouses = []seedWarehouse{
	{"MWH.001", "ZWOLLE-001", 40, 33},
	{"MWH.012", "AMSTERDAM-001", 75, 50},
	{"MWH.023", "TILBURG-001", 35, 20},
}

func main() {
	ctx := context.Background()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	for _, s := range demoStores {
		if _, err := pool.Exec(ctx, `INSERT INTO store (name, quantity_products_in_stock) VALUES ($1, $2)`, s.name, s.quantity); err != nil {
			logger.Error("seed store", slog.String("name", s.name), slog.Any("error", err))
			os.Exit(1)
		}
	}
	for _, p := range demoProducts {
		if _, err := pool.Exec(ctx, `INSERT INTO product (name, description, price, stock) VALUES ($1, $2, $3, $4)`, p.name, p.description, p.price, p.stock); err != nil {
			logger.Error("seed product", slog.String("name", p.name), slog.Any("error", err))
			os.Exit(1)
		}
	}
	for _, w := range demoWarehouses {
		if _, err := pool.Exec(ctx, `INSERT INTO warehouse (business_unit_code, location, capacity, stock) VALUES ($1, $2, $3, $4)`, w.businessUnitCode, w.location, w.capacity, w.stock); err != nil {
			logger.Error("seed warehouse", slog.String("businessUnitCode", w.businessUnitCode), slog.Any("error", err))
			os.Exit(1)
		}
	}

	logger.Info("seed complete",
		slog.Int("stores", len(demoStores)),
		slog.Int("products", len(demoProducts)),
		slog.Int("warehouses", len(demoWarehouses)))
}
