package fulfilments

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/fulfilment-app/fulfilment/internal/platform/httpx"
	"github.com/fulfilment-app/fulfilment/internal/shared"
)

// StoreChecker reports whether a store exists.
type StoreChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// ProductChecker reports whether a product exists.
type ProductChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// WarehouseChecker reports whether an active warehouse exists for a
// business unit code.
type WarehouseChecker interface {
	ActiveExists(ctx context.Context, businessUnitCode string) (bool, error)
}

type Service struct {
	links      TxLinkStore
	stores     StoreChecker
	products   ProductChecker
	warehouses WarehouseChecker
	cache      *Cache
	audit      *shared.AuditLogger
	logger     *slog.Logger
}

func NewService(links TxLinkStore, stores StoreChecker, products ProductChecker, warehouses WarehouseChecker, cache *Cache, audit *shared.AuditLogger, logger *slog.Logger) *Service {
	return &Service{
		links:      links,
		stores:     stores,
		products:   products,
		warehouses: warehouses,
		cache:      cache,
		audit:      audit,
		logger:     logger,
	}
}

// Assign links a warehouse to a store and product. An already existing link
// is a no-op. Capacity rules:
//   - a store/product pair is served by at most 2 distinct warehouses
//   - a store is served by at most 3 distinct warehouses, unless the store
//     already uses this warehouse
//   - a warehouse holds at most 5 distinct products, unless it already
//     holds this product
func (s *Service) Assign(ctx context.Context, link Link) (Link, error) {
	if link.StoreID <= 0 || link.ProductID <= 0 || strings.TrimSpace(link.WarehouseBusinessUnitCode) == "" {
		return Link{}, fmt.Errorf("%w: storeId, productId and warehouseBusinessUnitCode are required", httpx.ErrInvalidRequest)
	}

	ok, err := s.stores.Exists(ctx, link.StoreID)
	if err != nil {
		return Link{}, fmt.Errorf("check store: %w", err)
	}
	if !ok {
		return Link{}, fmt.Errorf("%w: store with id of %d does not exist", httpx.ErrNotFound, link.StoreID)
	}

	ok, err = s.products.Exists(ctx, link.ProductID)
	if err != nil {
		return Link{}, fmt.Errorf("check product: %w", err)
	}
	if !ok {
		return Link{}, fmt.Errorf("%w: product with id of %d does not exist", httpx.ErrNotFound, link.ProductID)
	}

	ok, err = s.warehouses.ActiveExists(ctx, link.WarehouseBusinessUnitCode)
	if err != nil {
		return Link{}, fmt.Errorf("check warehouse: %w", err)
	}
	if !ok {
		return Link{}, fmt.Errorf("%w: warehouse with business unit code of %s does not exist", httpx.ErrNotFound, link.WarehouseBusinessUnitCode)
	}

	err = s.links.WithTx(ctx, func(ctx context.Context, store LinkStore) error {
		exists, err := store.ExistsTriple(ctx, link.StoreID, link.ProductID, link.WarehouseBusinessUnitCode)
		if err != nil {
			return fmt.Errorf("check link: %w", err)
		}
		if exists {
			return nil
		}

		perPair, err := store.CountDistinctWarehousesForStoreAndProduct(ctx, link.StoreID, link.ProductID)
		if err != nil {
			return fmt.Errorf("count warehouses per store and product: %w", err)
		}
		if perPair >= maxWarehousesPerStoreProduct {
			return fmt.Errorf("%w: a product can be fulfilled by a maximum of %d warehouses per store", httpx.ErrLimitExceeded, maxWarehousesPerStoreProduct)
		}

		pairKnown, err := store.ExistsStoreWarehouse(ctx, link.StoreID, link.WarehouseBusinessUnitCode)
		if err != nil {
			return fmt.Errorf("check store warehouse pairing: %w", err)
		}
		if !pairKnown {
			perStore, err := store.CountDistinctWarehousesForStore(ctx, link.StoreID)
			if err != nil {
				return fmt.Errorf("count warehouses per store: %w", err)
			}
			if perStore >= maxWarehousesPerStore {
				return fmt.Errorf("%w: a store can be fulfilled by a maximum of %d different warehouses", httpx.ErrLimitExceeded, maxWarehousesPerStore)
			}
		}

		productKnown, err := store.ExistsWarehouseProduct(ctx, link.WarehouseBusinessUnitCode, link.ProductID)
		if err != nil {
			return fmt.Errorf("check warehouse product pairing: %w", err)
		}
		if !productKnown {
			perWarehouse, err := store.CountDistinctProductsForWarehouse(ctx, link.WarehouseBusinessUnitCode)
			if err != nil {
				return fmt.Errorf("count products per warehouse: %w", err)
			}
			if perWarehouse >= maxProductsPerWarehouse {
				return fmt.Errorf("%w: a warehouse can store a maximum of %d different product types", httpx.ErrLimitExceeded, maxProductsPerWarehouse)
			}
		}

		return store.Persist(ctx, link)
	})
	if err != nil {
		return Link{}, err
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("invalidate fulfilment link cache", "error", err)
	}
	s.recordAudit(ctx, "fulfilment.assign", link)

	return link, nil
}

// List returns every fulfilment link, served from cache when warm.
func (s *Service) List(ctx context.Context) ([]Link, error) {
	return s.cache.FetchLinks(ctx, s.links.ListAll)
}

func (s *Service) recordAudit(ctx context.Context, action string, link Link) {
	if s.audit == nil {
		return
	}
	entityID := strconv.FormatInt(link.StoreID, 10) + ":" + strconv.FormatInt(link.ProductID, 10) + ":" + link.WarehouseBusinessUnitCode
	if err := s.audit.Record(ctx, shared.AuditLog{
		Action:   action,
		Entity:   "warehouse_fulfilment_link",
		EntityID: entityID,
	}); err != nil {
		s.logger.Warn("record audit log", "action", action, "error", err)
	}
}
