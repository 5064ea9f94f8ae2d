package warehouses

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fulfilment-app/fulfilment/internal/locations"
	"github.com/fulfilment-app/fulfilment/internal/platform/httpx"
	"github.com/fulfilment-app/fulfilment/internal/shared"
)

// Service implements the warehouse lifecycle operations: create, replace and
// archive. Every mutation validates the location and capacity constraints
// against the current set of active warehouses before writing.
type Service struct {
	store    TxStore
	resolver locations.Resolver
	audit    *shared.AuditLogger
	logger   *slog.Logger
}

// NewService constructs the lifecycle service. The audit logger is optional.
func NewService(store TxStore, resolver locations.Resolver, audit *shared.AuditLogger, logger *slog.Logger) *Service {
	return &Service{store: store, resolver: resolver, audit: audit, logger: logger}
}

// List returns all active warehouses.
func (s *Service) List(ctx context.Context) ([]Warehouse, error) {
	return s.store.GetAll(ctx)
}

// Get resolves an active warehouse by business unit code or row identifier.
func (s *Service) Get(ctx context.Context, idOrCode string) (*Warehouse, error) {
	warehouse, err := s.store.FindActiveByIDOrCode(ctx, idOrCode)
	if err != nil {
		return nil, fmt.Errorf("find warehouse: %w", err)
	}
	if warehouse == nil {
		return nil, fmt.Errorf("%w: warehouse with id of %s does not exist", httpx.ErrNotFound, idOrCode)
	}
	return warehouse, nil
}

// ActiveExists reports whether a non archived warehouse carries the code.
func (s *Service) ActiveExists(ctx context.Context, businessUnitCode string) (bool, error) {
	warehouse, err := s.store.FindByBusinessUnitCode(ctx, businessUnitCode)
	if err != nil {
		return false, fmt.Errorf("find warehouse: %w", err)
	}
	return warehouse != nil, nil
}

// Create validates and persists a new warehouse. On success CreatedAt is set
// on the passed warehouse so the adapter can render the stored state.
func (s *Service) Create(ctx context.Context, warehouse *Warehouse) error {
	if err := validatePayload(warehouse); err != nil {
		return err
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, store Store) error {
		existing, err := store.FindByBusinessUnitCode(ctx, warehouse.BusinessUnitCode)
		if err != nil {
			return fmt.Errorf("find warehouse: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("%w: warehouse business unit code already exists", httpx.ErrConflict)
		}

		location, err := s.resolveLocation(ctx, warehouse.Location)
		if err != nil {
			return err
		}

		activeAtLocation, err := store.GetByLocation(ctx, warehouse.Location)
		if err != nil {
			return fmt.Errorf("warehouses at location: %w", err)
		}
		if len(activeAtLocation) >= location.MaxNumberOfWarehouses {
			return fmt.Errorf("%w: maximum number of warehouses for this location has been reached", httpx.ErrLimitExceeded)
		}
		if totalCapacity(activeAtLocation)+intValue(warehouse.Capacity) > location.MaxCapacity {
			return fmt.Errorf("%w: warehouse capacity exceeds location maximum capacity", httpx.ErrLimitExceeded)
		}

		if intValue(warehouse.Stock) > intValue(warehouse.Capacity) {
			return fmt.Errorf("%w: warehouse stock cannot exceed warehouse capacity", httpx.ErrInvariantViolation)
		}

		warehouse.CreatedAt = time.Now()
		warehouse.ArchivedAt = nil
		if err := store.Create(ctx, *warehouse); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.recordAudit(ctx, "warehouse.created", warehouse.BusinessUnitCode, map[string]any{
		"location": warehouse.Location,
		"capacity": intValue(warehouse.Capacity),
		"stock":    intValue(warehouse.Stock),
	})
	return nil
}

// Replace archives the current active warehouse for the code and creates a
// replacement record in the same transaction. Stock carries over unchanged;
// the replacement must still accommodate it.
func (s *Service) Replace(ctx context.Context, newWarehouse *Warehouse) error {
	if err := validatePayload(newWarehouse); err != nil {
		return err
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, store Store) error {
		current, err := store.FindByBusinessUnitCode(ctx, newWarehouse.BusinessUnitCode)
		if err != nil {
			return fmt.Errorf("find warehouse: %w", err)
		}
		if current == nil {
			return fmt.Errorf("%w: warehouse not found", httpx.ErrNotFound)
		}

		if current.Stock == nil || *newWarehouse.Stock != *current.Stock {
			return fmt.Errorf("%w: replacement warehouse stock must match the existing warehouse stock", httpx.ErrConflict)
		}
		if *newWarehouse.Capacity < intValue(current.Stock) {
			return fmt.Errorf("%w: replacement warehouse capacity must accommodate existing warehouse stock", httpx.ErrConflict)
		}

		location, err := s.resolveLocation(ctx, newWarehouse.Location)
		if err != nil {
			return err
		}

		atNewLocation, err := store.GetByLocation(ctx, newWarehouse.Location)
		if err != nil {
			return fmt.Errorf("warehouses at location: %w", err)
		}

		// When staying at the same location the current warehouse already
		// occupies one slot; relocating consumes a fresh one.
		adjustedCount := len(atNewLocation)
		if newWarehouse.Location != current.Location {
			adjustedCount++
		}
		if adjustedCount > location.MaxNumberOfWarehouses {
			return fmt.Errorf("%w: maximum number of warehouses for this location has been reached", httpx.ErrLimitExceeded)
		}

		adjustedCapacity := totalCapacity(atNewLocation) + intValue(newWarehouse.Capacity)
		if newWarehouse.Location == current.Location {
			adjustedCapacity -= intValue(current.Capacity)
		}
		if adjustedCapacity > location.MaxCapacity {
			return fmt.Errorf("%w: warehouse capacity exceeds location maximum capacity", httpx.ErrLimitExceeded)
		}

		if intValue(newWarehouse.Stock) > intValue(newWarehouse.Capacity) {
			return fmt.Errorf("%w: warehouse stock cannot exceed warehouse capacity", httpx.ErrInvariantViolation)
		}

		now := time.Now()
		archived := *current
		archived.ArchivedAt = &now
		if err := store.Update(ctx, archived); err != nil {
			return err
		}

		newWarehouse.CreatedAt = now
		newWarehouse.ArchivedAt = nil
		if err := store.Create(ctx, *newWarehouse); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.recordAudit(ctx, "warehouse.replaced", newWarehouse.BusinessUnitCode, map[string]any{
		"location": newWarehouse.Location,
		"capacity": intValue(newWarehouse.Capacity),
	})
	return nil
}

// Archive marks the given warehouse archived and persists the update. The
// caller must pass an already-resolved active warehouse; no existence
// re-check happens here.
func (s *Service) Archive(ctx context.Context, warehouse *Warehouse) error {
	if warehouse == nil || strings.TrimSpace(warehouse.BusinessUnitCode) == "" {
		return fmt.Errorf("%w: warehouse not found", httpx.ErrNotFound)
	}

	now := time.Now()
	warehouse.ArchivedAt = &now
	if err := s.store.Update(ctx, *warehouse); err != nil {
		return fmt.Errorf("archive warehouse: %w", err)
	}

	s.recordAudit(ctx, "warehouse.archived", warehouse.BusinessUnitCode, nil)
	return nil
}

func (s *Service) resolveLocation(ctx context.Context, identifier string) (locations.Location, error) {
	location, err := s.resolver.ResolveByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, locations.ErrUnknownLocation) {
			return locations.Location{}, fmt.Errorf("%w: invalid warehouse location", httpx.ErrInvalidRequest)
		}
		return locations.Location{}, fmt.Errorf("resolve location: %w", err)
	}
	return location, nil
}

func (s *Service) recordAudit(ctx context.Context, action, code string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	entry := shared.AuditLog{Action: action, Entity: "warehouse", EntityID: code, Meta: meta}
	if err := s.audit.Record(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("record audit entry", slog.Any("error", err), slog.String("action", action))
	}
}

func validatePayload(warehouse *Warehouse) error {
	if warehouse == nil {
		return fmt.Errorf("%w: warehouse payload is required", httpx.ErrInvalidRequest)
	}
	if strings.TrimSpace(warehouse.BusinessUnitCode) == "" {
		return fmt.Errorf("%w: warehouse business unit code is required", httpx.ErrInvalidRequest)
	}
	if strings.TrimSpace(warehouse.Location) == "" {
		return fmt.Errorf("%w: warehouse location is required", httpx.ErrInvalidRequest)
	}
	if warehouse.Capacity == nil || *warehouse.Capacity < 0 {
		return fmt.Errorf("%w: warehouse capacity must be zero or greater", httpx.ErrInvalidRequest)
	}
	if warehouse.Stock == nil || *warehouse.Stock < 0 {
		return fmt.Errorf("%w: warehouse stock must be zero or greater", httpx.ErrInvalidRequest)
	}
	return nil
}
