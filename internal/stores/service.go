package stores

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fulfilment-app/fulfilment/internal/platform/httpx"
)

// Repo is the persistence contract for stores.
type Repo interface {
	GetAll(ctx context.Context) ([]Store, error)
	FindByID(ctx context.Context, id int64) (*Store, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, store *Store) error
	Update(ctx context.Context, store Store) error
	Delete(ctx context.Context, id int64) error
}

// SyncEnqueuer schedules a legacy store manager sync after a local write.
type SyncEnqueuer interface {
	EnqueueLegacySync(ctx context.Context, store Store) error
}

type Service struct {
	repo     Repo
	enqueuer SyncEnqueuer
	logger   *slog.Logger
}

// NewService constructs the store service. The enqueuer is optional; without
// it writes stay local.
func NewService(repo Repo, enqueuer SyncEnqueuer, logger *slog.Logger) *Service {
	return &Service{repo: repo, enqueuer: enqueuer, logger: logger}
}

// List returns every store sorted by name.
func (s *Service) List(ctx context.Context) ([]Store, error) {
	return s.repo.GetAll(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Store, error) {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find store: %w", err)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: store with id of %d does not exist", httpx.ErrNotFound, id)
	}
	return store, nil
}

// Exists reports whether the store id is known.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// Create persists a new store. The identifier is generated, never supplied.
func (s *Service) Create(ctx context.Context, store *Store) error {
	if store == nil {
		return fmt.Errorf("%w: store payload is required", httpx.ErrUnprocessable)
	}
	if store.ID != 0 {
		return fmt.Errorf("%w: id was invalidly set on request", httpx.ErrUnprocessable)
	}
	if strings.TrimSpace(store.Name) == "" {
		return fmt.Errorf("%w: store name is required", httpx.ErrUnprocessable)
	}

	if err := s.repo.Create(ctx, store); err != nil {
		return err
	}
	s.enqueueSync(ctx, *store)
	return nil
}

// Update replaces the named fields of an existing store.
func (s *Service) Update(ctx context.Context, store Store) (*Store, error) {
	if strings.TrimSpace(store.Name) == "" {
		return nil, fmt.Errorf("%w: store name was not set on request", httpx.ErrUnprocessable)
	}
	current, err := s.Get(ctx, store.ID)
	if err != nil {
		return nil, err
	}

	current.Name = store.Name
	current.QuantityProductsInStock = store.QuantityProductsInStock
	if err := s.repo.Update(ctx, *current); err != nil {
		return nil, err
	}
	s.enqueueSync(ctx, *current)
	return current, nil
}

// Patch overwrites only the fields present in the partial store.
func (s *Service) Patch(ctx context.Context, id int64, name *string, quantity *int) (*Store, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		if strings.TrimSpace(*name) == "" {
			return nil, fmt.Errorf("%w: store name was not set on request", httpx.ErrUnprocessable)
		}
		current.Name = *name
	}
	if quantity != nil {
		current.QuantityProductsInStock = *quantity
	}
	if err := s.repo.Update(ctx, *current); err != nil {
		return nil, err
	}
	s.enqueueSync(ctx, *current)
	return current, nil
}

// Delete removes an existing store; unknown ids are a not-found, not a no-op.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// enqueueSync is best effort. A failed enqueue never rolls back the local
// write; the legacy system catches up on the next change.
func (s *Service) enqueueSync(ctx context.Context, store Store) {
	if s.enqueuer == nil {
		return
	}
	if err := s.enqueuer.EnqueueLegacySync(ctx, store); err != nil {
		s.logger.Warn("enqueue legacy store sync", slog.Int64("storeId", store.ID), slog.Any("error", err))
	}
}
