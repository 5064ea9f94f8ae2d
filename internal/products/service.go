package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/fulfilment-app/fulfilment/internal/platform/httpx"
)

// Repo is the persistence contract for products.
type Repo interface {
	GetAll(ctx context.Context) ([]Product, error)
	FindByID(ctx context.Context, id int64) (*Product, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product Product) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

// List returns every product sorted by name.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.GetAll(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("%w: product with id of %d does not exist", httpx.ErrNotFound, id)
	}
	return product, nil
}

// Exists reports whether the product id is known.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// Create persists a new product. The identifier is generated, never supplied.
func (s *Service) Create(ctx context.Context, product *Product) error {
	if product == nil {
		return fmt.Errorf("%w: product payload is required", httpx.ErrUnprocessable)
	}
	if product.ID != 0 {
		return fmt.Errorf("%w: id was invalidly set on request", httpx.ErrUnprocessable)
	}
	if strings.TrimSpace(product.Name) == "" {
		return fmt.Errorf("%w: product name is required", httpx.ErrUnprocessable)
	}
	return s.repo.Create(ctx, product)
}

// Update replaces the named fields of an existing product.
func (s *Service) Update(ctx context.Context, product Product) (*Product, error) {
	if strings.TrimSpace(product.Name) == "" {
		return nil, fmt.Errorf("%w: product name was not set on request", httpx.ErrUnprocessable)
	}
	current, err := s.Get(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	current.Name = product.Name
	current.Description = product.Description
	current.Price = product.Price
	current.Stock = product.Stock
	if err := s.repo.Update(ctx, *current); err != nil {
		return nil, err
	}
	return current, nil
}

// Delete removes an existing product; unknown ids are a not-found, not a no-op.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
