package stores

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists stores in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) GetAll(ctx context.Context) ([]Store, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, quantity_products_in_stock FROM store ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []Store
	for rows.Next() {
		var s Store
		if err := rows.Scan(&s.ID, &s.Name, &s.QuantityProductsInStock); err != nil {
			return nil, err
		}
		all = append(all, s)
	}
	return all, rows.Err()
}

// FindByID returns nil when no store matches.
func (r *Repository) FindByID(ctx context.Context, id int64) (*Store, error) {
	var s Store
	err := r.pool.QueryRow(ctx, `SELECT id, name, quantity_products_in_stock FROM store WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.QuantityProductsInStock)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM store WHERE id = $1)`, id).Scan(&found)
	return found, err
}

// Create inserts the store and fills in the generated identifier.
func (r *Repository) Create(ctx context.Context, store *Store) error {
	err := r.pool.QueryRow(ctx, `INSERT INTO store (name, quantity_products_in_stock) VALUES ($1, $2) RETURNING id`,
		store.Name, store.QuantityProductsInStock).Scan(&store.ID)
	if err != nil {
		return fmt.Errorf("insert store: %w", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, store Store) error {
	_, err := r.pool.Exec(ctx, `UPDATE store SET name = $2, quantity_products_in_stock = $3 WHERE id = $1`,
		store.ID, store.Name, store.QuantityProductsInStock)
	if err != nil {
		return fmt.Errorf("update store: %w", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM store WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete store: %w", err)
	}
	return nil
}
