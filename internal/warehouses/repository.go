package warehouses

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fulfilment-app/fulfilment/internal/platform/db"
	"github.com/fulfilment-app/fulfilment/internal/platform/httpx"
)

// Store is the persistence contract the lifecycle engine operates against.
// Read operations return active warehouses only; find methods return nil when
// no active record matches.
type Store interface {
	GetAll(ctx context.Context) ([]Warehouse, error)
	GetByLocation(ctx context.Context, location string) ([]Warehouse, error)
	FindByBusinessUnitCode(ctx context.Context, code string) (*Warehouse, error)
	FindActiveByIDOrCode(ctx context.Context, idOrCode string) (*Warehouse, error)
	Create(ctx context.Context, warehouse Warehouse) error
	Update(ctx context.Context, warehouse Warehouse) error
	Remove(ctx context.Context, warehouse Warehouse) error
}

// TxStore extends Store with a transactional scope for multi-write operations.
type TxStore interface {
	Store
	WithTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository persists warehouses in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
	store
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, store: store{q: pool}}
}

// WithTx executes fn against a store bound to one serializable transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, store{q: tx})
	})
}

type store struct {
	q queryer
}

const warehouseColumns = `business_unit_code, location, capacity, stock, created_at, archived_at`

func (s store) GetAll(ctx context.Context) ([]Warehouse, error) {
	rows, err := s.q.Query(ctx, `SELECT `+warehouseColumns+` FROM warehouse WHERE archived_at IS NULL ORDER BY business_unit_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWarehouses(rows)
}

func (s store) GetByLocation(ctx context.Context, location string) ([]Warehouse, error) {
	rows, err := s.q.Query(ctx, `SELECT `+warehouseColumns+` FROM warehouse WHERE archived_at IS NULL AND location = $1`, location)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWarehouses(rows)
}

func (s store) FindByBusinessUnitCode(ctx context.Context, code string) (*Warehouse, error) {
	row := s.q.QueryRow(ctx, `SELECT `+warehouseColumns+` FROM warehouse WHERE business_unit_code = $1 AND archived_at IS NULL LIMIT 1`, code)
	return scanWarehouse(row)
}

// FindActiveByIDOrCode first matches the business unit code, then falls back
// to the numeric row identifier the legacy API also accepts.
func (s store) FindActiveByIDOrCode(ctx context.Context, idOrCode string) (*Warehouse, error) {
	warehouse, err := s.FindByBusinessUnitCode(ctx, idOrCode)
	if err != nil || warehouse != nil {
		return warehouse, err
	}

	id, err := strconv.ParseInt(idOrCode, 10, 64)
	if err != nil {
		return nil, nil
	}
	row := s.q.QueryRow(ctx, `SELECT `+warehouseColumns+` FROM warehouse WHERE id = $1 AND archived_at IS NULL`, id)
	return scanWarehouse(row)
}

func (s store) Create(ctx context.Context, warehouse Warehouse) error {
	_, err := s.q.Exec(ctx, `INSERT INTO warehouse (business_unit_code, location, capacity, stock, created_at, archived_at) VALUES ($1, $2, $3, $4, COALESCE($5, NOW()), $6)`,
		warehouse.BusinessUnitCode, warehouse.Location, warehouse.Capacity, warehouse.Stock, nullableTime(warehouse.CreatedAt), warehouse.ArchivedAt)
	if err != nil {
		return insertError(err)
	}
	return nil
}

// insertError classifies a failed warehouse insert. A unique violation on the
// active-code index means a concurrent writer claimed the code after our
// duplicate check passed, which is the same conflict the engine reports when
// it catches the duplicate itself.
func insertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: warehouse business unit code already exists", httpx.ErrConflict)
	}
	return fmt.Errorf("insert warehouse: %w", err)
}

// Update matches by business unit code, preferring the active record and
// falling back to the most recently created one.
func (s store) Update(ctx context.Context, warehouse Warehouse) error {
	_, err := s.q.Exec(ctx, `UPDATE warehouse SET location = $2, capacity = $3, stock = $4, created_at = COALESCE($5, created_at), archived_at = $6
		WHERE id = (
			SELECT id FROM warehouse WHERE business_unit_code = $1
			ORDER BY (archived_at IS NULL) DESC, created_at DESC
			LIMIT 1
		)`,
		warehouse.BusinessUnitCode, warehouse.Location, warehouse.Capacity, warehouse.Stock, nullableTime(warehouse.CreatedAt), warehouse.ArchivedAt)
	if err != nil {
		return fmt.Errorf("update warehouse: %w", err)
	}
	return nil
}

// Remove deletes the active record for the code. Archived history stays.
func (s store) Remove(ctx context.Context, warehouse Warehouse) error {
	_, err := s.q.Exec(ctx, `DELETE FROM warehouse WHERE business_unit_code = $1 AND archived_at IS NULL`, warehouse.BusinessUnitCode)
	if err != nil {
		return fmt.Errorf("delete warehouse: %w", err)
	}
	return nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func scanWarehouse(row pgx.Row) (*Warehouse, error) {
	var w Warehouse
	err := row.Scan(&w.BusinessUnitCode, &w.Location, &w.Capacity, &w.Stock, &w.CreatedAt, &w.ArchivedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func scanWarehouses(rows pgx.Rows) ([]Warehouse, error) {
	var warehouses []Warehouse
	for rows.Next() {
		var w Warehouse
		if err := rows.Scan(&w.BusinessUnitCode, &w.Location, &w.Capacity, &w.Stock, &w.CreatedAt, &w.ArchivedAt); err != nil {
			return nil, err
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, rows.Err()
}
