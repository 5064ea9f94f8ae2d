package fulfilments

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fulfilment-app/fulfilment/internal/platform/db"
)

// LinkStore is the persistence contract for fulfilment links. The distinct
// counts and existence checks are explicit queries so the store can serve
// them from indexes instead of the engine filtering rows.
type LinkStore interface {
	CountDistinctWarehousesForStore(ctx context.Context, storeID int64) (int64, error)
	CountDistinctWarehousesForStoreAndProduct(ctx context.Context, storeID, productID int64) (int64, error)
	CountDistinctProductsForWarehouse(ctx context.Context, businessUnitCode string) (int64, error)
	ExistsTriple(ctx context.Context, storeID, productID int64, businessUnitCode string) (bool, error)
	ExistsStoreWarehouse(ctx context.Context, storeID int64, businessUnitCode string) (bool, error)
	ExistsWarehouseProduct(ctx context.Context, businessUnitCode string, productID int64) (bool, error)
	Persist(ctx context.Context, link Link) error
	ListAll(ctx context.Context) ([]Link, error)
}

// TxLinkStore extends LinkStore with a transactional scope so the
// read-then-decide-then-write assignment runs against one consistent view.
type TxLinkStore interface {
	LinkStore
	WithTx(ctx context.Context, fn func(ctx context.Context, links LinkStore) error) error
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository persists fulfilment links in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
	linkStore
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, linkStore: linkStore{q: pool}}
}

// WithTx executes fn against a store bound to one serializable transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(ctx context.Context, links LinkStore) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, linkStore{q: tx})
	})
}

type linkStore struct {
	q queryer
}

func (s linkStore) CountDistinctWarehousesForStore(ctx context.Context, storeID int64) (int64, error) {
	return s.count(ctx, `SELECT COUNT(DISTINCT warehouse_business_unit_code) FROM warehouse_fulfilment_link WHERE store_id = $1`, storeID)
}

func (s linkStore) CountDistinctWarehousesForStoreAndProduct(ctx context.Context, storeID, productID int64) (int64, error) {
	return s.count(ctx, `SELECT COUNT(DISTINCT warehouse_business_unit_code) FROM warehouse_fulfilment_link WHERE store_id = $1 AND product_id = $2`, storeID, productID)
}

func (s linkStore) CountDistinctProductsForWarehouse(ctx context.Context, businessUnitCode string) (int64, error) {
	return s.count(ctx, `SELECT COUNT(DISTINCT product_id) FROM warehouse_fulfilment_link WHERE warehouse_business_unit_code = $1`, businessUnitCode)
}

func (s linkStore) ExistsTriple(ctx context.Context, storeID, productID int64, businessUnitCode string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM warehouse_fulfilment_link WHERE store_id = $1 AND product_id = $2 AND warehouse_business_unit_code = $3)`, storeID, productID, businessUnitCode)
}

func (s linkStore) ExistsStoreWarehouse(ctx context.Context, storeID int64, businessUnitCode string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM warehouse_fulfilment_link WHERE store_id = $1 AND warehouse_business_unit_code = $2)`, storeID, businessUnitCode)
}

func (s linkStore) ExistsWarehouseProduct(ctx context.Context, businessUnitCode string, productID int64) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM warehouse_fulfilment_link WHERE warehouse_business_unit_code = $1 AND product_id = $2)`, businessUnitCode, productID)
}

// Persist inserts the link. A concurrent insert of the same triple trips the
// unique constraint; that is the idempotent no-op case, not a failure.
func (s linkStore) Persist(ctx context.Context, link Link) error {
	_, err := s.q.Exec(ctx, `INSERT INTO warehouse_fulfilment_link (store_id, product_id, warehouse_business_unit_code) VALUES ($1, $2, $3)`,
		link.StoreID, link.ProductID, link.WarehouseBusinessUnitCode)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil
		}
		return fmt.Errorf("insert fulfilment link: %w", err)
	}
	return nil
}

func (s linkStore) ListAll(ctx context.Context) ([]Link, error) {
	rows, err := s.q.Query(ctx, `SELECT store_id, product_id, warehouse_business_unit_code FROM warehouse_fulfilment_link ORDER BY store_id, product_id, warehouse_business_unit_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		var link Link
		if err := rows.Scan(&link.StoreID, &link.ProductID, &link.WarehouseBusinessUnitCode); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (s linkStore) count(ctx context.Context, sql string, args ...any) (int64, error) {
	var n int64
	if err := s.q.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s linkStore) exists(ctx context.Context, sql string, args ...any) (bool, error) {
	var found bool
	if err := s.q.QueryRow(ctx, sql, args...).Scan(&found); err != nil {
		return false, err
	}
	return found, nil
}
