package fulfilments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulfilment-app/fulfilment/internal/platform/httpx"
)

type memoryLinkStore struct {
	links []Link
}

func (m *memoryLinkStore) WithTx(ctx context.Context, fn func(ctx context.Context, links LinkStore) error) error {
	return fn(ctx, m)
}

func (m *memoryLinkStore) CountDistinctWarehousesForStore(_ context.Context, storeID int64) (int64, error) {
	seen := map[string]struct{}{}
	for _, l := range m.links {
		if l.StoreID == storeID {
			seen[l.WarehouseBusinessUnitCode] = struct{}{}
		}
	}
	return int64(len(seen)), nil
}

func (m *memoryLinkStore) CountDistinctWarehousesForStoreAndProduct(_ context.Context, storeID, productID int64) (int64, error) {
	seen := map[string]struct{}{}
	for _, l := range m.links {
		if l.StoreID == storeID && l.ProductID == productID {
			seen[l.WarehouseBusinessUnitCode] = struct{}{}
		}
	}
	return int64(len(seen)), nil
}

func (m *memoryLinkStore) CountDistinctProductsForWarehouse(_ context.Context, businessUnitCode string) (int64, error) {
	seen := map[int64]struct{}{}
	for _, l := range m.links {
		if l.WarehouseBusinessUnitCode == businessUnitCode {
			seen[l.ProductID] = struct{}{}
		}
	}
	return int64(len(seen)), nil
}

func (m *memoryLinkStore) ExistsTriple(_ context.Context, storeID, productID int64, businessUnitCode string) (bool, error) {
	for _, l := range m.links {
		if l.StoreID == storeID && l.ProductID == productID && l.WarehouseBusinessUnitCode == businessUnitCode {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryLinkStore) ExistsStoreWarehouse(_ context.Context, storeID int64, businessUnitCode string) (bool, error) {
	for _, l := range m.links {
		if l.StoreID == storeID && l.WarehouseBusinessUnitCode == businessUnitCode {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryLinkStore) ExistsWarehouseProduct(_ context.Context, businessUnitCode string, productID int64) (bool, error) {
	for _, l := range m.links {
		if l.WarehouseBusinessUnitCode == businessUnitCode && l.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryLinkStore) Persist(_ context.Context, link Link) error {
	m.links = append(m.links, link)
	return nil
}

func (m *memoryLinkStore) ListAll(_ context.Context) ([]Link, error) {
	return append([]Link(nil), m.links...), nil
}

type staticChecker struct {
	known map[int64]bool
	err   error
}

func (c staticChecker) Exists(_ context.Context, id int64) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	return c.known[id], nil
}

type staticWarehouseChecker struct {
	known map[string]bool
}

func (c staticWarehouseChecker) ActiveExists(_ context.Context, code string) (bool, error) {
	return c.known[code], nil
}

func newTestService(store *memoryLinkStore) *Service {
	stores := staticChecker{known: map[int64]bool{1: true, 2: true, 3: true}}
	products := staticChecker{known: map[int64]bool{10: true, 11: true, 12: true, 13: true, 14: true, 15: true}}
	warehouses := staticWarehouseChecker{known: map[string]bool{
		"MWH.001": true, "MWH.012": true, "MWH.023": true, "MWH.034": true, "MWH.045": true,
	}}
	return NewService(store, stores, products, warehouses, nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAssignCreatesLink(t *testing.T) {
	store := &memoryLinkStore{}
	service := newTestService(store)

	link, err := service.Assign(context.Background(), Link{StoreID: 1, ProductID: 10, WarehouseBusinessUnitCode: "MWH.001"})
	require.NoError(t, err)
	assert.Equal(t, Link{StoreID: 1, ProductID: 10, WarehouseBusinessUnitCode: "MWH.001"}, link)
	assert.Len(t, store.links, 1)
}

func TestAssignExistingTripleIsNoOp(t *testing.T) {
	store := &memoryLinkStore{links: []Link{{StoreID: 1, ProductID: 10, WarehouseBusinessUnitCode: "MWH.001"}}}
	service := newTestService(store)

	_, err := service.Assign(context.Background(), Link{StoreID: 1, ProductID: 10, WarehouseBusinessUnitCode: "MWH.001"})
	require.NoError(t, err)
	assert.Len(t, store.links, 1)
}

func TestAssignValidatesInput(t *testing.T) {
	service := newTestService(&memoryLinkStore{})

	cases := []struct {
		name string
		link Link
	}{
		{"zero store", Link{ProductID: 10, WarehouseBusinessUnitCode: "MWH.001"}},
		{"negative store", Link{StoreID: -1, ProductID: 10, WarehouseBusinessUnitCode: "MWH.001"}},
		{"zero product", Link{StoreID: 1, WarehouseBusinessUnitCode: "MWH.001"}},
		{"blank warehouse", Link{StoreID: 1, ProductID: 10, WarehouseBusinessUnitCode: "   "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Assign(context.Background(), tc.link)
			assert.ErrorIs(t, err, httpx.ErrInvalidRequest)
		})
	}
}

func TestAssignRejectsUnknownEntities(t *testing.T) {
	service := newTestService(&memoryLinkStore{})

	_, err := service.Assign(context.Background(), Link{StoreID: 99, ProductID: 10, WarehouseBusinessUnitCode: "MWH.001"})
	assert.ErrorIs(t, err, httpx.ErrNotFound)
	assert.ErrorContains(t, err, "store with id of 99")

	_, err = service.Assign(context.Background(), Link{StoreID: 1, ProductID: 999, WarehouseBusinessUnitCode: "MWH.001"})
	assert.ErrorIs(t, err, httpx.ErrNotFound)
	assert.ErrorContains(t, err, "product with id of 999")

	_, err = service.Assign(context.Background(), Link{StoreID: 1, ProductID: 10, WarehouseBusinessUnitCode: "MWH.999"})
	assert.ErrorIs(t, err, httpx.ErrNotFound)
	assert.ErrorContains(t, err, "warehouse with business unit code of MWH.999")
}

func TestAssignLimitsWarehousesPerStoreAndProduct(t *testing.T) {
	store := &memoryLinkStore{links: []Link{
		{StoreID: 1, ProductID: 10, WarehouseBusinessUnitCode: "MWH.001"},
		{StoreID: 1, ProductID: 10, WarehouseBusinessUnitCode: "MWH.012"},
	}}
	service := newTestService(store)

	_, err := service.Assign(context.Background(), Link{StoreID: 1, ProductID: 10, WarehouseBusinessUnitCode: "MWH.023"})
	assert.ErrorIs(t, err, httpx.ErrLimitExceeded)
	assert.ErrorContains(t, err, "maximum of 2 warehouses per store")
}

func TestAssignLimitsWarehousesPerStore(t *testing.T) {
	store := &memoryLinkStore{links: []Link{
		{StoreID: 1, ProductID: 10, WarehouseBusinessUnitCode: "MWH.001"},
		{StoreID: 1, ProductID: 11, WarehouseBusinessUnitCode: "MWH.012"},
		{StoreID: 1, ProductID: 12, WarehouseBusinessUnitCode: "MWH.023"},
	}}
	service := newTestService(store)

	_, err := service.Assign(context.Background(), Link{StoreID: 1, ProductID: 13, WarehouseBusinessUnitCode: "MWH.034"})
	assert.ErrorIs(t, err, httpx.ErrLimitExceeded)
	assert.ErrorContains(t, err, "maximum of 3 different warehouses")
}

func TestAssignAllowsKnownStoreWarehousePairingAtStoreLimit(t *testing.T) {
	// The store already uses three warehouses, but MWH.001 is one of them,
	// so a new product through MWH.001 adds no fan-out.
	store := &memoryLinkStore{links: []Link{
		{StoreID: 1, ProductID: 10, WarehouseBusinessUnitCode: "MWH.001"},
		{StoreID: 1, ProductID: 11, WarehouseBusinessUnitCode: "MWH.012"},
		{StoreID: 1, ProductID: 12, WarehouseBusinessUnitCode: "MWH.023"},
	}}
	service := newTestService(store)

	_, err := service.Assign(context.Background(), Link{StoreID: 1, ProductID: 13, WarehouseBusinessUnitCode: "MWH.001"})
	require.NoError(t, err)
	assert.Len(t, store.links, 4)
}

func TestAssignLimitsProductTypesPerWarehouse(t *testing.T) {
	store := &memoryLinkStore{links: []Link{
		{StoreID: 1, ProductID: 10, WarehouseBusinessUnitCode: "MWH.001"},
		{StoreID: 1, ProductID: 11, WarehouseBusinessUnitCode: "MWH.001"},
		{StoreID: 2, ProductID: 12, WarehouseBusinessUnitCode: "MWH.001"},
		{StoreID: 2, ProductID: 13, WarehouseBusinessUnitCode: "MWH.001"},
		{StoreID: 3, ProductID: 14, WarehouseBusinessUnitCode: "MWH.001"},
	}}
	service := newTestService(store)

	_, err := service.Assign(context.Background(), Link{StoreID: 3, ProductID: 15, WarehouseBusinessUnitCode: "MWH.001"})
	assert.ErrorIs(t, err, httpx.ErrLimitExceeded)
	assert.ErrorContains(t, err, "maximum of 5 different product types")
}

func TestAssignAllowsKnownWarehouseProductPairingAtProductLimit(t *testing.T) {
	// MWH.001 already stocks five products; product 10 is one of them, so a
	// second store assigning it introduces no new product type.
	store := &memoryLinkStore{links: []Link{
		{StoreID: 1, ProductID: 10, WarehouseBusinessUnitCode: "MWH.001"},
		{StoreID: 1, ProductID: 11, WarehouseBusinessUnitCode: "MWH.001"},
		{StoreID: 1, ProductID: 12, WarehouseBusinessUnitCode: "MWH.001"},
		{StoreID: 1, ProductID: 13, WarehouseBusinessUnitCode: "MWH.001"},
		{StoreID: 1, ProductID: 14, WarehouseBusinessUnitCode: "MWH.001"},
	}}
	service := newTestService(store)

	_, err := service.Assign(context.Background(), Link{StoreID: 2, ProductID: 10, WarehouseBusinessUnitCode: "MWH.001"})
	require.NoError(t, err)
	assert.Len(t, store.links, 6)
}

func TestAssignPropagatesCheckerErrors(t *testing.T) {
	boom := errors.New("store lookup down")
	service := NewService(&memoryLinkStore{}, staticChecker{err: boom}, staticChecker{}, staticWarehouseChecker{}, nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := service.Assign(context.Background(), Link{StoreID: 1, ProductID: 10, WarehouseBusinessUnitCode: "MWH.001"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestListReturnsAllLinks(t *testing.T) {
	store := &memoryLinkStore{}
	service := newTestService(store)
	for i := int64(0); i < 2; i++ {
		_, err := service.Assign(context.Background(), Link{StoreID: 1, ProductID: 10 + i, WarehouseBusinessUnitCode: fmt.Sprintf("MWH.%03d", i*11+1)})
		require.NoError(t, err)
	}

	links, err := service.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, links, 2)
}
