package fulfilments

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute), mr
}

func TestFetchLinksCachesLoaderResult(t *testing.T) {
	cache, _ := newTestCache(t)
	calls := 0
	loader := func(context.Context) ([]Link, error) {
		calls++
		return []Link{{StoreID: 1, ProductID: 10, WarehouseBusinessUnitCode: "MWH.001"}}, nil
	}

	first, err := cache.FetchLinks(context.Background(), loader)
	require.NoError(t, err)
	second, err := cache.FetchLinks(context.Background(), loader)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestFetchLinksPropagatesLoaderError(t *testing.T) {
	cache, _ := newTestCache(t)
	boom := errors.New("listing unavailable")

	_, err := cache.FetchLinks(context.Background(), func(context.Context) ([]Link, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestInvalidateForcesReload(t *testing.T) {
	cache, _ := newTestCache(t)
	calls := 0
	loader := func(context.Context) ([]Link, error) {
		calls++
		return []Link{{StoreID: int64(calls), ProductID: 10, WarehouseBusinessUnitCode: "MWH.001"}}, nil
	}

	_, err := cache.FetchLinks(context.Background(), loader)
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(context.Background()))

	reloaded, err := cache.FetchLinks(context.Background(), loader)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, int64(2), reloaded[0].StoreID)
}

func TestNilClientFallsThroughToLoader(t *testing.T) {
	cache := NewCache(nil, time.Minute)
	links, err := cache.FetchLinks(context.Background(), func(context.Context) ([]Link, error) {
		return []Link{{StoreID: 7, ProductID: 70, WarehouseBusinessUnitCode: "MWH.012"}}, nil
	})
	require.NoError(t, err)
	assert.Len(t, links, 1)
	assert.NoError(t, cache.Invalidate(context.Background()))
}
