package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulfilment-app/fulfilment/internal/stores"
)

type fakeSyncer struct {
	synced []stores.Store
	err    error
}

func (f *fakeSyncer) Sync(_ context.Context, store stores.Store) error {
	if f.err != nil {
		return f.err
	}
	f.synced = append(f.synced, store)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandleReplaysSnapshot(t *testing.T) {
	store := stores.Store{ID: 4, Name: "Acme Super Store", QuantityProductsInStock: 17}
	task, err := NewLegacyStoreSyncTask(store)
	require.NoError(t, err)

	syncer := &fakeSyncer{}
	job := NewLegacyStoreSyncJob(syncer, discardLogger())
	require.NoError(t, job.Handle(context.Background(), task))

	require.Len(t, syncer.synced, 1)
	assert.Equal(t, store, syncer.synced[0])
}

func TestHandleReturnsGatewayErrorForRetry(t *testing.T) {
	task, err := NewLegacyStoreSyncTask(stores.Store{ID: 1, Name: "Acme"})
	require.NoError(t, err)

	boom := errors.New("legacy unreachable")
	job := NewLegacyStoreSyncJob(&fakeSyncer{err: boom}, discardLogger())
	assert.ErrorIs(t, job.Handle(context.Background(), task), boom)
}

func TestHandleSkipsRetryOnMalformedPayload(t *testing.T) {
	job := NewLegacyStoreSyncJob(&fakeSyncer{}, discardLogger())
	task := asynq.NewTask(TaskTypeLegacyStoreSync, []byte("{not json"))
	assert.ErrorIs(t, job.Handle(context.Background(), task), asynq.SkipRetry)
}
