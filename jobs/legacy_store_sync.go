package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/fulfilment-app/fulfilment/internal/stores"
)

// StoreSyncer is the downstream the sync job replays snapshots against.
type StoreSyncer interface {
	Sync(ctx context.Context, store stores.Store) error
}

// LegacyStoreSyncJob replays store snapshots to the legacy store manager.
type LegacyStoreSyncJob struct {
	Gateway StoreSyncer
	Logger  *slog.Logger
}

// NewLegacyStoreSyncJob wires dependencies for the sync handler.
func NewLegacyStoreSyncJob(gateway StoreSyncer, logger *slog.Logger) *LegacyStoreSyncJob {
	return &LegacyStoreSyncJob{Gateway: gateway, Logger: logger}
}

// Handle processes TaskTypeLegacyStoreSync tasks.
func (j *LegacyStoreSyncJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Gateway == nil {
		return errors.New("legacy store sync: handler not configured")
	}
	var payload LegacyStoreSyncPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	store := stores.Store{
		ID:                      payload.StoreID,
		Name:                    payload.Name,
		QuantityProductsInStock: payload.QuantityProductsInStock,
	}
	if err := j.Gateway.Sync(ctx, store); err != nil {
		if j.Logger != nil {
			j.Logger.Warn("legacy store sync failed", slog.Int64("storeId", store.ID), slog.Any("error", err))
		}
		return err
	}
	if j.Logger != nil {
		j.Logger.Info("legacy store sync completed", slog.Int64("storeId", store.ID))
	}
	return nil
}
