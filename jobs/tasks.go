package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/fulfilment-app/fulfilment/internal/stores"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeLegacyStoreSync propagates a store change to the legacy store
	// manager.
	TaskTypeLegacyStoreSync = "store:legacy-sync"
)

// LegacyStoreSyncPayload carries the store snapshot to replay against the
// legacy system.
type LegacyStoreSyncPayload struct {
	StoreID                 int64  `json:"storeId"`
	Name                    string `json:"name"`
	QuantityProductsInStock int    `json:"quantityProductsInStock"`
}

// NewLegacyStoreSyncTask constructs an Asynq task for the store snapshot.
func NewLegacyStoreSyncTask(store stores.Store) (*asynq.Task, error) {
	data, err := json.Marshal(LegacyStoreSyncPayload{
		StoreID:                 store.ID,
		Name:                    store.Name,
		QuantityProductsInStock: store.QuantityProductsInStock,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeLegacyStoreSync, data), nil
}
