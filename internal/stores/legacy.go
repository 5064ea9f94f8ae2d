package stores

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// LegacyGateway pushes store changes to the legacy store manager. The legacy
// system only understands full snapshots, so every sync sends the whole store.
type LegacyGateway struct {
	baseURL string
	client  *http.Client
}

// NewLegacyGateway constructs the gateway. An empty base URL disables syncing.
func NewLegacyGateway(baseURL string) *LegacyGateway {
	return &LegacyGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Sync sends the store snapshot to the legacy system.
func (g *LegacyGateway) Sync(ctx context.Context, store Store) error {
	if g == nil || g.baseURL == "" {
		return nil
	}

	body, err := json.Marshal(store)
	if err != nil {
		return fmt.Errorf("marshal store snapshot: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/stores/sync", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build legacy sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("call legacy store manager: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("legacy store manager returned status %d", resp.StatusCode)
	}
	return nil
}
