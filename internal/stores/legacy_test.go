package stores

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyGatewaySendsSnapshot(t *testing.T) {
	var received Store
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/stores/sync", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	gateway := NewLegacyGateway(server.URL)
	store := Store{ID: 3, Name: "Acme", QuantityProductsInStock: 12}
	require.NoError(t, gateway.Sync(context.Background(), store))
	assert.Equal(t, store, received)
}

func TestLegacyGatewayReportsUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	err := NewLegacyGateway(server.URL).Sync(context.Background(), Store{ID: 1, Name: "Acme"})
	assert.ErrorContains(t, err, "status 502")
}

func TestLegacyGatewayDisabledWithoutBaseURL(t *testing.T) {
	assert.NoError(t, NewLegacyGateway("").Sync(context.Background(), Store{ID: 1}))
}
