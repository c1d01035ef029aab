package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"storefront/app/services"
)

func TestGatewayExecuteReturnsData(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/graphql", r.URL.Path)
		require.Equal(t, "app-123", r.Header.Get("x-application-id"))
		require.Equal(t, "Bearer tok-456", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"product":{"slug":"tee"}}}`))
	}))
	defer server.Close()

	gw := services.NewPlatformGateway(server.URL, "app-123", "tok-456")
	data, err := gw.Execute(context.Background(), "query { product }", map[string]any{"slug": "tee"})
	require.NoError(t, err)
	require.JSONEq(t, `{"product":{"slug":"tee"}}`, string(data))

	require.Equal(t, "query { product }", gotBody["query"])
}

func TestGatewayExecutePlatformErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"errors":[{"message":"product not found"}]}`))
	}))
	defer server.Close()

	gw := services.NewPlatformGateway(server.URL, "app", "tok")
	_, err := gw.Execute(context.Background(), "query {}", nil)
	require.Error(t, err)
	require.Equal(t, services.ErrKindPlatform, services.KindOf(err))
	require.Contains(t, err.Error(), "product not found")
}

func TestGatewayExecuteTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer server.Close()

	gw := services.NewPlatformGateway(server.URL, "app", "tok")
	_, err := gw.Execute(context.Background(), "query {}", nil)
	require.Error(t, err)
	require.Equal(t, services.ErrKindTransport, services.KindOf(err))

	server.Close()
	_, err = gw.Execute(context.Background(), "query {}", nil)
	require.Error(t, err)
	require.Equal(t, services.ErrKindTransport, services.KindOf(err))
}
