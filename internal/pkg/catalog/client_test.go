package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trippydrip/storefront-backend/internal/pkg/apperr"
)

func TestItemNormalizesImageAlias(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/tee-melt", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"tee-melt","name":"Melting Logo Tee","price":24.50,"image":"/images/tee-melt.jpg","sizes":["M"],"colors":["white"]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	item, err := client.Item(context.Background(), "tee-melt")
	require.NoError(t, err)

	assert.Equal(t, "/images/tee-melt.jpg", item.ImageURL, "legacy image field must populate ImageURL")
	assert.Equal(t, int64(2450), item.Price)
}

func TestItemPrefersImageURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"x","name":"X","price":1,"image_url":"/a.jpg","image":"/b.jpg"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	item, err := client.Item(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "/a.jpg", item.ImageURL)
}

func TestItemNotFoundIsTyped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Item(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.False(t, apperr.IsGateway(err), "a missing product is not a transport failure")
}

func TestItemTransportFailureIsGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewClient(server.URL, time.Second)
	_, err := client.Item(context.Background(), "tee-melt")
	require.Error(t, err)
	assert.True(t, apperr.IsGateway(err))
	assert.NotErrorIs(t, err, apperr.ErrNotFound)
}

func TestItemServerErrorIsGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Item(context.Background(), "tee-melt")
	require.Error(t, err)

	var ge *apperr.GatewayError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, http.StatusInternalServerError, ge.StatusCode)
}

func TestItemMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Item(context.Background(), "tee-melt")
	require.Error(t, err)
	assert.True(t, apperr.IsGateway(err))
}

func TestItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		w.Write([]byte(`[{"id":"a","name":"A","price":10.00},{"id":"b","name":"B","price":0.99}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	items, err := client.Items(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(1000), items[0].Price)
	assert.Equal(t, int64(99), items[1].Price)
}
