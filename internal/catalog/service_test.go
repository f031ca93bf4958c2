package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sakshamsingh/shop-invoice/internal/catalog"
)

func newDocServer(t *testing.T, docs map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := docs[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/x-yaml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func newService(t *testing.T, baseURL string, documents []string, cache *catalog.Cache) *catalog.Service {
	t.Helper()
	loader, err := catalog.NewLoader(catalog.LoaderConfig{
		BaseURL:   baseURL,
		Documents: documents,
		Timeout:   2 * time.Second,
		Logger:    zerolog.Nop(),
	})
	require.NoError(t, err)
	service, err := catalog.NewService(catalog.ServiceConfig{
		Loader: loader,
		Cache:  cache,
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)
	return service
}

func TestBootMergesDocumentsAndToleratesFailures(t *testing.T) {
	server := newDocServer(t, map[string]string{
		"/shop.yml": pagedDoc,
		"/ores.yml": groupedDoc,
	})
	service := newService(t, server.URL, []string{"shop.yml", "missing.yml", "ores.yml"}, nil)

	service.Boot(context.Background())

	require.True(t, service.Ready())
	require.Equal(t, 5, service.Index().Len())
	_, ok := service.Index().Lookup("IRON_INGOT")
	require.True(t, ok)
	_, ok = service.Index().Lookup("REDSTONE")
	require.True(t, ok)
}

func TestBootPrefersCache(t *testing.T) {
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	cache := catalog.NewCache(client, time.Minute)

	cached, err := json.Marshal([]catalog.Item{{Name: "CACHED_ITEM"}})
	require.NoError(t, err)
	require.NoError(t, mini.Set("catalog:index", string(cached)))

	server := newDocServer(t, map[string]string{"/shop.yml": pagedDoc})
	service := newService(t, server.URL, []string{"shop.yml"}, cache)

	service.Boot(context.Background())

	require.Equal(t, 1, service.Index().Len())
	_, ok := service.Index().Lookup("CACHED_ITEM")
	require.True(t, ok)
}

func TestReloadBypassesCacheAndRefreshesIt(t *testing.T) {
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	cache := catalog.NewCache(client, time.Minute)

	cached, err := json.Marshal([]catalog.Item{{Name: "STALE_ITEM"}})
	require.NoError(t, err)
	require.NoError(t, mini.Set("catalog:index", string(cached)))

	server := newDocServer(t, map[string]string{"/shop.yml": pagedDoc})
	service := newService(t, server.URL, []string{"shop.yml"}, cache)

	count := service.Reload(context.Background())
	require.Equal(t, 2, count)
	_, ok := service.Index().Lookup("STALE_ITEM")
	require.False(t, ok)

	stored, err := mini.Get("catalog:index")
	require.NoError(t, err)
	var items []catalog.Item
	require.NoError(t, json.Unmarshal([]byte(stored), &items))
	require.Len(t, items, 2)
}

func TestItemsHandlerEmptyCatalog(t *testing.T) {
	server := newDocServer(t, map[string]string{})
	service := newService(t, server.URL, []string{"missing.yml"}, nil)
	service.Boot(context.Background())

	handler := catalog.NewHandler(catalog.HandlerConfig{Service: service})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	rr := httptest.NewRecorder()
	handler.Items(rr, req)

	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	var body map[string]map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "CATALOG_EMPTY", body["error"]["code"])
}

func TestItemsHandlerSearch(t *testing.T) {
	server := newDocServer(t, map[string]string{"/ores.yml": groupedDoc})
	service := newService(t, server.URL, []string{"ores.yml"}, nil)
	service.Boot(context.Background())

	handler := catalog.NewHandler(catalog.HandlerConfig{Service: service})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/items?q=gold", nil)
	rr := httptest.NewRecorder()
	handler.Items(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Data []catalog.ItemView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	require.Equal(t, "GOLD_INGOT", body.Data[0].Name)
	require.Equal(t, "Gold Ingot", body.Data[0].DisplayName)
	require.Equal(t, "50.00", body.Data[0].BuyPrice)
}
