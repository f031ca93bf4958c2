package session_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/sakshamsingh/shop-invoice/internal/catalog"
	"github.com/sakshamsingh/shop-invoice/internal/session"
)

const catalogDoc = `
blocks:
  - name: STONE
    buy_price: 5
    sell_price: 2
  - name: IRON_INGOT
    buy_price: 10.5
    sell_price: 8
`

func newCatalogService(t *testing.T) *catalog.Service {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(catalogDoc))
	}))
	t.Cleanup(server.Close)

	loader, err := catalog.NewLoader(catalog.LoaderConfig{
		BaseURL:   server.URL,
		Documents: []string{"shop.yml"},
		Timeout:   2 * time.Second,
		Logger:    zerolog.Nop(),
	})
	require.NoError(t, err)
	service, err := catalog.NewService(catalog.ServiceConfig{Loader: loader, Logger: zerolog.Nop()})
	require.NoError(t, err)
	service.Boot(t.Context())
	return service
}

func newRouter(t *testing.T) (*chi.Mux, *session.Store) {
	t.Helper()
	store := session.NewStore(time.Hour, zerolog.Nop())
	handler := &session.Handler{
		Store:    store,
		Catalog:  newCatalogService(t),
		Validate: validator.New(),
	}

	router := chi.NewRouter()
	router.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", handler.Create)
		r.Get("/{id}", handler.Get)
		r.Delete("/{id}", handler.Reset)
		r.Put("/{id}/items/{name}", handler.SetItem)
		r.Post("/{id}/items/{name}/increment", handler.Increment)
		r.Put("/{id}/mode", handler.SetMode)
		r.Put("/{id}/rates", handler.SetRates)
	})
	return router, store
}

type snapshotBody struct {
	Data session.Snapshot `json:"data"`
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, snapshotBody) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var decoded snapshotBody
	if rr.Code < 400 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &decoded))
	}
	return rr, decoded
}

func createSession(t *testing.T, router http.Handler) string {
	t.Helper()
	rr, body := doJSON(t, router, http.MethodPost, "/api/v1/sessions", "")
	require.Equal(t, http.StatusCreated, rr.Code)
	require.NotEmpty(t, body.Data.ID)
	return body.Data.ID
}

func TestSessionLifecycle(t *testing.T) {
	router, _ := newRouter(t)
	id := createSession(t, router)

	rr, body := doJSON(t, router, http.MethodGet, "/api/v1/sessions/"+id, "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "buying", string(body.Data.Mode))
	require.Empty(t, body.Data.Entries)
	require.Equal(t, "0", body.Data.Totals.Total.String())
}

func TestSetItemComputesTotals(t *testing.T) {
	router, _ := newRouter(t)
	id := createSession(t, router)

	rr, body := doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/items/STONE", `{"quantity": 10}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, body.Data.Entries, 1)
	require.Equal(t, 10, body.Data.Entries[0].Quantity)
	require.Equal(t, "50.00", body.Data.Totals.Subtotal.StringFixed(2))

	rr, body = doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/rates", `{"gstRate": "18", "taxRate": "0"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "9.00", body.Data.Totals.GSTAmount.StringFixed(2))
	require.Equal(t, "59.00", body.Data.Totals.Total.StringFixed(2))
}

func TestInvalidQuantityRemoves(t *testing.T) {
	router, _ := newRouter(t)
	id := createSession(t, router)

	_, body := doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/items/STONE", `{"quantity": 3}`)
	require.Len(t, body.Data.Entries, 1)

	_, body = doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/items/STONE", `{"quantity": "abc"}`)
	require.Empty(t, body.Data.Entries)
	require.Equal(t, "0", body.Data.Totals.Subtotal.String())
}

func TestZeroQuantityRemovesWithoutCatalogLookup(t *testing.T) {
	router, store := newRouter(t)
	id := createSession(t, router)

	doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/items/STONE", `{"quantity": 3}`)

	// Seed an entry for an item the catalog no longer carries, as after a
	// reload that dropped it.
	_, err := store.Update(id, func(state *session.State) error {
		state.Cart.Set(catalog.Item{
			Name:      "DIAMOND",
			BuyPrice:  decimal.NewFromInt(100),
			SellPrice: decimal.NewFromInt(80),
		}, 2)
		return nil
	})
	require.NoError(t, err)

	rr, body := doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/items/DIAMOND", `{"quantity": 0}`)
	require.Equal(t, http.StatusOK, rr.Code, "removal must not require a catalog hit")
	require.Len(t, body.Data.Entries, 1)
	require.Equal(t, "STONE", body.Data.Entries[0].Name)
	require.Equal(t, "15.00", body.Data.Totals.Subtotal.StringFixed(2))
}

func TestIncrement(t *testing.T) {
	router, _ := newRouter(t)
	id := createSession(t, router)

	doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+id+"/items/IRON_INGOT/increment", "")
	_, body := doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+id+"/items/IRON_INGOT/increment", "")
	require.Len(t, body.Data.Entries, 1)
	require.Equal(t, 2, body.Data.Entries[0].Quantity)
	require.Equal(t, "21.00", body.Data.Totals.Subtotal.StringFixed(2))
}

func TestModeSwitchKeepsQuantities(t *testing.T) {
	router, _ := newRouter(t)
	id := createSession(t, router)

	doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/items/STONE", `{"quantity": 10}`)
	rr, body := doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/mode", `{"mode": "selling"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "selling", string(body.Data.Mode))
	require.Equal(t, 10, body.Data.Entries[0].Quantity)
	require.Equal(t, "20.00", body.Data.Totals.Subtotal.StringFixed(2))

	rr, _ = doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/mode", `{"mode": "trading"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestResetRestoresDefaults(t *testing.T) {
	router, _ := newRouter(t)
	id := createSession(t, router)

	doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/items/STONE", `{"quantity": 10}`)
	doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/mode", `{"mode": "selling"}`)
	doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/rates", `{"gstRate": "18"}`)

	rr, body := doJSON(t, router, http.MethodDelete, "/api/v1/sessions/"+id, "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Empty(t, body.Data.Entries)
	require.Equal(t, "buying", string(body.Data.Mode))
	require.Equal(t, "0", body.Data.GSTRate.String())
	require.Equal(t, "0", body.Data.Totals.Total.String())
}

func TestUnknownItemAndSession(t *testing.T) {
	router, _ := newRouter(t)
	id := createSession(t, router)

	rr, _ := doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/items/DIAMOND", `{"quantity": 1}`)
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr, _ = doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/items/stone", `{"quantity": 1}`)
	require.Equal(t, http.StatusNotFound, rr.Code, "direct item lookups are case-sensitive")

	rr, _ = doJSON(t, router, http.MethodGet, "/api/v1/sessions/missing", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStoreSweepEvictsIdleSessions(t *testing.T) {
	store := session.NewStore(time.Nanosecond, zerolog.Nop())
	snap := store.Create()
	require.Equal(t, 1, store.Len())

	time.Sleep(2 * time.Millisecond)
	require.Equal(t, 1, store.Sweep())
	require.Equal(t, 0, store.Len())

	_, err := store.Snapshot(snap.ID)
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestStoreDelete(t *testing.T) {
	store := session.NewStore(time.Hour, zerolog.Nop())
	snap := store.Create()
	require.True(t, store.Delete(snap.ID))
	require.False(t, store.Delete(snap.ID))
}
