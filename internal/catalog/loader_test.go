package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sakshamsingh/shop-invoice/internal/catalog"
)

const slowDoc = `
blocks:
  - name: SLOW_FIRST
    buy_price: 1
    sell_price: 1
`

const fastDoc = `
blocks:
  - name: FAST_SECOND
    buy_price: 2
    sell_price: 2
`

// The first document's handler blocks until the second document has been
// requested, so the fetch only completes if both requests are in flight at
// once. Flattening must still follow configured order, not completion order.
func TestFetchAllConcurrentPreservesDocumentOrder(t *testing.T) {
	secondRequested := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/slow.yml":
			select {
			case <-secondRequested:
			case <-time.After(5 * time.Second):
			}
			_, _ = w.Write([]byte(slowDoc))
		case "/fast.yml":
			close(secondRequested)
			_, _ = w.Write([]byte(fastDoc))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	loader, err := catalog.NewLoader(catalog.LoaderConfig{
		BaseURL:   server.URL,
		Documents: []string{"slow.yml", "fast.yml"},
		Timeout:   2 * time.Second,
		Logger:    zerolog.Nop(),
	})
	require.NoError(t, err)

	items := loader.FetchAll(context.Background())
	require.Len(t, items, 2)
	require.Equal(t, "SLOW_FIRST", items[0].Name)
	require.Equal(t, "FAST_SECOND", items[1].Name)
}
