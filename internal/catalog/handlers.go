package catalog

import (
	"net/http"

	"github.com/sakshamsingh/shop-invoice/internal/common"
)

// Handler exposes public catalog endpoints.
type Handler struct {
	service *Service
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service *Service
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{service: cfg.Service}
}

// ItemView is the public listing payload for one catalog item.
type ItemView struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	BuyPrice    string `json:"buyPrice"`
	SellPrice   string `json:"sellPrice"`
}

// Items handles GET /api/v1/items with optional substring search via ?q=.
func (h *Handler) Items(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	if !h.service.Ready() {
		common.JSONError(w, http.StatusServiceUnavailable, "CATALOG_EMPTY", "no catalog items are loaded", nil)
		return
	}
	items := h.service.Index().Search(r.URL.Query().Get("q"))
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, ItemView{
			Name:        item.Name,
			DisplayName: DisplayName(item.Name),
			BuyPrice:    item.BuyPrice.StringFixed(2),
			SellPrice:   item.SellPrice.StringFixed(2),
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": views})
}

// Reload handles POST /api/v1/catalog/reload.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	count := h.service.Reload(r.Context())
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"items": count}})
}
