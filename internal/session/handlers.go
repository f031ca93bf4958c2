package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/sakshamsingh/shop-invoice/internal/catalog"
	"github.com/sakshamsingh/shop-invoice/internal/common"
	"github.com/sakshamsingh/shop-invoice/internal/events"
	"github.com/sakshamsingh/shop-invoice/internal/obs"
	"github.com/sakshamsingh/shop-invoice/internal/pricing"
)

// Handler exposes session lifecycle and bill-editing endpoints.
type Handler struct {
	Store    *Store
	Catalog  *catalog.Service
	Bus      *events.Bus
	Validate *validator.Validate
}

// Create handles POST /api/v1/sessions.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "session store not configured", nil)
		return
	}
	snap := h.Store.Create()
	if h.Bus != nil {
		_, _ = h.Bus.Emit(r.Context(), events.TopicSessionCreated, snap.ID, nil)
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": snap})
}

// Get handles GET /api/v1/sessions/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Store.Snapshot(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": snap})
}

// Reset handles DELETE /api/v1/sessions/{id}: empty cart, buying mode, zero
// rates. The session itself stays alive.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := h.Store.Update(id, func(state *State) error {
		state.Reset()
		return nil
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.afterMutation(r, snap, "reset")
	common.JSON(w, http.StatusOK, map[string]any{"data": snap})
}

// SetItem handles PUT /api/v1/sessions/{id}/items/{name}. A quantity below 1,
// missing, or unparseable removes the entry. Removal skips the catalog
// lookup so entries for items dropped by a reload can still be cleared.
func (h *Handler) SetItem(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Quantity any `json:"quantity"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)
	quantity := coerceQuantity(payload.Quantity)

	if quantity < 1 {
		name := chi.URLParam(r, "name")
		snap, err := h.Store.Update(chi.URLParam(r, "id"), func(state *State) error {
			state.Cart.Remove(name)
			return nil
		})
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.afterMutation(r, snap, "remove")
		common.JSON(w, http.StatusOK, map[string]any{"data": snap})
		return
	}

	item, ok := h.lookupItem(w, r)
	if !ok {
		return
	}
	snap, err := h.Store.Update(chi.URLParam(r, "id"), func(state *State) error {
		state.Cart.Set(item, quantity)
		return nil
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.afterMutation(r, snap, "set")
	common.JSON(w, http.StatusOK, map[string]any{"data": snap})
}

// Increment handles POST /api/v1/sessions/{id}/items/{name}/increment.
func (h *Handler) Increment(w http.ResponseWriter, r *http.Request) {
	item, ok := h.lookupItem(w, r)
	if !ok {
		return
	}
	snap, err := h.Store.Update(chi.URLParam(r, "id"), func(state *State) error {
		state.Cart.Increment(item)
		return nil
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.afterMutation(r, snap, "increment")
	common.JSON(w, http.StatusOK, map[string]any{"data": snap})
}

// SetMode handles PUT /api/v1/sessions/{id}/mode.
func (h *Handler) SetMode(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Mode string `json:"mode" validate:"required,oneof=buying selling"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(payload); err != nil {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "mode must be buying or selling", nil)
			return
		}
	} else if !pricing.Mode(payload.Mode).Valid() {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "mode must be buying or selling", nil)
		return
	}
	snap, err := h.Store.Update(chi.URLParam(r, "id"), func(state *State) error {
		state.Mode = pricing.Mode(payload.Mode)
		return nil
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.afterMutation(r, snap, "mode")
	common.JSON(w, http.StatusOK, map[string]any{"data": snap})
}

// SetRates handles PUT /api/v1/sessions/{id}/rates. Absent or unparseable
// rates fall back to zero.
func (h *Handler) SetRates(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		GSTRate any `json:"gstRate"`
		TaxRate any `json:"taxRate"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)

	snap, err := h.Store.Update(chi.URLParam(r, "id"), func(state *State) error {
		state.GSTRate = coerceRate(payload.GSTRate)
		state.TaxRate = coerceRate(payload.TaxRate)
		return nil
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.afterMutation(r, snap, "rates")
	common.JSON(w, http.StatusOK, map[string]any{"data": snap})
}

func (h *Handler) lookupItem(w http.ResponseWriter, r *http.Request) (catalog.Item, bool) {
	if h.Catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return catalog.Item{}, false
	}
	name := chi.URLParam(r, "name")
	item, ok := h.Catalog.Index().Lookup(name)
	if !ok {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "item not found", nil)
		return catalog.Item{}, false
	}
	return item, true
}

func (h *Handler) afterMutation(r *http.Request, snap Snapshot, op string) {
	if obs.CartOpsTotal != nil {
		obs.CartOpsTotal.WithLabelValues(op).Inc()
	}
	if h.Bus == nil {
		return
	}
	ctx := r.Context()
	_, _ = h.Bus.Emit(ctx, events.TopicSessionUpdated, snap.ID, map[string]any{"op": op})
	_, _ = h.Bus.Emit(ctx, events.TopicBillRecomputed, snap.ID, map[string]any{
		"total": snap.Totals.Total.StringFixed(2),
		"items": len(snap.Entries),
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "session not found", nil)
		return
	}
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		common.JSONError(w, status, appErr.Code, appErr.Message, appErr.Details)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
}

// coerceQuantity applies the removal-on-invalid rule to loosely typed input.
func coerceQuantity(raw any) int {
	switch v := raw.(type) {
	case float64:
		return int(v)
	case string:
		return common.QuantityOrZero(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
		return 0
	default:
		return 0
	}
}

// coerceRate maps absent or invalid input to a zero rate.
func coerceRate(raw any) decimal.Decimal {
	switch v := raw.(type) {
	case float64:
		return common.RateOrZero(strconv.FormatFloat(v, 'f', -1, 64))
	case string:
		return common.RateOrZero(v)
	default:
		return decimal.Zero
	}
}
