package invoice

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakshamsingh/shop-invoice/internal/common"
	"github.com/sakshamsingh/shop-invoice/internal/events"
	"github.com/sakshamsingh/shop-invoice/internal/obs"
	"github.com/sakshamsingh/shop-invoice/internal/session"
)

// Handler exposes invoice rendering endpoints.
type Handler struct {
	Store *session.Store
	Bus   *events.Bus
	Now   func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Preview handles GET /api/v1/sessions/{id}/invoice.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Store.Snapshot(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	doc := Build(snap, h.now())
	h.recordRender(r, snap.ID, "json")
	common.JSON(w, http.StatusOK, map[string]any{"data": doc})
}

// PDF handles GET /api/v1/sessions/{id}/invoice.pdf.
func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Store.Snapshot(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	doc := Build(snap, h.now())
	rendered, err := RenderPDF(doc)
	if err != nil {
		if obs.InvoiceRenderTotal != nil {
			obs.InvoiceRenderTotal.WithLabelValues("pdf", "error").Inc()
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to render invoice", nil)
		return
	}
	h.recordRender(r, snap.ID, "pdf")
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "invoice-"+snap.ID+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rendered)
}

func (h *Handler) recordRender(r *http.Request, sessionID, format string) {
	if obs.InvoiceRenderTotal != nil {
		obs.InvoiceRenderTotal.WithLabelValues(format, "ok").Inc()
	}
	if h.Bus != nil {
		_, _ = h.Bus.Emit(r.Context(), events.TopicInvoiceRendered, sessionID, map[string]any{"format": format})
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrNotFound) {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "session not found", nil)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
}
