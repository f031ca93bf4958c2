package bulkimport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakshamsingh/shop-invoice/internal/catalog"
	"github.com/sakshamsingh/shop-invoice/internal/common"
	"github.com/sakshamsingh/shop-invoice/internal/events"
	"github.com/sakshamsingh/shop-invoice/internal/session"
)

const maxImageBytes = 8 << 20

// Handler exposes the bulk-import endpoints.
type Handler struct {
	Store     *session.Store
	Catalog   *catalog.Service
	Bus       *events.Bus
	Extractor *Extractor
	MaxImages int
}

func (h *Handler) maxImages() int {
	if h.MaxImages > 0 {
		return h.MaxImages
	}
	return 5
}

// Pairs handles POST /api/v1/sessions/{id}/import with an explicit pair list.
func (h *Handler) Pairs(w http.ResponseWriter, r *http.Request) {
	if h.Catalog == nil || !h.Catalog.Ready() {
		common.JSONError(w, http.StatusServiceUnavailable, "CATALOG_EMPTY", "no catalog items are loaded", nil)
		return
	}
	var payload struct {
		Pairs []Pair `json:"pairs"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	h.apply(w, r, payload.Pairs)
}

// Images handles POST /api/v1/sessions/{id}/import/images with multipart
// uploads run through the extractor.
func (h *Handler) Images(w http.ResponseWriter, r *http.Request) {
	if h.Catalog == nil || !h.Catalog.Ready() {
		common.JSONError(w, http.StatusServiceUnavailable, "CATALOG_EMPTY", "no catalog items are loaded", nil)
		return
	}
	if h.Extractor == nil {
		common.JSONError(w, http.StatusServiceUnavailable, "EXTRACTOR_DISABLED", "image extraction is not configured", nil)
		return
	}
	if err := r.ParseMultipartForm(int64(h.maxImages()) * maxImageBytes); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid multipart body", nil)
		return
	}
	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "at least one image is required", nil)
		return
	}
	if len(files) > h.maxImages() {
		common.JSONError(w, http.StatusBadRequest, "TOO_MANY_IMAGES", "too many images", map[string]any{"max": h.maxImages()})
		return
	}

	images := make([]Image, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
		_ = file.Close()
		if err != nil || len(data) == 0 {
			continue
		}
		images = append(images, Image{MimeType: header.Header.Get("Content-Type"), Data: data})
	}

	pairs := h.Extractor.Extract(r.Context(), images)
	h.apply(w, r, pairs)
}

func (h *Handler) apply(w http.ResponseWriter, r *http.Request, pairs []Pair) {
	id := chi.URLParam(r, "id")
	var report Report
	snap, err := h.Store.Update(id, func(state *session.State) error {
		report = Apply(h.Catalog.Index(), state.Cart, pairs)
		return nil
	})
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "session not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return
	}
	if h.Bus != nil {
		_, _ = h.Bus.Emit(r.Context(), events.TopicImportCompleted, id, report)
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"matched": report.Matched,
		"dropped": report.Dropped,
		"session": snap,
	}})
}
