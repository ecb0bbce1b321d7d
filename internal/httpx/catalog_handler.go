package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/hqtrung/vnshop/internal/catalog"
	"github.com/hqtrung/vnshop/internal/events"
	kafkax "github.com/hqtrung/vnshop/internal/kafka"
)

type CatalogHandler struct {
	Repo     *catalog.Repo
	Producer *kafkax.Producer // topic shop.product.viewed
	Service  string
}

type categoryReq struct {
	Name      string  `json:"name"`
	ParentID  *string `json:"parent_id"`
	SortOrder int     `json:"sort_order"`
}

type productReq struct {
	SKU        string  `json:"sku"`
	Name       string  `json:"name"`
	PriceVND   int64   `json:"price_vnd"`
	Stock      int     `json:"stock"`
	CategoryID *string `json:"category_id"`
}

func (h *CatalogHandler) Register(r *chi.Mux) {
	r.Get("/categories", h.listCategories)
	r.Get("/categories/tree", h.categoryTree)
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)

	r.Group(func(r chi.Router) {
		r.Use(RequireAdmin)
		r.Get("/admin/categories/stats", h.categoryStats)
		r.Post("/admin/categories", h.createCategory)
		r.Put("/admin/categories/reorder", h.reorderCategories)
		r.Put("/admin/categories/{id}", h.updateCategory)
		r.Delete("/admin/categories/{id}", h.deleteCategory)
		r.Post("/admin/products", h.createProduct)
		r.Put("/admin/products/{id}", h.updateProduct)
		r.Delete("/admin/products/{id}", h.deleteProduct)
	})
}

func (h *CatalogHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	out, err := h.Repo.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if out == nil {
		out = []catalog.Category{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) categoryTree(w http.ResponseWriter, r *http.Request) {
	flat, err := h.Repo.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	roots := catalog.TreeOf(flat)
	if roots == nil {
		roots = []*catalog.Category{}
	}
	writeJSON(w, http.StatusOK, roots)
}

func (h *CatalogHandler) categoryStats(w http.ResponseWriter, r *http.Request) {
	parents, err := h.Repo.ParentMap(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, catalog.DepthStats(parents))
}

func (h *CatalogHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	c := &catalog.Category{Name: req.Name, ParentID: req.ParentID, SortOrder: req.SortOrder}
	if err := h.Repo.CreateCategory(r.Context(), c); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CatalogHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.Repo.UpdateCategory(r.Context(), id, req.Name, req.ParentID, req.SortOrder); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Repo.GetCategory(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) reorderCategories(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Order map[string]int `json:"order"` // category id -> sort position
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Order) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "order map is required"})
		return
	}
	if err := h.Repo.ReorderSiblings(r.Context(), req.Order); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	var categoryID *string
	if v := r.URL.Query().Get("category"); v != "" {
		categoryID = &v
	}
	out, err := h.Repo.ListProducts(r.Context(), categoryID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if out == nil {
		out = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.Repo.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.trackView(r, p.ID)
	writeJSON(w, http.StatusOK, p)
}

// trackView publishes a ProductViewed event; the behavior worker turns these
// into the view counters behind /recommendations.
func (h *CatalogHandler) trackView(r *http.Request, productID string) {
	if h.Producer == nil {
		return
	}
	ev := events.Envelope{
		EventID:       uuid.NewString(),
		EventType:     events.EventProductViewed,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: productID,
	}
	ev.Payload = kafkax.MustMarshal(events.ProductViewedPayload{
		ProductID: productID,
		UserID:    CallerOf(r).UserID,
	})
	h.Producer.Publish(events.PartitionKey(productID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(events.EventProductViewed)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *CatalogHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SKU == "" || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "sku and name are required"})
		return
	}
	p := &catalog.Product{
		SKU: req.SKU, Name: req.Name, PriceVND: req.PriceVND,
		Stock: req.Stock, CategoryID: req.CategoryID,
	}
	if err := h.Repo.CreateProduct(r.Context(), p); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *CatalogHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	p := &catalog.Product{
		ID: chi.URLParam(r, "id"), Name: req.Name, PriceVND: req.PriceVND,
		Stock: req.Stock, CategoryID: req.CategoryID,
	}
	if err := h.Repo.UpdateProduct(r.Context(), p); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
