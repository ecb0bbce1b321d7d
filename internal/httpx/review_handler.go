package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hqtrung/vnshop/internal/catalog"
	"github.com/hqtrung/vnshop/internal/review"
)

type ReviewHandler struct {
	Reviews *review.Repo
	Catalog *catalog.Repo
}

func (h *ReviewHandler) Register(r *chi.Mux) {
	r.Get("/products/{id}/reviews", h.list)
	r.Group(func(r chi.Router) {
		r.Use(RequireUser)
		r.Post("/products/{id}/reviews", h.create)
	})
}

func (h *ReviewHandler) list(w http.ResponseWriter, r *http.Request) {
	s, err := h.Reviews.ListByProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *ReviewHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	productID := chi.URLParam(r, "id")
	if _, err := h.Catalog.GetProduct(r.Context(), productID); err != nil {
		writeError(w, r, err)
		return
	}
	rv := &review.Review{
		ProductID: productID,
		UserID:    CallerOf(r).UserID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := h.Reviews.Create(r.Context(), rv); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rv)
}
