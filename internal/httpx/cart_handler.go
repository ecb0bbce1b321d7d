package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hqtrung/vnshop/internal/cart"
	"github.com/hqtrung/vnshop/internal/coupon"
)

type CartHandler struct {
	Carts   *cart.Repo
	Coupons *coupon.Repo
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(RequireUser)
		r.Get("/cart", h.get)
		r.Put("/cart/items", h.setItem)
		r.Delete("/cart", h.clear)
	})
}

// get returns the cart; with ?coupon=CODE it also previews the discount.
// A rejected coupon does not fail the cart view, the rejection rides along.
func (h *CartHandler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Carts.Get(r.Context(), CallerOf(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if c.Lines == nil {
		c.Lines = []cart.Line{}
	}

	resp := map[string]any{"cart": c}
	if code := r.URL.Query().Get("coupon"); code != "" {
		cp, err := h.Coupons.GetByCode(r.Context(), code)
		if err != nil {
			resp["coupon_error"] = err.Error()
		} else if out, err := coupon.Evaluate(cp, c.SubtotalVND, time.Now().UTC()); err != nil {
			resp["coupon_error"] = err.Error()
		} else {
			resp["discount"] = out.Discount
			resp["total"] = out.Total
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CartHandler) setItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
		Qty       int    `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "product_id is required"})
		return
	}
	if req.Qty < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "qty must not be negative"})
		return
	}
	if err := h.Carts.SetItem(r.Context(), CallerOf(r).UserID, req.ProductID, req.Qty); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.Carts.Get(r.Context(), CallerOf(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.Carts.Clear(r.Context(), CallerOf(r).UserID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
