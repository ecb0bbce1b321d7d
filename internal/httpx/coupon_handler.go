package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hqtrung/vnshop/internal/cart"
	"github.com/hqtrung/vnshop/internal/coupon"
)

type CouponHandler struct {
	Coupons *coupon.Repo
	Carts   *cart.Repo
}

type createCouponReq struct {
	Code            string    `json:"code"`
	DiscountPercent *int      `json:"discount_percent"`
	DiscountAmount  *int64    `json:"discount_amount"`
	MinOrderAmount  *int64    `json:"min_order_amount"`
	MaxDiscount     *int64    `json:"max_discount"`
	IsActive        *bool     `json:"is_active"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	UsageLimit      *int      `json:"usage_limit"`
}

func (h *CouponHandler) Register(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(RequireAdmin)
		r.Post("/admin/coupons", h.create)
		r.Get("/admin/coupons", h.list)
		r.Delete("/admin/coupons/{code}", h.delete)
	})
	r.Group(func(r chi.Router) {
		r.Use(RequireUser)
		r.Post("/coupons/preview", h.preview)
	})
}

func (h *CouponHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createCouponReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Code == "" || req.EndDate.IsZero() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "code and end_date are required"})
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	c := &coupon.Coupon{
		Code:            req.Code,
		DiscountPercent: req.DiscountPercent,
		DiscountAmount:  req.DiscountAmount,
		MinOrderAmount:  req.MinOrderAmount,
		MaxDiscount:     req.MaxDiscount,
		IsActive:        active,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		UsageLimit:      req.UsageLimit,
	}
	if err := h.Coupons.Create(r.Context(), c); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CouponHandler) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.Coupons.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if out == nil {
		out = []coupon.Coupon{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CouponHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Coupons.Delete(r.Context(), chi.URLParam(r, "code")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// preview evaluates a coupon against the caller's current cart subtotal with
// no side effects. The authoritative evaluation happens again at checkout.
func (h *CouponHandler) preview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.Carts.Get(ctx, CallerOf(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	cp, err := h.Coupons.GetByCode(ctx, req.Code)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := coupon.Evaluate(cp, c.SubtotalVND, time.Now().UTC())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"code":     cp.Code,
		"subtotal": c.SubtotalVND,
		"discount": out.Discount,
		"total":    out.Total,
	})
}
