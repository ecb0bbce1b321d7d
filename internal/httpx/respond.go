package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/hqtrung/vnshop/internal/cart"
	"github.com/hqtrung/vnshop/internal/catalog"
	"github.com/hqtrung/vnshop/internal/coupon"
	"github.com/hqtrung/vnshop/internal/orders"
	"github.com/hqtrung/vnshop/internal/review"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP codes in one place. Anything
// unrecognized is a 500 with the detail kept in the log, not the response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var minErr coupon.MinimumNotMetError
	if errors.As(err, &minErr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":            minErr.Error(),
			"code":             "coupon_minimum_not_met",
			"required_minimum": minErr.Required,
		})
		return
	}
	var stockErr orders.InsufficientStockError
	if errors.As(err, &stockErr) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":      stockErr.Error(),
			"code":       "insufficient_stock",
			"product_id": stockErr.ProductID,
			"available":  stockErr.Available,
		})
		return
	}

	var code int
	switch {
	case errors.Is(err, coupon.ErrNotFound),
		errors.Is(err, catalog.ErrCategoryNotFound),
		errors.Is(err, catalog.ErrParentNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, orders.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, coupon.ErrInactive),
		errors.Is(err, coupon.ErrExpired),
		errors.Is(err, coupon.ErrExhausted):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, coupon.ErrTampered),
		errors.Is(err, coupon.ErrNoDiscountValue),
		errors.Is(err, coupon.ErrBadPercent),
		errors.Is(err, catalog.ErrSelfParent),
		errors.Is(err, catalog.ErrCyclicHierarchy),
		errors.Is(err, cart.ErrEmptyCart),
		errors.Is(err, review.ErrBadRating):
		code = http.StatusBadRequest
	case errors.Is(err, coupon.ErrCodeExists),
		errors.Is(err, coupon.ErrInUse),
		errors.Is(err, catalog.ErrDuplicateName),
		errors.Is(err, catalog.ErrHasChildren),
		errors.Is(err, catalog.ErrHasProducts),
		errors.Is(err, catalog.ErrProductInUse),
		errors.Is(err, catalog.ErrSKUExists),
		errors.Is(err, orders.ErrBadTransition),
		errors.Is(err, review.ErrAlreadyReviewed):
		code = http.StatusConflict
	case errors.Is(err, orders.ErrNotOwner):
		code = http.StatusForbidden
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
