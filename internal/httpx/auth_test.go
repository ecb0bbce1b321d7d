package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hqtrung/vnshop/internal/catalog"
	"github.com/hqtrung/vnshop/internal/coupon"
	"github.com/hqtrung/vnshop/internal/orders"
)

func doRequest(h http.Handler, userID, role string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if userID != "" {
		req.Header.Set(HeaderUserID, userID)
	}
	if role != "" {
		req.Header.Set(HeaderRole, role)
	}
	rec := httptest.NewRecorder()
	Identity(h).ServeHTTP(rec, req)
	return rec
}

func TestRequireUser(t *testing.T) {
	ok := false
	h := RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok = true
		assert.Equal(t, "u1", CallerOf(r).UserID)
	}))

	rec := doRequest(h, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ok)

	rec = doRequest(h, "u1", RoleUser)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ok)
}

func TestRequireAdmin(t *testing.T) {
	h := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	assert.Equal(t, http.StatusUnauthorized, doRequest(h, "", "").Code)
	assert.Equal(t, http.StatusForbidden, doRequest(h, "u1", RoleUser).Code)
	assert.Equal(t, http.StatusOK, doRequest(h, "admin1", RoleAdmin).Code)
}

func TestOwnerOrAdmin(t *testing.T) {
	assert.True(t, ownerOrAdmin(Caller{UserID: "u1", Role: RoleUser}, "u1"))
	assert.True(t, ownerOrAdmin(Caller{UserID: "a1", Role: RoleAdmin}, "u1"))
	assert.False(t, ownerOrAdmin(Caller{UserID: "u2", Role: RoleUser}, "u1"))
	// anonymous never matches, even against an empty owner
	assert.False(t, ownerOrAdmin(Caller{}, ""))
}

func TestWriteErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{coupon.ErrNotFound, http.StatusNotFound},
		{coupon.ErrInactive, http.StatusUnprocessableEntity},
		{coupon.ErrExpired, http.StatusUnprocessableEntity},
		{coupon.ErrExhausted, http.StatusUnprocessableEntity},
		{coupon.ErrTampered, http.StatusBadRequest},
		{coupon.ErrInUse, http.StatusConflict},
		{coupon.MinimumNotMetError{Required: 500_000}, http.StatusUnprocessableEntity},
		{catalog.ErrSelfParent, http.StatusBadRequest},
		{catalog.ErrCyclicHierarchy, http.StatusBadRequest},
		{catalog.ErrParentNotFound, http.StatusNotFound},
		{catalog.ErrDuplicateName, http.StatusConflict},
		{catalog.ErrHasChildren, http.StatusConflict},
		{catalog.ErrHasProducts, http.StatusConflict},
		{catalog.ErrProductInUse, http.StatusConflict},
		{orders.ErrNotOwner, http.StatusForbidden},
		{orders.ErrBadTransition, http.StatusConflict},
		{orders.InsufficientStockError{ProductID: "p", Required: 3, Available: 1}, http.StatusConflict},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		writeError(rec, req, tc.err)
		assert.Equal(t, tc.code, rec.Code, "error %v", tc.err)
	}
}

func TestWriteErrorMinimumCarriesRequired(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	writeError(rec, req, coupon.MinimumNotMetError{Required: 500_000})
	assert.Contains(t, rec.Body.String(), `"required_minimum":500000`)
}
