package httpx

import (
	"context"
	"net/http"
)

// The auth gateway in front of this service resolves the session and injects
// the caller's identity as headers. We only read them.
const (
	HeaderUserID = "X-User-Id"
	HeaderRole   = "X-User-Role"

	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type ctxKey int

const identityKey ctxKey = 0

type Caller struct {
	UserID string
	Role   string
}

// Identity copies the gateway headers into the request context.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := Caller{
			UserID: r.Header.Get(HeaderUserID),
			Role:   r.Header.Get(HeaderRole),
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, id)))
	})
}

func CallerOf(r *http.Request) Caller {
	id, _ := r.Context().Value(identityKey).(Caller)
	return id
}

// ownerOrAdmin gates per-resource reads: owners see their own, admins see all.
func ownerOrAdmin(c Caller, ownerID string) bool {
	return c.Role == RoleAdmin || (c.UserID != "" && c.UserID == ownerID)
}

// RequireUser rejects anonymous requests.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CallerOf(r).UserID == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin gates the admin mutation surface.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := CallerOf(r)
		if c.UserID == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			return
		}
		if c.Role != RoleAdmin {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "admin role required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
