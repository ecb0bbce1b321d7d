package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/hqtrung/vnshop/internal/coupon"
	"github.com/hqtrung/vnshop/internal/events"
	kafkax "github.com/hqtrung/vnshop/internal/kafka"
	"github.com/hqtrung/vnshop/internal/orders"
	"github.com/hqtrung/vnshop/internal/redisx"
)

type OrdersHandler struct {
	Repo     *orders.Repo
	Producer *kafkax.Producer // topic shop.order.placed
	Redis    *redis.Client
	Service  string
}

type placeOrderReq struct {
	CouponCode string `json:"coupon_code,omitempty"`
	// ClientTotal is what the storefront displayed; the server recomputes and
	// rejects a mismatch beyond the rounding tolerance.
	ClientTotal *int64 `json:"client_total,omitempty"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(RequireUser)
		r.Post("/orders", h.place)
		r.Get("/orders", h.listMine)
		r.Get("/orders/{id}", h.get)
		r.Get("/orders/{id}/status", h.getStatus)
		r.Post("/orders/{id}/return", h.requestReturn)
	})
	r.Group(func(r chi.Router) {
		r.Use(RequireAdmin)
		r.Patch("/admin/orders/{id}/status", h.transition)
		r.Post("/admin/orders/{id}/return/approve", h.approveReturn)
		r.Post("/admin/orders/{id}/return/reject", h.rejectReturn)
	})
}

func (h *OrdersHandler) place(w http.ResponseWriter, r *http.Request) {
	var req placeOrderReq
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Repo.PlaceOrder(ctx, orders.PlaceInput{
		UserID:      CallerOf(r).UserID,
		CouponCode:  req.CouponCode,
		ClientTotal: req.ClientTotal,
	}, time.Now().UTC())
	if err != nil {
		writeError(w, r, err)
		return
	}

	// cache status so the storefront's immediate poll skips the DB
	statusKey := fmt.Sprintf(redisx.KeyOrderStatus, o.ID)
	b, _ := json.Marshal(statusCacheEntry{Status: orders.StatusPending, UserID: o.UserID})
	_ = h.Redis.Set(ctx, statusKey, b, redisx.TTLStatusCache).Err()

	h.publishPlaced(r, o, req.CouponCode)
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) publishPlaced(r *http.Request, o *orders.Order, couponCode string) {
	if h.Producer == nil {
		return
	}
	items := make([]events.OrderItemPlaced, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, events.OrderItemPlaced{
			ProductID: it.ProductID, Qty: it.Qty, PriceVND: it.PriceVND,
		})
	}
	ev := events.Envelope{
		EventID:       uuid.NewString(),
		EventType:     events.EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: o.ID,
	}
	ev.Payload = kafkax.MustMarshal(events.OrderPlacedPayload{
		OrderID:     o.ID,
		UserID:      o.UserID,
		CouponCode:  coupon.NormalizeCode(couponCode),
		Items:       items,
		SubtotalVND: o.SubtotalVND,
		DiscountVND: o.DiscountVND,
		TotalVND:    o.TotalVND,
	})
	h.Producer.Publish(events.PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(events.EventOrderPlaced)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *OrdersHandler) listMine(w http.ResponseWriter, r *http.Request) {
	out, err := h.Repo.ListByUser(r.Context(), CallerOf(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if out == nil {
		out = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	o, err := h.Repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ownerOrAdmin(CallerOf(r), o.UserID) {
		writeError(w, r, orders.ErrNotOwner)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// statusCacheEntry is the Redis-cached shape; the owner travels with the
// status so the cache-hit path can still enforce access.
type statusCacheEntry struct {
	Status orders.Status `json:"status"`
	UserID string        `json:"user_id"`
}

// getStatus serves from the Redis cache when warm, DB otherwise. Only the
// owner or an admin may poll.
func (h *OrdersHandler) getStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	c := CallerOf(r)

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		var ent statusCacheEntry
		if json.Unmarshal([]byte(s), &ent) == nil && ent.UserID != "" {
			if !ownerOrAdmin(c, ent.UserID) {
				writeError(w, r, orders.ErrNotOwner)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"status": ent.Status})
			return
		}
	}

	status, owner, err := h.Repo.GetStatus(ctx, orderID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ownerOrAdmin(c, owner) {
		writeError(w, r, orders.ErrNotOwner)
		return
	}
	b, _ := json.Marshal(statusCacheEntry{Status: status, UserID: owner})
	_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
	writeJSON(w, http.StatusOK, map[string]any{"status": status})
}

func (h *OrdersHandler) transition(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status orders.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !orders.Valid(req.Status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown status"})
		return
	}
	orderID := chi.URLParam(r, "id")
	if err := h.Repo.Transition(r.Context(), orderID, req.Status); err != nil {
		writeError(w, r, err)
		return
	}
	h.invalidateStatus(r.Context(), orderID)
	writeJSON(w, http.StatusOK, map[string]any{"id": orderID, "status": req.Status})
}

func (h *OrdersHandler) requestReturn(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if err := h.Repo.RequestReturn(r.Context(), orderID, CallerOf(r).UserID); err != nil {
		writeError(w, r, err)
		return
	}
	h.invalidateStatus(r.Context(), orderID)
	writeJSON(w, http.StatusOK, map[string]any{"id": orderID, "status": orders.StatusReturnRequested})
}

func (h *OrdersHandler) approveReturn(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if err := h.Repo.ApproveReturn(r.Context(), orderID); err != nil {
		writeError(w, r, err)
		return
	}
	h.invalidateStatus(r.Context(), orderID)
	writeJSON(w, http.StatusOK, map[string]any{"id": orderID, "status": orders.StatusReturned})
}

func (h *OrdersHandler) rejectReturn(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if err := h.Repo.RejectReturn(r.Context(), orderID); err != nil {
		writeError(w, r, err)
		return
	}
	h.invalidateStatus(r.Context(), orderID)
	writeJSON(w, http.StatusOK, map[string]any{"id": orderID, "status": orders.StatusDelivered})
}

func (h *OrdersHandler) invalidateStatus(ctx context.Context, orderID string) {
	_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyOrderStatus, orderID)).Err()
}
