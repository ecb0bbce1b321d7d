package events

import (
	"encoding/json"
	"time"
)

const (
	EventProductViewed   = "ProductViewed"
	EventSearchPerformed = "SearchPerformed"
	EventOrderPlaced     = "OrderPlaced"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type ProductViewedPayload struct {
	ProductID string `json:"product_id"`
	UserID    string `json:"user_id,omitempty"`
}

type SearchPerformedPayload struct {
	Query  string `json:"query"`
	UserID string `json:"user_id,omitempty"`
}

type OrderItemPlaced struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
	PriceVND  int64  `json:"price_vnd"`
}

type OrderPlacedPayload struct {
	OrderID     string            `json:"order_id"`
	UserID      string            `json:"user_id"`
	CouponCode  string            `json:"coupon_code,omitempty"`
	Items       []OrderItemPlaced `json:"items"`
	SubtotalVND int64             `json:"subtotal_vnd"`
	DiscountVND int64             `json:"discount_vnd"`
	TotalVND    int64             `json:"total_vnd"`
}
