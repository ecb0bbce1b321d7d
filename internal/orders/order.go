package orders

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound      = errors.New("order not found")
	ErrNotOwner      = errors.New("order belongs to another user")
	ErrBadTransition = errors.New("invalid order status transition")
)

// InsufficientStockError names the offending product so the client can fix
// the cart line.
type InsufficientStockError struct {
	ProductID string
	Required  int
	Available int
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: need %d, have %d",
		e.ProductID, e.Required, e.Available)
}

type Order struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CouponID    *string   `json:"coupon_id,omitempty"`
	Status      Status    `json:"status"`
	SubtotalVND int64     `json:"subtotal_vnd"`
	DiscountVND int64     `json:"discount_vnd"`
	TotalVND    int64     `json:"total_vnd"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Items []Item `json:"items,omitempty"`
}

type Item struct {
	OrderID   string `json:"-"`
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
	PriceVND  int64  `json:"price_vnd"` // unit price at time of order
}
