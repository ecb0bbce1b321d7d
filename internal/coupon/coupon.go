package coupon

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound  = errors.New("coupon not found")
	ErrInactive  = errors.New("coupon is inactive")
	ErrExpired   = errors.New("coupon is outside its validity window")
	ErrExhausted = errors.New("coupon usage limit reached")
	ErrTampered  = errors.New("client total does not match server total")

	ErrNoDiscountValue = errors.New("coupon needs a discount percent or a discount amount")
	ErrBadPercent      = errors.New("discount percent must be between 0 and 100")
)

// MinimumNotMetError carries the required floor so the caller can render it.
type MinimumNotMetError struct {
	Required int64
}

func (e MinimumNotMetError) Error() string {
	return fmt.Sprintf("order subtotal below coupon minimum of %d VND", e.Required)
}

// Coupon amounts are whole VND. Exactly one of DiscountPercent/DiscountAmount
// is applied per evaluation; percent wins when both are set.
type Coupon struct {
	ID              string    `json:"id"`
	Code            string    `json:"code"`
	DiscountPercent *int      `json:"discount_percent,omitempty"`
	DiscountAmount  *int64    `json:"discount_amount,omitempty"`
	MinOrderAmount  *int64    `json:"min_order_amount,omitempty"`
	MaxDiscount     *int64    `json:"max_discount,omitempty"`
	IsActive        bool      `json:"is_active"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	UsageLimit      *int      `json:"usage_limit,omitempty"`
	UsageCount      int       `json:"usage_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// NormalizeCode upper-cases and trims a user-supplied code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate enforces field constraints at construction time.
func (c *Coupon) Validate() error {
	if c.DiscountPercent == nil && c.DiscountAmount == nil {
		return ErrNoDiscountValue
	}
	if c.DiscountPercent != nil && (*c.DiscountPercent < 0 || *c.DiscountPercent > 100) {
		return ErrBadPercent
	}
	return nil
}

type Outcome struct {
	Discount int64 `json:"discount"`
	Total    int64 `json:"total"`
}

// Evaluate checks eligibility and computes the discount for a subtotal.
// Validation order: active, validity window, usage limit, minimum order.
// The first failure wins. A fixed discount is applied verbatim even past the
// subtotal; only Total is floored at zero.
func Evaluate(c *Coupon, subtotal int64, now time.Time) (Outcome, error) {
	if !c.IsActive {
		return Outcome{}, ErrInactive
	}
	if now.Before(c.StartDate) || now.After(c.EndDate) {
		return Outcome{}, ErrExpired
	}
	if c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit {
		return Outcome{}, ErrExhausted
	}
	if c.MinOrderAmount != nil && subtotal < *c.MinOrderAmount {
		return Outcome{}, MinimumNotMetError{Required: *c.MinOrderAmount}
	}

	var discount int64
	switch {
	case c.DiscountPercent != nil:
		discount = subtotal * int64(*c.DiscountPercent) / 100
		if c.MaxDiscount != nil && discount > *c.MaxDiscount {
			discount = *c.MaxDiscount
		}
	case c.DiscountAmount != nil:
		discount = *c.DiscountAmount
	default:
		return Outcome{}, ErrNoDiscountValue
	}

	total := subtotal - discount
	if total < 0 {
		total = 0
	}
	return Outcome{Discount: discount, Total: total}, nil
}

// TamperTolerance is the allowed gap between a client-reported total and the
// server-recomputed one, in VND.
const TamperTolerance = 1

// CheckClientTotal rejects totals that drift past the rounding tolerance.
func CheckClientTotal(serverTotal, clientTotal int64) error {
	diff := serverTotal - clientTotal
	if diff < 0 {
		diff = -diff
	}
	if diff > TamperTolerance {
		return ErrTampered
	}
	return nil
}
