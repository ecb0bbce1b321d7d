package cart

import "errors"

var ErrEmptyCart = errors.New("cart is empty")

type Line struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Qty         int    `json:"qty"`
	PriceVND    int64  `json:"price_vnd"`
}

type Cart struct {
	UserID      string `json:"user_id"`
	Lines       []Line `json:"lines"`
	SubtotalVND int64  `json:"subtotal_vnd"`
}

// Subtotal is the sum of unit price times quantity across lines.
func Subtotal(lines []Line) int64 {
	var sum int64
	for _, l := range lines {
		sum += l.PriceVND * int64(l.Qty)
	}
	return sum
}
