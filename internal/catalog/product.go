package catalog

import (
	"errors"
	"time"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSKUExists       = errors.New("product sku already exists")
	ErrProductInUse    = errors.New("product is referenced by carts or orders")
)

type Product struct {
	ID         string    `json:"id"`
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
	PriceVND   int64     `json:"price_vnd"`
	Stock      int       `json:"stock"`
	CategoryID *string   `json:"category_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
