package review

import (
	"errors"
	"time"
)

var (
	ErrAlreadyReviewed = errors.New("user already reviewed this product")
	ErrBadRating       = errors.New("rating must be between 1 and 5")
)

type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type Summary struct {
	Reviews       []Review `json:"reviews"`
	AverageRating float64  `json:"average_rating"`
	Count         int      `json:"count"`
}
