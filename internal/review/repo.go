package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Create(ctx context.Context, rv *Review) error {
	if rv.Rating < 1 || rv.Rating > 5 {
		return ErrBadRating
	}
	rv.ID = uuid.NewString()
	_, err := r.DB.Exec(ctx, `
		INSERT INTO reviews (id, product_id, user_id, rating, comment)
		VALUES ($1,$2,$3,$4,$5)`, rv.ID, rv.ProductID, rv.UserID, rv.Rating, rv.Comment)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrAlreadyReviewed
		}
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

func (r *Repo) ListByProduct(ctx context.Context, productID string) (*Summary, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, product_id, user_id, rating, comment, created_at
		FROM reviews WHERE product_id=$1 ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	s := &Summary{Reviews: []Review{}}
	var sum int
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		s.Reviews = append(s.Reviews, rv)
		sum += rv.Rating
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	s.Count = len(s.Reviews)
	if s.Count > 0 {
		s.AverageRating = float64(sum) / float64(s.Count)
	}
	return s, nil
}
