package cart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hqtrung/vnshop/internal/catalog"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Get(ctx context.Context, userID string) (*Cart, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT ci.product_id, p.name, ci.qty, p.price_vnd
		FROM cart_items ci JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY p.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	c := &Cart{UserID: userID}
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ProductID, &l.ProductName, &l.Qty, &l.PriceVND); err != nil {
			return nil, err
		}
		c.Lines = append(c.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	c.SubtotalVND = Subtotal(c.Lines)
	return c, nil
}

// SetItem upserts a line; qty 0 removes it.
func (r *Repo) SetItem(ctx context.Context, userID, productID string, qty int) error {
	if qty < 0 {
		return errors.New("qty must not be negative")
	}
	if qty == 0 {
		_, err := r.DB.Exec(ctx,
			`DELETE FROM cart_items WHERE user_id=$1 AND product_id=$2`, userID, productID)
		return err
	}

	var exists bool
	if err := r.DB.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE id=$1)`, productID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return catalog.ErrProductNotFound
	}

	_, err := r.DB.Exec(ctx, `
		INSERT INTO cart_items (user_id, product_id, qty) VALUES ($1,$2,$3)
		ON CONFLICT (user_id, product_id) DO UPDATE SET qty = EXCLUDED.qty`,
		userID, productID, qty)
	return err
}

func (r *Repo) Clear(ctx context.Context, userID string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1`, userID)
	return err
}
