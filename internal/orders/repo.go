package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hqtrung/vnshop/internal/cart"
	"github.com/hqtrung/vnshop/internal/coupon"
)

type Repo struct{ DB *pgxpool.Pool }

type PlaceInput struct {
	UserID     string
	CouponCode string // optional
	// ClientTotal is the total the storefront showed the user; compared, never
	// trusted. nil skips the tamper check.
	ClientTotal *int64
}

// PlaceOrder performs the whole checkout as one transaction: re-derive the
// coupon discount against the persisted coupon row, create the order and its
// items, decrement stock, bump the coupon usage counter and clear the cart.
// Any failure rolls the lot back; no partial state is ever visible.
func (r *Repo) PlaceOrder(ctx context.Context, in PlaceInput, now time.Time) (*Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock the product rows behind the cart lines; the row locks serialize
	// concurrent checkouts touching the same stock.
	rows, err := tx.Query(ctx, `
		SELECT ci.product_id, ci.qty, p.price_vnd, p.stock
		FROM cart_items ci JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.product_id
		FOR UPDATE OF p`, in.UserID)
	if err != nil {
		return nil, err
	}
	type line struct {
		productID string
		qty       int
		price     int64
		stock     int
	}
	var lines []line
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.productID, &l.qty, &l.price, &l.stock); err != nil {
			rows.Close()
			return nil, err
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, cart.ErrEmptyCart
	}

	var subtotal int64
	for _, l := range lines {
		subtotal += l.price * int64(l.qty)
	}

	order := &Order{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		Status:      StatusPending,
		SubtotalVND: subtotal,
		TotalVND:    subtotal,
	}

	if in.CouponCode != "" {
		cp, err := coupon.GetForUpdate(ctx, tx, in.CouponCode)
		if err != nil {
			return nil, err
		}
		out, err := coupon.Evaluate(cp, subtotal, now)
		if err != nil {
			return nil, err
		}
		order.CouponID = &cp.ID
		order.DiscountVND = out.Discount
		order.TotalVND = out.Total
		if err := coupon.IncrementUsage(ctx, tx, cp.ID); err != nil {
			return nil, err
		}
	}

	if in.ClientTotal != nil {
		if err := coupon.CheckClientTotal(order.TotalVND, *in.ClientTotal); err != nil {
			return nil, err
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, coupon_id, status, subtotal_vnd, discount_vnd, total_vnd)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		order.ID, order.UserID, order.CouponID, order.Status,
		order.SubtotalVND, order.DiscountVND, order.TotalVND)
	if err != nil {
		return nil, err
	}

	for _, l := range lines {
		if l.stock < l.qty {
			return nil, InsufficientStockError{ProductID: l.productID, Required: l.qty, Available: l.stock}
		}
		ct, err := tx.Exec(ctx,
			`UPDATE products SET stock = stock - $2, updated_at = now()
			 WHERE id = $1 AND stock >= $2`, l.productID, l.qty)
		if err != nil {
			return nil, err
		}
		if ct.RowsAffected() != 1 {
			return nil, InsufficientStockError{ProductID: l.productID, Required: l.qty, Available: l.stock}
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, qty, price_vnd)
			VALUES ($1,$2,$3,$4)`, order.ID, l.productID, l.qty, l.price); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, Item{
			OrderID: order.ID, ProductID: l.productID, Qty: l.qty, PriceVND: l.price,
		})
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1`, in.UserID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *Repo) Get(ctx context.Context, id string) (*Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		SELECT id, user_id, coupon_id, status, subtotal_vnd, discount_vnd, total_vnd, created_at, updated_at
		FROM orders WHERE id=$1`, id).
		Scan(&o.ID, &o.UserID, &o.CouponID, &o.Status, &o.SubtotalVND, &o.DiscountVND,
			&o.TotalVND, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT order_id, product_id, qty, price_vnd FROM order_items WHERE order_id=$1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.OrderID, &it.ProductID, &it.Qty, &it.PriceVND); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	return &o, rows.Err()
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, coupon_id, status, subtotal_vnd, discount_vnd, total_vnd, created_at, updated_at
		FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.CouponID, &o.Status, &o.SubtotalVND,
			&o.DiscountVND, &o.TotalVND, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// GetStatus also returns the owning user id so callers can enforce access.
func (r *Repo) GetStatus(ctx context.Context, id string) (Status, string, error) {
	var s, owner string
	err := r.DB.QueryRow(ctx, `SELECT status, user_id FROM orders WHERE id=$1`, id).Scan(&s, &owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", ErrNotFound
		}
		return "", "", err
	}
	return Status(s), owner, nil
}

// Transition moves the order through the status machine, locking the row so
// concurrent admin edits cannot race each other.
func (r *Repo) Transition(ctx context.Context, id string, to Status) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := r.transitionTx(ctx, tx, id, to); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repo) transitionTx(ctx context.Context, tx pgx.Tx, id string, to Status) error {
	var cur string
	err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, id).Scan(&cur)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if !CanTransition(Status(cur), to) {
		return ErrBadTransition
	}
	_, err = tx.Exec(ctx, `UPDATE orders SET status=$2, updated_at=now() WHERE id=$1`, id, to)
	return err
}

// RequestReturn lets the owner flag a delivered order for return.
func (r *Repo) RequestReturn(ctx context.Context, id, userID string) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var owner string
	err = tx.QueryRow(ctx, `SELECT user_id FROM orders WHERE id=$1`, id).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if owner != userID {
		return ErrNotOwner
	}
	if err := r.transitionTx(ctx, tx, id, StatusReturnRequested); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ApproveReturn restocks every line and marks the order RETURNED, in one
// transaction.
func (r *Repo) ApproveReturn(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := r.transitionTx(ctx, tx, id, StatusReturned); err != nil {
		return err
	}

	rows, err := tx.Query(ctx,
		`SELECT product_id, qty FROM order_items WHERE order_id=$1`, id)
	if err != nil {
		return err
	}
	type rec struct {
		pid string
		qty int
	}
	var recs []rec
	for rows.Next() {
		var x rec
		if err := rows.Scan(&x.pid, &x.qty); err != nil {
			rows.Close()
			return err
		}
		recs = append(recs, x)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, x := range recs {
		if _, err := tx.Exec(ctx,
			`UPDATE products SET stock = stock + $2, updated_at = now() WHERE id=$1`,
			x.pid, x.qty); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// RejectReturn puts the order back to DELIVERED.
func (r *Repo) RejectReturn(ctx context.Context, id string) error {
	return r.Transition(ctx, id, StatusDelivered)
}
