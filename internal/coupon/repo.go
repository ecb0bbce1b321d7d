package coupon

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrCodeExists = errors.New("coupon code already exists")
	ErrInUse      = errors.New("coupon is referenced by existing orders")
)

const (
	pgUniqueViolation = "23505"
	pgFKViolation     = "23503"
)

type Repo struct{ DB *pgxpool.Pool }

const couponColumns = `id, code, discount_percent, discount_amount, min_order_amount,
	max_discount, is_active, start_date, end_date, usage_limit, usage_count, created_at`

func scanCoupon(row pgx.Row) (*Coupon, error) {
	var c Coupon
	err := row.Scan(&c.ID, &c.Code, &c.DiscountPercent, &c.DiscountAmount, &c.MinOrderAmount,
		&c.MaxDiscount, &c.IsActive, &c.StartDate, &c.EndDate, &c.UsageLimit, &c.UsageCount, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repo) Create(ctx context.Context, c *Coupon) error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.ID = uuid.NewString()
	c.Code = NormalizeCode(c.Code)
	_, err := r.DB.Exec(ctx, `
		INSERT INTO coupons (id, code, discount_percent, discount_amount, min_order_amount,
			max_discount, is_active, start_date, end_date, usage_limit, usage_count)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,0)`,
		c.ID, c.Code, c.DiscountPercent, c.DiscountAmount, c.MinOrderAmount,
		c.MaxDiscount, c.IsActive, c.StartDate, c.EndDate, c.UsageLimit)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrCodeExists
		}
		return fmt.Errorf("create coupon: %w", err)
	}
	return nil
}

func (r *Repo) GetByCode(ctx context.Context, code string) (*Coupon, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE code=$1`, NormalizeCode(code))
	return scanCoupon(row)
}

func (r *Repo) List(ctx context.Context) ([]Coupon, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+couponColumns+` FROM coupons ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Coupon
	for rows.Next() {
		var c Coupon
		if err := rows.Scan(&c.ID, &c.Code, &c.DiscountPercent, &c.DiscountAmount, &c.MinOrderAmount,
			&c.MaxDiscount, &c.IsActive, &c.StartDate, &c.EndDate, &c.UsageLimit, &c.UsageCount, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete is the only way a coupon leaves the table (explicit admin action).
// A coupon that was ever redeemed is pinned by orders.coupon_id and stays.
func (r *Repo) Delete(ctx context.Context, code string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM coupons WHERE code=$1`, NormalizeCode(code))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgFKViolation {
			return ErrInUse
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetForUpdate locks the coupon row inside an open transaction so concurrent
// checkouts cannot redeem past the usage limit.
func GetForUpdate(ctx context.Context, tx pgx.Tx, code string) (*Coupon, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE code=$1 FOR UPDATE`, NormalizeCode(code))
	return scanCoupon(row)
}

// IncrementUsage must run in the same transaction that created the order.
func IncrementUsage(ctx context.Context, tx pgx.Tx, id string) error {
	_, err := tx.Exec(ctx, `UPDATE coupons SET usage_count = usage_count + 1 WHERE id=$1`, id)
	return err
}
