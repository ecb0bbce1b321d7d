package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate applies the schema idempotently at startup. All money columns are
// whole VND (no minor unit).
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id         UUID PRIMARY KEY,
			name       VARCHAR(255) UNIQUE NOT NULL,
			parent_id  UUID REFERENCES categories(id),
			sort_order INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id          UUID PRIMARY KEY,
			sku         VARCHAR(64) UNIQUE NOT NULL,
			name        VARCHAR(255) NOT NULL,
			price_vnd   BIGINT NOT NULL CHECK (price_vnd >= 0),
			stock       INT NOT NULL CHECK (stock >= 0),
			category_id UUID REFERENCES categories(id),
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS coupons (
			id               UUID PRIMARY KEY,
			code             VARCHAR(64) UNIQUE NOT NULL,
			discount_percent INT CHECK (discount_percent BETWEEN 0 AND 100),
			discount_amount  BIGINT CHECK (discount_amount >= 0),
			min_order_amount BIGINT,
			max_discount     BIGINT,
			is_active        BOOLEAN NOT NULL DEFAULT TRUE,
			start_date       TIMESTAMPTZ NOT NULL,
			end_date         TIMESTAMPTZ NOT NULL,
			usage_limit      INT,
			usage_count      INT NOT NULL DEFAULT 0,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
			CHECK (discount_percent IS NOT NULL OR discount_amount IS NOT NULL)
		)`,
		`CREATE TABLE IF NOT EXISTS cart_items (
			user_id    VARCHAR(64) NOT NULL,
			product_id UUID NOT NULL REFERENCES products(id),
			qty        INT NOT NULL CHECK (qty > 0),
			PRIMARY KEY (user_id, product_id)
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id           UUID PRIMARY KEY,
			user_id      VARCHAR(64) NOT NULL,
			coupon_id    UUID REFERENCES coupons(id),
			status       VARCHAR(32) NOT NULL,
			subtotal_vnd BIGINT NOT NULL,
			discount_vnd BIGINT NOT NULL DEFAULT 0,
			total_vnd    BIGINT NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			order_id   UUID NOT NULL REFERENCES orders(id),
			product_id UUID NOT NULL REFERENCES products(id),
			qty        INT NOT NULL CHECK (qty > 0),
			price_vnd  BIGINT NOT NULL,
			PRIMARY KEY (order_id, product_id)
		)`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id         UUID PRIMARY KEY,
			product_id UUID NOT NULL REFERENCES products(id),
			user_id    VARCHAR(64) NOT NULL,
			rating     INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
			comment    TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (product_id, user_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews(product_id)`,
	}
	for _, s := range stmts {
		if _, err := pool.Exec(ctx, s); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
