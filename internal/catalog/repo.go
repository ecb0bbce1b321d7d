package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation = "23505"
	pgFKViolation     = "23503"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, parent_id, sort_order, created_at, updated_at
		FROM categories ORDER BY parent_id NULLS FIRST, sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ParentID, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) GetCategory(ctx context.Context, id string) (*Category, error) {
	var c Category
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, parent_id, sort_order, created_at, updated_at
		FROM categories WHERE id=$1`, id).
		Scan(&c.ID, &c.Name, &c.ParentID, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repo) CreateCategory(ctx context.Context, c *Category) error {
	c.ID = uuid.NewString()
	if c.ParentID != nil {
		var exists bool
		if err := r.DB.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM categories WHERE id=$1)`, *c.ParentID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrParentNotFound
		}
	}
	_, err := r.DB.Exec(ctx, `
		INSERT INTO categories (id, name, parent_id, sort_order)
		VALUES ($1,$2,$3,$4)`, c.ID, c.Name, c.ParentID, c.SortOrder)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateName
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// UpdateCategory changes name/parent/sort_order atomically. The cycle check
// runs against the persisted parent map read inside the transaction, with all
// category rows locked, so a concurrent edit cannot sneak a cycle in. Any
// precondition failure rolls back the whole update.
func (r *Repo) UpdateCategory(ctx context.Context, id string, name string, parentID *string, sortOrder int) error {
	if parentID != nil && *parentID == id {
		return ErrSelfParent
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `SELECT id, parent_id FROM categories FOR UPDATE`)
	if err != nil {
		return err
	}
	parents := map[string]*string{}
	for rows.Next() {
		var cid string
		var pid *string
		if err := rows.Scan(&cid, &pid); err != nil {
			rows.Close()
			return err
		}
		parents[cid] = pid
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	if _, ok := parents[id]; !ok {
		return ErrCategoryNotFound
	}
	if parentID != nil {
		if _, ok := parents[*parentID]; !ok {
			return ErrParentNotFound
		}
		if WouldCreateCycle(parents, id, parentID) {
			return ErrCyclicHierarchy
		}
	}

	ct, err := tx.Exec(ctx, `
		UPDATE categories SET name=$2, parent_id=$3, sort_order=$4, updated_at=now()
		WHERE id=$1`, id, name, parentID, sortOrder)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateName
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return tx.Commit(ctx)
}

// ReorderSiblings applies a batch of sort_order changes in one transaction.
func (r *Repo) ReorderSiblings(ctx context.Context, order map[string]int) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for id, pos := range order {
		ct, err := tx.Exec(ctx,
			`UPDATE categories SET sort_order=$2, updated_at=now() WHERE id=$1`, id, pos)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return ErrCategoryNotFound
		}
	}
	return tx.Commit(ctx)
}

// DeleteCategory refuses while children or products still point at the row.
func (r *Repo) DeleteCategory(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var children, products int
	if err := tx.QueryRow(ctx,
		`SELECT count(*) FROM categories WHERE parent_id=$1`, id).Scan(&children); err != nil {
		return err
	}
	if children > 0 {
		return ErrHasChildren
	}
	if err := tx.QueryRow(ctx,
		`SELECT count(*) FROM products WHERE category_id=$1`, id).Scan(&products); err != nil {
		return err
	}
	if products > 0 {
		return ErrHasProducts
	}

	ct, err := tx.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return tx.Commit(ctx)
}

// ParentMap returns the id -> parent_id pairs for depth statistics.
func (r *Repo) ParentMap(ctx context.Context) (map[string]*string, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, parent_id FROM categories`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parents := map[string]*string{}
	for rows.Next() {
		var id string
		var pid *string
		if err := rows.Scan(&id, &pid); err != nil {
			return nil, err
		}
		parents[id] = pid
	}
	return parents, rows.Err()
}

// --- products ---

const productColumns = `id, sku, name, price_vnd, stock, category_id, created_at, updated_at`

func (r *Repo) ListProducts(ctx context.Context, categoryID *string) ([]Product, error) {
	q := `SELECT ` + productColumns + ` FROM products`
	args := []any{}
	if categoryID != nil {
		q += ` WHERE category_id=$1`
		args = append(args, *categoryID)
	}
	q += ` ORDER BY sku`

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.PriceVND, &p.Stock, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) GetProduct(ctx context.Context, id string) (*Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.SKU, &p.Name, &p.PriceVND, &p.Stock, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repo) GetProductsByID(ctx context.Context, ids []string) (map[string]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.PriceVND, &p.Stock, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

func (r *Repo) CreateProduct(ctx context.Context, p *Product) error {
	p.ID = uuid.NewString()
	_, err := r.DB.Exec(ctx, `
		INSERT INTO products (id, sku, name, price_vnd, stock, category_id)
		VALUES ($1,$2,$3,$4,$5,$6)`, p.ID, p.SKU, p.Name, p.PriceVND, p.Stock, p.CategoryID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrSKUExists
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *Repo) UpdateProduct(ctx context.Context, p *Product) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE products SET name=$2, price_vnd=$3, stock=$4, category_id=$5, updated_at=now()
		WHERE id=$1`, p.ID, p.Name, p.PriceVND, p.Stock, p.CategoryID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DeleteProduct refuses while cart lines, order items or reviews still
// reference the row.
func (r *Repo) DeleteProduct(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgFKViolation {
			return ErrProductInUse
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// ListNewestProducts backs the recommendation fallback when no view counts
// exist yet.
func (r *Repo) ListNewestProducts(ctx context.Context, limit int) ([]Product, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.PriceVND, &p.Stock, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SuggestionNames feeds the search suggester with product and category names.
func (r *Repo) SuggestionNames(ctx context.Context) ([]string, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT name FROM products
		UNION
		SELECT name FROM categories`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
