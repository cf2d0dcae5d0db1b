// Package catalog provides the repositories for categories, products
// (with their 1:1 inventory rows) and product reviews.
package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeMC777/tienda-api/internal/sqlerr"
)

var (
	ErrNotFound      = errors.New("product not found")
	ErrCategoryInUse = errors.New("category has products")
	ErrBadReference  = errors.New("referenced row does not exist")
	ErrDuplicate     = errors.New("already exists")
)

type Query struct {
	Q      string
	Limit  int
	Offset int
}

type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id string) (*Category, error)
	List(ctx context.Context) ([]Category, error)
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id string) (bool, error)
}

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, q Query) ([]Product, error)
	ListByCategory(ctx context.Context, categoryID string) ([]Product, error)
	Update(ctx context.Context, p *Product, updatePrice bool) error
	Delete(ctx context.Context, id string) (bool, error)
	GetStock(ctx context.Context, productID string) (int, error)
	SetStock(ctx context.Context, productID string, stock int) error
}

type ReviewRepository interface {
	Create(ctx context.Context, rv *Review) error
	ListByProduct(ctx context.Context, productID string) ([]Review, error)
}

type PGCategoryRepo struct{ db *pgxpool.Pool }

func NewPGCategoryRepo(db *pgxpool.Pool) *PGCategoryRepo { return &PGCategoryRepo{db: db} }

func (r *PGCategoryRepo) Create(ctx context.Context, c *Category) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO categories (id, name, created_at) VALUES ($1,$2,NOW())
	`, c.ID, c.Name)
	if sqlerr.IsUnique(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PGCategoryRepo) GetByID(ctx context.Context, id string) (*Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c Category
	err := r.db.QueryRow(ctx, `
		SELECT id, name, created_at FROM categories WHERE id=$1
	`, id).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *PGCategoryRepo) List(ctx context.Context) ([]Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT id, name, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PGCategoryRepo) Update(ctx context.Context, c *Category) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE categories SET name = COALESCE(NULLIF($2,''), name) WHERE id=$1
	`, c.ID, c.Name)
	if err != nil {
		if sqlerr.IsUnique(err) {
			return ErrDuplicate
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete fails with ErrCategoryInUse while products still reference
// the category (FK is ON DELETE RESTRICT).
func (r *PGCategoryRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		if sqlerr.IsForeignKey(err) {
			return false, ErrCategoryInUse
		}
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const productCols = `p.id, p.category_id, p.name, p.description, p.price::text,
	COALESCE(i.stock, 0), p.created_at, p.updated_at`

// Create inserts the product and its inventory row in one transaction
// so the 1:1 invariant holds from the start.
func (r *PGRepo) Create(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO products (id, category_id, name, description, price, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,NOW(),NOW())
	`, p.ID, p.CategoryID, p.Name, p.Description, p.Price); err != nil {
		if sqlerr.IsForeignKey(err) {
			return ErrBadReference
		}
		return err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO inventories (product_id, stock) VALUES ($1,$2)
	`, p.ID, p.Stock); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p Product
	err := r.db.QueryRow(ctx, `
		SELECT `+productCols+`
		FROM products p LEFT JOIN inventories i ON i.product_id = p.id
		WHERE p.id=$1
	`, id).Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *PGRepo) List(ctx context.Context, q Query) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	search := strings.TrimSpace(q.Q)

	rows, err := r.db.Query(ctx, `
		SELECT `+productCols+`
		FROM products p LEFT JOIN inventories i ON i.product_id = p.id
		WHERE ($1 = '' OR p.name ILIKE '%'||$1||'%' OR p.description ILIKE '%'||$1||'%')
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *PGRepo) ListByCategory(ctx context.Context, categoryID string) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+productCols+`
		FROM products p LEFT JOIN inventories i ON i.product_id = p.id
		WHERE p.category_id=$1
		ORDER BY p.created_at DESC
	`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(rows)
}

func scanProducts(rows pgx.Rows) ([]Product, error) {
	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, p *Product, updatePrice bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if updatePrice {
		tag, err := r.db.Exec(ctx, `
			UPDATE products
			SET category_id = COALESCE(NULLIF($2,'')::uuid, category_id),
			    name = COALESCE(NULLIF($3,''), name),
			    description = COALESCE(NULLIF($4,''), description),
			    price = $5,
			    updated_at = NOW()
			WHERE id = $1
		`, p.ID, p.CategoryID, p.Name, p.Description, p.Price)
		if err != nil {
			if sqlerr.IsForeignKey(err) {
				return ErrBadReference
			}
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET category_id = COALESCE(NULLIF($2,'')::uuid, category_id),
		    name = COALESCE(NULLIF($3,''), name),
		    description = COALESCE(NULLIF($4,''), description),
		    updated_at = NOW()
		WHERE id = $1
	`, p.ID, p.CategoryID, p.Name, p.Description)
	if err != nil {
		if sqlerr.IsForeignKey(err) {
			return ErrBadReference
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the product; the inventory row goes with it (CASCADE).
func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *PGRepo) GetStock(ctx context.Context, productID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var stock int
	err := r.db.QueryRow(ctx, `
		SELECT stock FROM inventories WHERE product_id=$1
	`, productID).Scan(&stock)
	if err != nil {
		return 0, ErrNotFound
	}
	return stock, nil
}

func (r *PGRepo) SetStock(ctx context.Context, productID string, stock int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE inventories SET stock=$2 WHERE product_id=$1
	`, productID, stock)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type PGReviewRepo struct{ db *pgxpool.Pool }

func NewPGReviewRepo(db *pgxpool.Pool) *PGReviewRepo { return &PGReviewRepo{db: db} }

func (r *PGReviewRepo) Create(ctx context.Context, rv *Review) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO reviews (id, user_id, product_id, rating, comment, created_at)
		VALUES ($1,$2,$3,$4,$5,NOW())
	`, rv.ID, rv.UserID, rv.ProductID, rv.Rating, rv.Comment)
	if sqlerr.IsForeignKey(err) {
		return ErrBadReference
	}
	return err
}

func (r *PGReviewRepo) ListByProduct(ctx context.Context, productID string) ([]Review, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, product_id, rating, comment, created_at
		FROM reviews WHERE product_id=$1
		ORDER BY created_at DESC
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.ProductID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
