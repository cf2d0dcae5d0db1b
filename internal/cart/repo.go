package cart

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeMC777/tienda-api/internal/sqlerr"
)

var (
	ErrNotFound     = errors.New("cart item not found")
	ErrBadReference = errors.New("referenced row does not exist")
)

type Repository interface {
	GetOrCreate(ctx context.Context, userID string) (*Cart, error)
	GetItems(ctx context.Context, cartID string) ([]Item, error)
	AddItem(ctx context.Context, it *Item) error
	GetItem(ctx context.Context, itemID string) (*Item, error)
	UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error
	RemoveItem(ctx context.Context, itemID string) (bool, error)
	Clear(ctx context.Context, cartID string) error

	AddWish(ctx context.Context, userID, productID string) error
	ListWishes(ctx context.Context, userID string) ([]string, error)
	RemoveWish(ctx context.Context, userID, productID string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

// GetOrCreate returns the user's cart, creating it on first use.
// UNIQUE(user_id) keeps it one cart per user even under races.
func (r *PGRepo) GetOrCreate(ctx context.Context, userID string) (*Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c Cart
	err := r.db.QueryRow(ctx, `
		INSERT INTO carts (id, user_id, created_at)
		VALUES (gen_random_uuid(), $1, NOW())
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, created_at
	`, userID).Scan(&c.ID, &c.UserID, &c.CreatedAt)
	if err != nil {
		if sqlerr.IsForeignKey(err) {
			return nil, ErrBadReference
		}
		return nil, err
	}
	return &c, nil
}

func (r *PGRepo) GetItems(ctx context.Context, cartID string) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, cart_id, product_id, quantity, created_at
		FROM cart_items WHERE cart_id=$1
		ORDER BY created_at
	`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// AddItem inserts the line or, if the product is already in the cart,
// bumps its quantity (UNIQUE(cart_id, product_id)).
func (r *PGRepo) AddItem(ctx context.Context, it *Item) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, created_at)
		VALUES ($1,$2,$3,$4,NOW())
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id, quantity
	`, it.ID, it.CartID, it.ProductID, it.Quantity).Scan(&it.ID, &it.Quantity)
	if sqlerr.IsForeignKey(err) {
		return ErrBadReference
	}
	return err
}

func (r *PGRepo) GetItem(ctx context.Context, itemID string) (*Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var it Item
	err := r.db.QueryRow(ctx, `
		SELECT id, cart_id, product_id, quantity, created_at
		FROM cart_items WHERE id=$1
	`, itemID).Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.CreatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	return &it, nil
}

func (r *PGRepo) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE cart_items SET quantity=$2 WHERE id=$1
	`, itemID, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) RemoveItem(ctx context.Context, itemID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE id=$1`, itemID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *PGRepo) Clear(ctx context.Context, cartID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE cart_id=$1`, cartID)
	return err
}

func (r *PGRepo) AddWish(ctx context.Context, userID, productID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// repeated wishes are a no-op
	_, err := r.db.Exec(ctx, `
		INSERT INTO wishlists (user_id, product_id, created_at)
		VALUES ($1,$2,NOW())
		ON CONFLICT (user_id, product_id) DO NOTHING
	`, userID, productID)
	if sqlerr.IsForeignKey(err) {
		return ErrBadReference
	}
	return err
}

func (r *PGRepo) ListWishes(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT product_id FROM wishlists WHERE user_id=$1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *PGRepo) RemoveWish(ctx context.Context, userID, productID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `
		DELETE FROM wishlists WHERE user_id=$1 AND product_id=$2
	`, userID, productID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
