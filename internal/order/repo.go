package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeMC777/tienda-api/internal/sqlerr"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrBadReference      = errors.New("referenced row does not exist")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrAlreadyClosed     = errors.New("order already shipped or canceled")
	ErrPaymentExists     = errors.New("order already has a payment")
	ErrShippingExists    = errors.New("order already has a shipping record")
)

type Repository interface {
	Create(ctx context.Context, o *Order, items []Item) error
	GetByID(ctx context.Context, id string) (*Order, []Item, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
	GetItems(ctx context.Context, orderID string) ([]Item, error)
	Cancel(ctx context.Context, id string) error

	CreatePayment(ctx context.Context, p *Payment) error
	GetPayment(ctx context.Context, orderID string) (*Payment, error)
	UpdatePaymentStatus(ctx context.Context, id, status string) error

	CreateShipping(ctx context.Context, s *Shipping) error
	GetShipping(ctx context.Context, orderID string) (*Shipping, error)
	UpdateShippingStatus(ctx context.Context, id, status string) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

// Create writes the order, its items and the stock decrements in one
// transaction. Stock is decremented with a guarded UPDATE so it can
// never go negative; any short row aborts the whole order.
func (r *PGRepo) Create(ctx context.Context, o *Order, items []Item) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    INSERT INTO orders (id, user_id, status, total, created_at, updated_at)
    VALUES ($1,$2,$3,$4,NOW(),NOW())
  `, o.ID, o.UserID, o.Status, o.Total); err != nil {
		if sqlerr.IsForeignKey(err) {
			return ErrBadReference
		}
		return err
	}

	for _, it := range items {
		if _, err := tx.Exec(ctx, `
      INSERT INTO order_items (id, order_id, product_id, quantity, price)
      VALUES ($1,$2,$3,$4,$5)
    `, it.ID, o.ID, it.ProductID, it.Quantity, it.Price); err != nil {
			if sqlerr.IsForeignKey(err) {
				return ErrBadReference
			}
			return err
		}

		tag, err := tx.Exec(ctx, `
      UPDATE inventories SET stock = stock - $2
      WHERE product_id = $1 AND stock >= $2
    `, it.ProductID, it.Quantity)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrInsufficientStock
		}
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, []Item, error) {
	var o Order
	if err := r.db.QueryRow(ctx, `
    SELECT id,user_id,status,total::text,created_at,updated_at
    FROM orders WHERE id=$1
  `, id).Scan(&o.ID, &o.UserID, &o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, nil, ErrNotFound
	}
	items, err := r.GetItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return &o, items, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx, `
    SELECT id,user_id,status,total::text,created_at,updated_at
    FROM orders WHERE user_id=$1
    ORDER BY created_at DESC LIMIT $2 OFFSET $3
  `, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
    UPDATE orders
    SET status = $2, updated_at = NOW()
    WHERE id = $1
  `, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) GetItems(ctx context.Context, orderID string) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
    SELECT id, order_id, product_id, quantity, price::text
    FROM order_items
    WHERE order_id = $1
  `, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Cancel flips the order to canceled and returns its items' stock in
// the same transaction. The guarded UPDATE makes a racing second
// cancel match no row, so stock is never returned twice.
func (r *PGRepo) Cancel(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
    UPDATE orders
    SET status = $2, updated_at = NOW()
    WHERE id = $1 AND status IN ($3, $4)
  `, id, StatusCanceled, StatusPending, StatusPaid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `
      SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)
    `, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrAlreadyClosed
	}

	if _, err := tx.Exec(ctx, `
    UPDATE inventories i
    SET stock = i.stock + oi.quantity
    FROM order_items oi
    WHERE oi.order_id = $1 AND oi.product_id = i.product_id
  `, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) CreatePayment(ctx context.Context, p *Payment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO payments (id, order_id, amount, method, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,NOW(),NOW())
	`, p.ID, p.OrderID, p.Amount, p.Method, p.Status)
	if err != nil {
		if sqlerr.IsUnique(err) {
			return ErrPaymentExists
		}
		if sqlerr.IsForeignKey(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (r *PGRepo) GetPayment(ctx context.Context, orderID string) (*Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p Payment
	err := r.db.QueryRow(ctx, `
		SELECT id, order_id, amount::text, method, status, created_at, updated_at
		FROM payments WHERE order_id=$1
	`, orderID).Scan(&p.ID, &p.OrderID, &p.Amount, &p.Method, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *PGRepo) UpdatePaymentStatus(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE payments SET status=$2, updated_at=NOW() WHERE id=$1
	`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) CreateShipping(ctx context.Context, s *Shipping) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO shippings (id, order_id, address, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,NOW(),NOW())
	`, s.ID, s.OrderID, s.Address, s.Status)
	if err != nil {
		if sqlerr.IsUnique(err) {
			return ErrShippingExists
		}
		if sqlerr.IsForeignKey(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (r *PGRepo) GetShipping(ctx context.Context, orderID string) (*Shipping, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var s Shipping
	err := r.db.QueryRow(ctx, `
		SELECT id, order_id, address, status, created_at, updated_at
		FROM shippings WHERE order_id=$1
	`, orderID).Scan(&s.ID, &s.OrderID, &s.Address, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *PGRepo) UpdateShippingStatus(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE shippings SET status=$2, updated_at=NOW() WHERE id=$1
	`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
