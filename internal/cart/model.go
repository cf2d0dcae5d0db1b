package cart

import "time"

type Cart struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Item struct {
	ID        string    `json:"id"`
	CartID    string    `json:"cart_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// CartResponse cart plus its items.
// swagger:model CartResponse
type CartResponse struct {
	Cart  Cart   `json:"cart"`
	Items []Item `json:"items"`
}

// AddItemRequest payload para agregar al carrito.
// swagger:model AddItemRequest
type AddItemRequest struct {
	UserID    string `json:"user_id"    binding:"required"`
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"   binding:"required" example:"2"`
}

// UpdateItemRequest payload de cambio de cantidad.
// swagger:model UpdateItemRequest
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required" example:"3"`
}

// WishRequest payload de wishlist.
// swagger:model WishRequest
type WishRequest struct {
	UserID    string `json:"user_id"    binding:"required"`
	ProductID string `json:"product_id" binding:"required"`
}
