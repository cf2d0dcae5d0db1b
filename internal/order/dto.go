package order

// CreateOrderItem payload de ítem.
// swagger:model CreateOrderItem
type CreateOrderItem struct {
	ProductID string `json:"product_id" binding:"required" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Quantity  int    `json:"quantity"   binding:"required" example:"2"`
}

// CreateOrderRequest payload de creación de orden.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	UserID string            `json:"user_id" binding:"required" example:"b2f5ff47-2b1e-4f22-8a96-5f3c1f2f2e7b"`
	Items  []CreateOrderItem `json:"items"   binding:"required"`
}

// UpdateStatusRequest payload de cambio de estado.
// swagger:model UpdateStatusRequest
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" example:"paid"`
}

// CreatePaymentRequest payload de pago (uno por orden).
// swagger:model CreatePaymentRequest
type CreatePaymentRequest struct {
	Method string `json:"method" binding:"required" example:"card"`
}

// CreateShippingRequest payload de envío (uno por orden).
// swagger:model CreateShippingRequest
type CreateShippingRequest struct {
	Address string `json:"address" binding:"required" example:"Av. Siempre Viva 742"`
}

// OrderResponse order plus its line items.
// swagger:model OrderResponse
type OrderResponse struct {
	Order Order  `json:"order"`
	Items []Item `json:"items"`
}
