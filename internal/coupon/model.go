package coupon

import "time"

type Coupon struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Percent   string    `json:"percent_off"` // NUMERIC -> string, 0..100
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCouponRequest payload de creación.
// swagger:model CreateCouponRequest
type CreateCouponRequest struct {
	Code    string `json:"code"        binding:"required" example:"WELCOME15"`
	Percent string `json:"percent_off" binding:"required" example:"15"`
}

// UpdateCouponRequest toggles a coupon.
// swagger:model UpdateCouponRequest
type UpdateCouponRequest struct {
	Active *bool `json:"active" binding:"required"`
}
