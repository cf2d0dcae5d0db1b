package user

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// ValidRole reports whether r is one of the roles the API accepts.
func ValidRole(r string) bool { return r == RoleCustomer || r == RoleAdmin }

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterRequest payload de registro.
// swagger:model RegisterRequest
type RegisterRequest struct {
	Username string `json:"username" binding:"required" example:"mike"`
	Email    string `json:"email"    binding:"required,email" example:"mike@example.com"`
	Password string `json:"password" binding:"required,min=6" example:"s3cret!"`
}

// LoginRequest payload de login.
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email"    binding:"required" example:"mike@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret!"`
}

// LoginResponse resultado de autenticación.
// swagger:model LoginResponse
type LoginResponse struct {
	OK     bool   `json:"ok"`
	UserID string `json:"user_id,omitempty"`
}

// UpdateUserRequest payload of partial update. Empty fields keep the
// stored value.
// swagger:model UpdateUserRequest
type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
