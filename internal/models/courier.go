package models

import "time"

// Courier is a delivery person. Couriers are provisioned by the restaurant;
// there is no self-service signup.
type Courier struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Phone        string    `json:"phone,omitempty" db:"phone"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type CreateCourierRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,min=8,max=20"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateCourierRequest uses pointers so omitted fields are left untouched.
type UpdateCourierRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
}

type LoginRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string   `json:"access_token"`
	Role        string   `json:"role"`
	Courier     *Courier `json:"courier,omitempty"`
}
