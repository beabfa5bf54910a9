package models

import "github.com/golang-jwt/jwt/v5"

// Roles carried in JWT claims.
const (
	RoleRestaurant = "restaurant"
	RoleCourier    = "courier"
)

type JwtCustomClaims struct {
	SubjectID string `json:"subjectID"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}
