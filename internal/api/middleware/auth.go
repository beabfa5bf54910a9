package middleware

import (
	"errors"
	"net/http"

	"pizzeria-delivery/internal/models"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// JWTAuth configures and returns Echo's JWT middleware. On success the
// subject id, display name and role from the custom claims are placed
// into the request context.
func JWTAuth(jwtSecretKey string) echo.MiddlewareFunc {
	config := echojwt.Config{
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(models.JwtCustomClaims)
		},
		SigningKey: []byte(jwtSecretKey),
		SuccessHandler: func(c echo.Context) {
			userToken := c.Get("user").(*jwt.Token)
			claims := userToken.Claims.(*models.JwtCustomClaims)

			c.Set("subjectID", claims.SubjectID)
			c.Set("subjectName", claims.Name)
			c.Set("role", claims.Role)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			c.Logger().Errorf("JWT error: %v", err)

			if errors.Is(err, echojwt.ErrJWTMissing) {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Missing or malformed JWT"})
			}
			if errors.Is(err, jwt.ErrTokenExpired) {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Token has expired"})
			}
			if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Invalid token signature"})
			}
			return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Invalid or expired JWT"})
		},
	}
	return echojwt.WithConfig(config)
}

// RestaurantRequired allows only restaurant-role tokens through. Courier
// tokens can reach their own delivery routes but none of the management
// screens.
func RestaurantRequired() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if role != models.RoleRestaurant {
				return c.JSON(http.StatusForbidden, models.ErrorResponse{Message: "Restaurant access required"})
			}
			return next(c)
		}
	}
}

// CourierScope ensures a courier-role token only touches its own data.
// Restaurant tokens pass for any courier id.
func CourierScope(paramName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if role == models.RoleRestaurant {
				return next(c)
			}
			subjectID, _ := c.Get("subjectID").(string)
			if subjectID == "" || subjectID != c.Param(paramName) {
				return c.JSON(http.StatusForbidden, models.ErrorResponse{Message: "Access denied"})
			}
			return next(c)
		}
	}
}
