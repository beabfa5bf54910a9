package api

import (
	"net/http"

	"pizzeria-delivery/internal/api/middleware"
	"pizzeria-delivery/internal/modules/couriers"
	"pizzeria-delivery/internal/modules/deliveries"
	"pizzeria-delivery/internal/modules/neighborhoods"
	"pizzeria-delivery/internal/modules/reports"
	"pizzeria-delivery/internal/realtime"

	"github.com/labstack/echo/v4"
)

// SetupRoutes wires all API endpoints.
func SetupRoutes(
	e *echo.Echo,
	courierHandler *couriers.Handler,
	neighborhoodHandler *neighborhoods.Handler,
	deliveryHandler *deliveries.Handler,
	reportHandler *reports.Handler,
	hub *realtime.Hub,
	jwtSecret string,
) {
	authMiddleware := middleware.JWTAuth(jwtSecret)
	restaurantRequired := middleware.RestaurantRequired()

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Pizzeria delivery management API"})
	})

	// --- Public ---
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/login", courierHandler.Login)
	}

	// --- Courier screens (a courier sees only its own data) ---
	courierGroup := e.Group("/couriers/:courierId", authMiddleware, middleware.CourierScope("courierId"))
	{
		courierGroup.GET("/deliveries", deliveryHandler.ListForCourier)
		courierGroup.POST("/deliveries", deliveryHandler.Create)
	}

	// --- Restaurant management ---
	adminGroup := e.Group("/admin", authMiddleware, restaurantRequired)
	{
		adminGroup.GET("/couriers", courierHandler.List)
		adminGroup.POST("/couriers", courierHandler.Create)
		adminGroup.PUT("/couriers/:courierId", courierHandler.Update)
		adminGroup.DELETE("/couriers/:courierId", courierHandler.Delete)

		adminGroup.GET("/neighborhoods", neighborhoodHandler.List)
		adminGroup.POST("/neighborhoods", neighborhoodHandler.Create)
		adminGroup.PUT("/neighborhoods/:neighborhoodId", neighborhoodHandler.Update)
		adminGroup.DELETE("/neighborhoods/:neighborhoodId", neighborhoodHandler.Delete)

		adminGroup.GET("/deliveries", deliveryHandler.ListForDate)
		adminGroup.PUT("/deliveries/:deliveryId", deliveryHandler.Update)
		adminGroup.DELETE("/deliveries/:deliveryId", deliveryHandler.Delete)
		adminGroup.POST("/deliveries/plan-route", deliveryHandler.PlanRoute)

		// Closing report and exports.
		adminGroup.GET("/reports/closing", reportHandler.Closing)
		adminGroup.GET("/reports/closing/export", reportHandler.Export)
		adminGroup.POST("/reports/closing/send", reportHandler.SendClosing)
	}

	// --- Realtime change feed ---
	e.GET("/ws/deliveries", hub.HandleSubscribe, authMiddleware)
}
