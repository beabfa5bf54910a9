package deliveries

import (
	"errors"
	"net/http"
	"time"

	"pizzeria-delivery/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	service  ServiceInterface
	validate *validator.Validate
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
	}
}

// Create records a delivery for the courier in the URL. Responds 201 even
// when the distance lookup failed; the body's distance_resolved flag
// tells the client the record was saved with degraded data.
func (h *Handler) Create(c echo.Context) error {
	var req models.CreateDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	req.CourierID = c.Param("courierId")
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}
	// Unknown payment codes are preserved, not rejected; they show up raw
	// in the report breakdowns.
	if !models.KnownPaymentType(req.PaymentType) {
		c.Logger().Warnf("unrecognized payment type %q", req.PaymentType)
	}

	resp, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
		}
		c.Logger().Error("Handler.Create: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to save delivery"})
	}

	if !resp.DistanceResolved {
		c.Logger().Warnf("delivery %s saved without distance data", resp.Delivery.ID)
	}
	return c.JSON(http.StatusCreated, resp)
}

// ListForCourier returns the courier's deliveries for the current shift
// (or an explicit ?date=YYYY-MM-DD).
func (h *Handler) ListForCourier(c echo.Context) error {
	records, window, err := h.service.ListForDate(
		c.Request().Context(),
		c.QueryParam("date"),
		c.Param("courierId"),
		time.Now(),
	)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
		}
		c.Logger().Error("Handler.ListForCourier: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to list deliveries"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"reference_date": window.ReferenceDate.String(),
		"window_start":   window.Start,
		"window_end":     window.End,
		"deliveries":     records,
	})
}

// ListForDate is the restaurant view: all couriers, or ?courier=<id>.
func (h *Handler) ListForDate(c echo.Context) error {
	courierID := c.QueryParam("courier")
	records, window, err := h.service.ListForDate(
		c.Request().Context(),
		c.QueryParam("date"),
		courierID,
		time.Now(),
	)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
		}
		c.Logger().Error("Handler.ListForDate: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to list deliveries"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"reference_date": window.ReferenceDate.String(),
		"window_start":   window.Start,
		"window_end":     window.End,
		"deliveries":     records,
	})
}

func (h *Handler) Update(c echo.Context) error {
	deliveryID := c.Param("deliveryId")

	var req models.UpdateDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	d, err := h.service.Update(c.Request().Context(), deliveryID, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Delivery no longer exists"})
		case errors.Is(err, models.ErrValidation):
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
		}
		c.Logger().Error("Handler.Update: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to update delivery"})
	}

	return c.JSON(http.StatusOK, d)
}

func (h *Handler) Delete(c echo.Context) error {
	deliveryID := c.Param("deliveryId")

	if err := h.service.Delete(c.Request().Context(), deliveryID); err != nil {
		// Deleted concurrently: treat as done.
		if errors.Is(err, models.ErrNotFound) {
			return c.NoContent(http.StatusNoContent)
		}
		c.Logger().Error("Handler.Delete: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to delete delivery"})
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) PlanRoute(c echo.Context) error {
	var req models.PlanRouteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	resp, err := h.service.PlanRoute(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
		}
		c.Logger().Error("Handler.PlanRoute: ", err)
		return c.JSON(http.StatusBadGateway, models.ErrorResponse{Message: "Route planning is unavailable right now"})
	}

	return c.JSON(http.StatusOK, resp)
}
