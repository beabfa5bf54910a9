package neighborhoods

import (
	"errors"
	"net/http"

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

func (h *Handler) List(c echo.Context) error {
	neighborhoods, err := h.service.List(c.Request().Context())
	if err != nil {
		c.Logger().Error("Handler.List: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to list neighborhoods"})
	}
	return c.JSON(http.StatusOK, neighborhoods)
}

func (h *Handler) Create(c echo.Context) error {
	var req models.CreateNeighborhoodRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	n, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrConflict):
			return c.JSON(http.StatusConflict, models.ErrorResponse{Message: "A neighborhood with that name already exists"})
		case errors.Is(err, models.ErrValidation):
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
		}
		c.Logger().Error("Handler.Create: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to create neighborhood"})
	}

	return c.JSON(http.StatusCreated, n)
}

func (h *Handler) Update(c echo.Context) error {
	neighborhoodID := c.Param("neighborhoodId")

	var req models.UpdateNeighborhoodRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	n, err := h.service.Update(c.Request().Context(), neighborhoodID, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Neighborhood not found"})
		case errors.Is(err, models.ErrConflict):
			return c.JSON(http.StatusConflict, models.ErrorResponse{Message: "A neighborhood with that name already exists"})
		case errors.Is(err, models.ErrValidation):
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
		}
		c.Logger().Error("Handler.Update: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to update neighborhood"})
	}

	return c.JSON(http.StatusOK, n)
}

func (h *Handler) Delete(c echo.Context) error {
	neighborhoodID := c.Param("neighborhoodId")

	if err := h.service.Delete(c.Request().Context(), neighborhoodID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.NoContent(http.StatusNoContent)
		}
		c.Logger().Error("Handler.Delete: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to delete neighborhood"})
	}

	return c.NoContent(http.StatusNoContent)
}
