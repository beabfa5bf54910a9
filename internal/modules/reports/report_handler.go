package reports

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"pizzeria-delivery/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	service          ServiceInterface
	validate         *validator.Validate
	defaultRecipient string
}

func NewHandler(service ServiceInterface, defaultRecipient string) *Handler {
	return &Handler{
		service:          service,
		validate:         validator.New(),
		defaultRecipient: defaultRecipient,
	}
}

// Closing returns the closing report as JSON. ?date= selects the
// reporting date (empty means the shift currently open); ?courier=
// narrows to one courier, "all" or empty means everyone.
func (h *Handler) Closing(c echo.Context) error {
	report, err := h.service.Closing(c.Request().Context(), c.QueryParam("date"), c.QueryParam("courier"), time.Now())
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
		}
		c.Logger().Error("Handler.Closing: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to build closing report"})
	}
	return c.JSON(http.StatusOK, report)
}

// Export returns the closing report as a download. ?format= picks the
// rendering: json (default), csv, or receipt (plain text for thermal
// printers).
func (h *Handler) Export(c echo.Context) error {
	report, err := h.service.Closing(c.Request().Context(), c.QueryParam("date"), c.QueryParam("courier"), time.Now())
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
		}
		c.Logger().Error("Handler.Export: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to build closing report"})
	}

	format := c.QueryParam("format")
	switch format {
	case "", "json":
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=fechamento-%s.json", report.Date))
		return c.JSON(http.StatusOK, report)
	case "csv":
		body, err := RenderCSV(report)
		if err != nil {
			c.Logger().Error("Handler.Export: ", err)
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to render export"})
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=fechamento-%s.csv", report.Date))
		return c.Blob(http.StatusOK, "text/csv; charset=utf-8", body)
	case "receipt":
		body, err := RenderReceipt(report)
		if err != nil {
			c.Logger().Error("Handler.Export: ", err)
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to render export"})
		}
		return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, body)
	default:
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Unknown export format: " + format})
	}
}

type sendClosingRequest struct {
	Date    string `json:"date"`
	Courier string `json:"courier"`
	To      string `json:"to" validate:"omitempty,email"`
}

// SendClosing mails the closing report, defaulting to the restaurant's
// configured report address.
func (h *Handler) SendClosing(c echo.Context) error {
	var req sendClosingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	to := req.To
	if to == "" {
		to = h.defaultRecipient
	}
	if to == "" {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "No recipient configured for the closing report"})
	}

	if err := h.service.SendClosing(c.Request().Context(), req.Date, req.Courier, to, time.Now()); err != nil {
		if errors.Is(err, models.ErrValidation) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
		}
		c.Logger().Error("Handler.SendClosing: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to send closing report"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Closing report sent to " + to})
}
