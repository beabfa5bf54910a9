package reports

import (
	"context"
	"fmt"
	"time"

	"pizzeria-delivery/internal/models"
	"pizzeria-delivery/internal/modules/deliveries"
	"pizzeria-delivery/internal/shift"
	"pizzeria-delivery/pkg/email"
)

type ServiceInterface interface {
	// Closing builds the closing report for one reporting date. An empty
	// date means the shift currently open.
	Closing(ctx context.Context, date, courierID string, now time.Time) (*shift.ClosingReport, error)
	SendClosing(ctx context.Context, date, courierID, to string, now time.Time) error
}

type Service struct {
	deliveries deliveries.ServiceInterface
	sender     email.ServiceInterface
	templates  *email.TemplateManager
}

func NewService(deliveryService deliveries.ServiceInterface, sender email.ServiceInterface, templates *email.TemplateManager) ServiceInterface {
	return &Service{
		deliveries: deliveryService,
		sender:     sender,
		templates:  templates,
	}
}

func (s *Service) Closing(ctx context.Context, date, courierID string, now time.Time) (*shift.ClosingReport, error) {
	records, window, err := s.deliveries.ListForDate(ctx, date, courierID, now)
	if err != nil {
		return nil, fmt.Errorf("service.Closing: %w", err)
	}
	report := shift.BuildClosingReport(window.ReferenceDate, courierID, records)
	return &report, nil
}

// SendClosing mails the closing report to the restaurant's address.
func (s *Service) SendClosing(ctx context.Context, date, courierID, to string, now time.Time) error {
	if s.sender == nil || s.templates == nil {
		return fmt.Errorf("%w: email delivery is not configured", models.ErrValidation)
	}

	report, err := s.Closing(ctx, date, courierID, now)
	if err != nil {
		return err
	}

	htmlBody, err := s.templates.GenerateClosingReportHTML(closingEmailData(report))
	if err != nil {
		return fmt.Errorf("service.SendClosing: %w", err)
	}

	subject := fmt.Sprintf("Fechamento de caixa - %s", report.Date)
	plainText := fmt.Sprintf(
		"Fechamento de %s: %d entregas, R$ %s em taxas, R$ %s em pedidos, %s km.",
		report.Date,
		report.Summary.TotalDeliveries,
		report.Summary.TotalDeliveryFees.StringFixed(2),
		report.Summary.TotalOrderValue.StringFixed(2),
		formatKm(report.Summary.TotalKm),
	)

	if err := s.sender.SendEmail(ctx, to, subject, plainText, htmlBody); err != nil {
		return fmt.Errorf("service.SendClosing: %w", err)
	}
	return nil
}

func closingEmailData(report *shift.ClosingReport) email.ClosingReportData {
	data := email.ClosingReportData{
		Date:              report.Date,
		TotalDeliveries:   report.Summary.TotalDeliveries,
		TotalDeliveryFees: report.Summary.TotalDeliveryFees.StringFixed(2),
		TotalOrderValue:   report.Summary.TotalOrderValue.StringFixed(2),
		TotalKm:           formatKm(report.Summary.TotalKm),
	}
	for _, r := range report.PerCourierReports {
		data.Couriers = append(data.Couriers, email.CourierLine{
			Name:              r.CourierName,
			TotalDeliveries:   r.TotalDeliveries,
			TotalDeliveryFees: r.TotalDeliveryFees.StringFixed(2),
			TotalOrderValue:   r.TotalOrderValue.StringFixed(2),
			TotalKm:           formatKm(r.TotalKm),
		})
	}
	return data
}
