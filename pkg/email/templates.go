package email

import (
	"bytes"
	"html/template"
)

const closingReportTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #222;">
	<h2>Fechamento de caixa - {{.Date}}</h2>
	<table cellpadding="6" cellspacing="0" border="0">
		<tr><td>Entregas</td><td align="right"><strong>{{.TotalDeliveries}}</strong></td></tr>
		<tr><td>Taxas de entrega</td><td align="right"><strong>R$ {{.TotalDeliveryFees}}</strong></td></tr>
		<tr><td>Valor dos pedidos</td><td align="right"><strong>R$ {{.TotalOrderValue}}</strong></td></tr>
		<tr><td>Quilometragem</td><td align="right"><strong>{{.TotalKm}} km</strong></td></tr>
	</table>
	{{if .Couriers}}
	<h3>Por entregador</h3>
	<table cellpadding="6" cellspacing="0" border="1" style="border-collapse: collapse;">
		<tr>
			<th>Entregador</th><th>Entregas</th><th>Taxas</th><th>Pedidos</th><th>Km</th>
		</tr>
		{{range .Couriers}}
		<tr>
			<td>{{.Name}}</td>
			<td align="right">{{.TotalDeliveries}}</td>
			<td align="right">R$ {{.TotalDeliveryFees}}</td>
			<td align="right">R$ {{.TotalOrderValue}}</td>
			<td align="right">{{.TotalKm}}</td>
		</tr>
		{{end}}
	</table>
	{{end}}
</body>
</html>`

// TemplateManager holds the parsed email templates.
type TemplateManager struct {
	ClosingTmpl *template.Template
}

// NewTemplateManager parses all email templates at startup.
func NewTemplateManager() (*TemplateManager, error) {
	closingTmpl, err := template.New("closingReport").Parse(closingReportTemplate)
	if err != nil {
		return nil, err
	}
	return &TemplateManager{ClosingTmpl: closingTmpl}, nil
}

// CourierLine is one per-courier row of the closing email. Monetary
// values arrive pre-formatted so the template stays dumb.
type CourierLine struct {
	Name              string
	TotalDeliveries   int
	TotalDeliveryFees string
	TotalOrderValue   string
	TotalKm           string
}

// ClosingReportData holds the dynamic data for the closing email.
type ClosingReportData struct {
	Date              string
	TotalDeliveries   int
	TotalDeliveryFees string
	TotalOrderValue   string
	TotalKm           string
	Couriers          []CourierLine
}

// GenerateClosingReportHTML executes the closing template with the
// provided data.
func (tm *TemplateManager) GenerateClosingReportHTML(data ClosingReportData) (string, error) {
	var body bytes.Buffer
	if err := tm.ClosingTmpl.Execute(&body, data); err != nil {
		return "", err
	}
	return body.String(), nil
}
