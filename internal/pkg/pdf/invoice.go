// internal/pkg/pdf/invoice.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// GenerateInvoice renders a PDF invoice for an order
func (s *Service) GenerateInvoice(detail *order.OrderDetail) (*bytes.Buffer, error) {
	data := invoiceData{
		InvoiceNumber: fmt.Sprintf("INV-%s", detail.OrderNumber),
		InvoiceDate:   time.Now().Format("January 2, 2006"),
		Order:         detail,
		Company: companyInfo{
			Name:    s.config.App.CompanyName,
			Address: s.config.App.CompanyAddress,
			Phone:   s.config.App.CompanyPhone,
			Email:   s.config.App.CompanyEmail,
		},
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func (s *Service) generateHTML(data invoiceData) (string, error) {
	tmpl := template.Must(template.New("invoice").Funcs(template.FuncMap{
		"itemName":  itemName,
		"lineTotal": lineTotal,
	}).Parse(invoiceTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// itemName prefers the live product name; deleted products fall back to the
// product ID
func itemName(item order.OrderItemDetail) string {
	if item.Product != nil {
		return item.Product.Name
	}
	return fmt.Sprintf("Product #%d", item.ProductID)
}

// lineTotal is the snapshotted unit price times quantity
func lineTotal(item order.OrderItemDetail) string {
	return item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).StringFixed(2)
}

// invoiceData represents the data passed to the invoice template
type invoiceData struct {
	InvoiceNumber string
	InvoiceDate   string
	Order         *order.OrderDetail
	Company       companyInfo
}

type companyInfo struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #222; }
  h1 { font-size: 20px; margin-bottom: 0; }
  .muted { color: #777; }
  table { width: 100%; border-collapse: collapse; margin-top: 24px; }
  th, td { text-align: left; padding: 6px 8px; border-bottom: 1px solid #ddd; }
  th { background: #f5f5f5; }
  td.num, th.num { text-align: right; }
  .total td { font-weight: bold; border-top: 2px solid #222; }
</style>
</head>
<body>
  <h1>{{.Company.Name}}</h1>
  <p class="muted">{{.Company.Address}}<br>{{.Company.Phone}} · {{.Company.Email}}</p>

  <p>
    <strong>Invoice {{.InvoiceNumber}}</strong><br>
    Date: {{.InvoiceDate}}<br>
    Order: {{.Order.OrderNumber}} ({{.Order.Status}})
  </p>

  <p>
    <strong>Ship to</strong><br>
    {{.Order.ShippingName}}<br>
    {{.Order.ShippingAddress}}<br>
    {{.Order.ShippingCity}} {{.Order.ShippingPostal}} {{.Order.ShippingCountry}}
  </p>

  <table>
    <tr><th>Item</th><th class="num">Qty</th><th class="num">Unit Price</th><th class="num">Amount</th></tr>
    {{range .Order.Items}}
    <tr>
      <td>{{itemName .}}</td>
      <td class="num">{{.Quantity}}</td>
      <td class="num">{{.Price}}</td>
      <td class="num">{{lineTotal .}}</td>
    </tr>
    {{end}}
    <tr class="total"><td colspan="3">Total</td><td class="num">{{.Order.Total}}</td></tr>
  </table>

  <p class="muted">Payment method: {{.Order.PaymentMethod}}</p>
</body>
</html>`
