// internal/pkg/invoice/service.go
package invoice

import (
	"bytes"
	"fmt"
	"html/template"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"

	"github.com/trippydrip/storefront-backend/internal/config"
	"github.com/trippydrip/storefront-backend/internal/domain/order"
)

// Service renders PDF receipts for paid orders
type Service struct {
	config   *config.Config
	template *template.Template
}

// NewService creates a receipt service
func NewService(cfg *config.Config) (*Service, error) {
	tmpl, err := template.New("receipt").Funcs(template.FuncMap{
		"money": func(minor int64) string {
			return fmt.Sprintf("%.2f", float64(minor)/100)
		},
		"mul": func(price int64, qty int) int64 {
			return price * int64(qty)
		},
	}).Parse(receiptTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse receipt template: %w", err)
	}
	return &Service{config: cfg, template: tmpl}, nil
}

type receiptData struct {
	StoreName  string
	StoreEmail string
	Order      *order.Order
}

// GenerateReceipt renders a PDF receipt for an order. Only paid orders
// have receipts.
func (s *Service) GenerateReceipt(o *order.Order) ([]byte, error) {
	if o.Status != order.StatusPaid {
		return nil, fmt.Errorf("order %s is not paid", o.ID)
	}

	var html bytes.Buffer
	err := s.template.Execute(&html, receiptData{
		StoreName:  s.config.App.StoreName,
		StoreEmail: s.config.App.StoreEmail,
		Order:      o,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(html.Bytes()))
	page.EnableLocalFileAccess.Set(false)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return pdfg.Bytes(), nil
}

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #222; margin: 40px; }
  h1 { font-size: 22px; margin-bottom: 0; }
  .muted { color: #777; font-size: 12px; }
  table { width: 100%; border-collapse: collapse; margin-top: 24px; }
  th, td { text-align: left; padding: 8px 4px; border-bottom: 1px solid #ddd; font-size: 13px; }
  th { text-transform: uppercase; font-size: 11px; color: #555; }
  td.num, th.num { text-align: right; }
  .totals td { border-bottom: none; padding: 4px; }
  .totals .grand { font-weight: bold; font-size: 15px; }
</style>
</head>
<body>
  <h1>{{.StoreName}}</h1>
  <p class="muted">{{.StoreEmail}}</p>

  <p>
    Receipt for order <strong>{{.Order.OrderNumber}}</strong><br>
    <span class="muted">Paid {{if .Order.PaidAt}}{{.Order.PaidAt.Format "2 Jan 2006 15:04 MST"}}{{end}}</span>
  </p>

  <table>
    <tr><th>Item</th><th>Size</th><th>Color</th><th class="num">Qty</th><th class="num">Unit</th><th class="num">Total</th></tr>
    {{range .Order.Items}}
    <tr>
      <td>{{.Name}}</td>
      <td>{{.Size}}</td>
      <td>{{.Color}}</td>
      <td class="num">{{.Quantity}}</td>
      <td class="num">{{money .UnitPrice}}</td>
      <td class="num">{{money (mul .UnitPrice .Quantity)}}</td>
    </tr>
    {{end}}
  </table>

  <table class="totals">
    <tr><td></td><td class="num">Subtotal</td><td class="num">{{money .Order.Subtotal}} {{.Order.Currency}}</td></tr>
    <tr><td></td><td class="num">Tax</td><td class="num">{{money .Order.Tax}} {{.Order.Currency}}</td></tr>
    <tr><td></td><td class="num">Shipping</td><td class="num">{{if .Order.Shipping}}{{money .Order.Shipping}} {{.Order.Currency}}{{else}}Free{{end}}</td></tr>
    <tr class="grand"><td></td><td class="num">Total</td><td class="num">{{money .Order.Total}} {{.Order.Currency}}</td></tr>
  </table>
</body>
</html>`
