package services

import (
	"bytes"
	"fmt"
	"html/template"
	texttemplate "text/template"

	"checkout-service/models"
)

// shippingUnavailable is the sentinel rendered when an order has no shipping
// block; absence of shipping must never break rendering.
const shippingUnavailable = "Shipping information unavailable"

var emailFuncs = map[string]interface{}{
	"amount": FormatAmount,
}

var customerEmailHTML = template.Must(template.New("customer_html").Funcs(emailFuncs).Parse(`<h1>Thank you for your order!</h1>
<p>We have received your payment. Your order reference is <strong>{{.SessionID}}</strong>.</p>
<table border="1" cellpadding="6" cellspacing="0">
  <tr><th>Product</th><th>Qty</th><th>Unit price</th><th>Total</th></tr>
{{- range .ProductsPurchased}}
  <tr><td>{{.ProductName}}</td><td>{{.Quantity}}</td><td>{{amount .UnitAmount $.Currency}}</td><td>{{amount .TotalAmount $.Currency}}</td></tr>
{{- end}}
</table>
<p><strong>Order total: {{amount .TotalAmount .Currency}}</strong></p>
{{- if .ShippingDetails}}
<p>Shipping to:<br>{{.ShippingDetails.Name}}<br>{{.ShippingDetails.Line1}}{{if .ShippingDetails.Line2}}<br>{{.ShippingDetails.Line2}}{{end}}<br>{{.ShippingDetails.PostalCode}} {{.ShippingDetails.City}}<br>{{.ShippingDetails.Country}}</p>
{{- else}}
<p>` + shippingUnavailable + `</p>
{{- end}}
`))

var customerEmailText = texttemplate.Must(texttemplate.New("customer_text").Funcs(emailFuncs).Parse(`Thank you for your order!

We have received your payment. Your order reference is {{.SessionID}}.

{{range .ProductsPurchased}}- {{.ProductName}} x{{.Quantity}} @ {{amount .UnitAmount $.Currency}} = {{amount .TotalAmount $.Currency}}
{{end}}
Order total: {{amount .TotalAmount .Currency}}

{{if .ShippingDetails}}Shipping to: {{.ShippingDetails.Name}}, {{.ShippingDetails.Line1}}, {{.ShippingDetails.PostalCode}} {{.ShippingDetails.City}}, {{.ShippingDetails.Country}}
{{else}}` + shippingUnavailable + `
{{end}}`))

var ownerEmailHTML = template.Must(template.New("owner_html").Funcs(emailFuncs).Parse(`<h2>New order {{.SessionID}}</h2>
<p>Customer: {{.CustomerEmail}}</p>
<table border="1" cellpadding="6" cellspacing="0">
  <tr><th>Product</th><th>Qty</th><th>Total</th></tr>
{{- range .ProductsPurchased}}
  <tr><td>{{.ProductName}}</td><td>{{.Quantity}}</td><td>{{amount .TotalAmount $.Currency}}</td></tr>
{{- end}}
</table>
<p><strong>Order total: {{amount .TotalAmount .Currency}}</strong></p>
{{- if .ShippingDetails}}
<p>Ship to:<br>{{.ShippingDetails.Name}}<br>{{.ShippingDetails.Line1}}{{if .ShippingDetails.Line2}}<br>{{.ShippingDetails.Line2}}{{end}}<br>{{.ShippingDetails.PostalCode}} {{.ShippingDetails.City}}<br>{{.ShippingDetails.Country}}</p>
{{- else}}
<p>` + shippingUnavailable + `</p>
{{- end}}
`))

var ownerEmailText = texttemplate.Must(texttemplate.New("owner_text").Funcs(emailFuncs).Parse(`New order {{.SessionID}}

Customer: {{.CustomerEmail}}

{{range .ProductsPurchased}}- {{.ProductName}} x{{.Quantity}} = {{amount .TotalAmount $.Currency}}
{{end}}
Order total: {{amount .TotalAmount .Currency}}

{{if .ShippingDetails}}Ship to: {{.ShippingDetails.Name}}, {{.ShippingDetails.Line1}}, {{.ShippingDetails.PostalCode}} {{.ShippingDetails.City}}, {{.ShippingDetails.Country}}
{{else}}` + shippingUnavailable + `
{{end}}`))

func renderCustomerEmail(order *models.Order) (textBody, htmlBody string, err error) {
	return renderEmail(order, customerEmailText, customerEmailHTML)
}

func renderOwnerEmail(order *models.Order) (textBody, htmlBody string, err error) {
	return renderEmail(order, ownerEmailText, ownerEmailHTML)
}

func renderEmail(order *models.Order, textTmpl *texttemplate.Template, htmlTmpl *template.Template) (string, string, error) {
	var textBuf, htmlBuf bytes.Buffer
	if err := textTmpl.Execute(&textBuf, order); err != nil {
		return "", "", fmt.Errorf("text template render failed: %w", err)
	}
	if err := htmlTmpl.Execute(&htmlBuf, order); err != nil {
		return "", "", fmt.Errorf("html template render failed: %w", err)
	}
	return textBuf.String(), htmlBuf.String(), nil
}
