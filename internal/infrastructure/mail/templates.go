package mail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
)

const layout = `<!DOCTYPE html>
<html lang="en">
<head>
	<meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1.0" />
	<title>{{.Brand}}</title>
</head>
<body style="margin:0;padding:0;font-family:Helvetica,Arial,sans-serif;background-color:#f4f7f2;">
	<table border="0" cellpadding="0" cellspacing="0" width="100%" style="border-collapse:collapse;">
		<tr>
			<td style="padding:32px 0;">
				<table align="center" border="0" cellpadding="0" cellspacing="0" width="600" style="border-collapse:collapse;background-color:#2f6b3a;border-radius:8px 8px 0 0;">
					<tr><td align="center" style="padding:24px 0;color:#ffffff;"><h1 style="margin:0;font-size:24px;">{{.Brand}}</h1></td></tr>
				</table>
				<table align="center" border="0" cellpadding="0" cellspacing="0" width="600" style="border-collapse:collapse;background-color:#ffffff;">
					<tr><td style="padding:32px 28px;color:#333333;font-size:15px;line-height:1.6;">{{template "body" .}}</td></tr>
				</table>
				<table align="center" border="0" cellpadding="0" cellspacing="0" width="600" style="border-collapse:collapse;">
					<tr><td align="center" style="padding:16px;color:#8a8a8a;font-size:12px;">This is an automated message from {{.Brand}}.</td></tr>
				</table>
			</td>
		</tr>
	</table>
</body>
</html>`

var bodies = map[entity.NotificationKind]string{
	entity.NotifySignupOTP: `<p>Use the code below to finish creating your account.</p>
<p style="font-size:28px;font-weight:700;letter-spacing:6px;color:#2f6b3a;">{{.Data.otp}}</p>
<p>The code expires in {{.Data.expiresInMinutes}} minutes. If you did not sign up, ignore this email.</p>`,

	entity.NotifyWelcome: `<p>Welcome aboard! Your account <strong>{{.Data.email}}</strong> is ready.</p>
<p>Browse our plants at <a href="{{.FrontendURL}}">{{.FrontendURL}}</a>.</p>`,

	entity.NotifyPasswordReset: `<p>We received a request to reset your password.</p>
<p><a href="{{.Data.resetUrl}}" style="background-color:#2f6b3a;color:#ffffff;padding:10px 18px;border-radius:4px;text-decoration:none;">Reset password</a></p>
<p>The link expires in {{.Data.expiresInMinutes}} minutes. If you did not ask for it, ignore this email.</p>`,

	entity.NotifyEmailChangeOTP: `<p>Use this code to confirm your new email address:</p>
<p style="font-size:28px;font-weight:700;letter-spacing:6px;color:#2f6b3a;">{{.Data.otp}}</p>
<p>The code expires in {{.Data.expiresInMinutes}} minutes.</p>`,

	entity.NotifyOrderConfirmation: `<p>Thank you for your order <strong>#{{.Data.orderNumber}}</strong>.</p>
<p>Total: <strong>{{.Data.total}}</strong><br/>Tracking number: {{.Data.trackingNumber}}</p>
<table width="100%" style="border-collapse:collapse;">
{{range .Data.items}}<tr><td style="padding:4px 0;">{{.name}} x {{.quantity}}</td><td align="right">{{.subtotal}}</td></tr>
{{end}}</table>`,

	entity.NotifyOrderStatus: `<p>Your order <strong>#{{.Data.orderNumber}}</strong> is now <strong>{{.Data.status}}</strong>.</p>
{{if .Data.trackingNumber}}<p>Tracking number: {{.Data.trackingNumber}}{{if .Data.shippingPartner}} ({{.Data.shippingPartner}}){{end}}</p>{{end}}
{{if .Data.notes}}<p>{{.Data.notes}}</p>{{end}}`,

	entity.NotifyOrderCancellation: `<p>Your order <strong>#{{.Data.orderNumber}}</strong> has been cancelled.</p>
<p>Reason: {{.Data.reason}}</p>
{{if .Data.refunded}}<p>A refund has been requested to your original payment method.</p>{{end}}`,

	entity.NotifyLowStock: `<p>The following product needs restocking:</p>
<p><strong>{{.Data.productName}}</strong> (SKU {{.Data.sku}})<br/>
Current stock: {{.Data.currentStock}}<br/>Minimum threshold: {{.Data.minThreshold}}<br/>
Suggested reorder quantity: {{.Data.reorderQuantity}}<br/>Status: {{.Data.status}}</p>`,

	entity.NotifyTicketCreated: `<p>We received your support request <strong>{{.Data.ticketNumber}}</strong>.</p>
<p>Subject: {{.Data.subject}}</p><p>Our team will get back to you shortly.</p>`,

	entity.NotifyTicketUpdated: `<p>Your support ticket <strong>{{.Data.ticketNumber}}</strong> was updated.</p>
<p>Status: {{.Data.status}}<br/>Priority: {{.Data.priority}}</p>`,
}

// Renderer turns outbox payloads into HTML bodies.
type Renderer struct {
	brand       string
	frontendURL string
	templates   map[entity.NotificationKind]*template.Template
}

// NewRenderer parses every template once; a parse error is a programming error.
func NewRenderer(brand, frontendURL string) (*Renderer, error) {
	base, err := template.New("layout").Parse(layout)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email layout: %w", err)
	}

	r := &Renderer{
		brand:       brand,
		frontendURL: frontendURL,
		templates:   make(map[entity.NotificationKind]*template.Template, len(bodies)),
	}
	for kind, body := range bodies {
		t, err := template.Must(base.Clone()).New("body").Parse(body)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", kind, err)
		}
		r.templates[kind] = t
	}
	return r, nil
}

// Render executes the template for kind with the JSON payload.
func (r *Renderer) Render(kind entity.NotificationKind, payload []byte) (string, error) {
	t, ok := r.templates[kind]
	if !ok {
		return "", fmt.Errorf("no template for notification kind %q", kind)
	}

	data := map[string]interface{}{}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &data); err != nil {
			return "", fmt.Errorf("failed to decode payload: %w", err)
		}
	}

	var buf bytes.Buffer
	err := t.ExecuteTemplate(&buf, "layout", map[string]interface{}{
		"Brand":       r.brand,
		"FrontendURL": r.frontendURL,
		"Data":        data,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", kind, err)
	}
	return buf.String(), nil
}
