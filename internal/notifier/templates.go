package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"swiftcart/internal/model"
)

// Templates are fixed at compile time and render from the job payload alone,
// so retrying a job always produces the identical email.
var (
	verifyEmailTmpl = template.Must(template.New("verify-email").Parse(
		`Hi {{.Name}},

Please verify your email address by entering the code below:

    {{.Token}}

If you did not create an account, you can ignore this email.

SwiftCart
`))

	orderStatusTmpl = template.Must(template.New("order-status-update").Parse(
		`Hi {{.Name}},

{{.Message}}

Order ID: {{.OrderID}}
Current status: {{.Status}}

SwiftCart
`))

	orderCancelTmpl = template.Must(template.New("order-cancel").Parse(
		`Hi {{.Name}},

Your order {{.OrderID}} has been cancelled.

Reason: {{.Reason}}

Any reserved items have been returned to stock.

SwiftCart
`))

	suspensionTmpl = template.Must(template.New("toggle-suspension").Parse(
		`Hi {{.Name}},

{{if .Suspended}}Your account has been suspended. You will not be able to place orders until it is reinstated.{{else}}Your account has been reinstated. Welcome back.{{end}}

SwiftCart
`))
)

// Render turns a notification job into a deliverable email based on its type
// and payload.
func Render(job *model.NotificationJob) (Email, error) {
	switch job.Type {
	case model.JobVerifyEmail:
		var p model.VerifyEmailPayload
		return render(job, &p, verifyEmailTmpl, "Verify your email address", func() string { return p.Email })

	case model.JobOrderStatusUpdate:
		var p model.OrderStatusPayload
		return render(job, &p, orderStatusTmpl, "Your order status has changed", func() string { return p.Email })

	case model.JobOrderCancel:
		var p model.OrderCancelPayload
		return render(job, &p, orderCancelTmpl, "Your order has been cancelled", func() string { return p.Email })

	case model.JobToggleSuspension:
		var p model.SuspensionPayload
		return render(job, &p, suspensionTmpl, "Your account status has changed", func() string { return p.Email })

	default:
		return Email{}, fmt.Errorf("unknown job type %q", job.Type)
	}
}

func render(job *model.NotificationJob, payload any, tmpl *template.Template, subject string, to func() string) (Email, error) {
	if err := json.Unmarshal(job.Payload, payload); err != nil {
		return Email{}, fmt.Errorf("decode %s payload: %w", job.Type, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, payload); err != nil {
		return Email{}, fmt.Errorf("render %s: %w", job.Type, err)
	}

	recipient := to()
	if recipient == "" {
		return Email{}, fmt.Errorf("%s payload missing recipient email", job.Type)
	}

	return Email{To: recipient, Subject: subject, Body: buf.String()}, nil
}
