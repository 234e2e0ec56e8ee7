package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/arcrobot/admin_backend/internal/domain"
)

var consultTemplate = template.Must(template.New("consult").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>New consultation request</title>
</head>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #f4f4f4;">
	<table width="100%" cellpadding="0" cellspacing="0" style="padding: 20px;">
		<tr>
			<td align="center">
				<table width="600" cellpadding="0" cellspacing="0" style="background-color: #ffffff; border-radius: 8px;">
					<tr>
						<td style="background-color: #1f2937; padding: 30px 20px; text-align: center;">
							<h1 style="color: #ffffff; margin: 0; font-size: 24px;">New consultation request #{{.ID}}</h1>
						</td>
					</tr>
					<tr>
						<td style="padding: 30px;">
							<table width="100%" cellpadding="0" cellspacing="0">
								<tr><td style="padding: 8px 0;"><strong>Name:</strong></td><td style="padding: 8px 0; text-align: right;">{{.Name}}</td></tr>
								<tr><td style="padding: 8px 0;"><strong>Phone:</strong></td><td style="padding: 8px 0; text-align: right;">{{.PhoneNumber}}</td></tr>
								<tr><td style="padding: 8px 0;"><strong>Email:</strong></td><td style="padding: 8px 0; text-align: right;">{{.Email}}</td></tr>
								<tr><td style="padding: 8px 0;"><strong>Received:</strong></td><td style="padding: 8px 0; text-align: right;">{{.Received}}</td></tr>
							</table>
							<div style="margin-top: 20px; padding: 20px; background-color: #f8f9fa; border-left: 4px solid #1f2937;">
								{{.Reason}}
							</div>
						</td>
					</tr>
				</table>
			</td>
		</tr>
	</table>
</body>
</html>
`))

// ConsultNotifier mails every new consultation request to the staff inbox.
type ConsultNotifier struct {
	client *Client
	to     string
}

func NewConsultNotifier(client *Client, to string) *ConsultNotifier {
	return &ConsultNotifier{client: client, to: to}
}

func renderConsult(consult *domain.Consult) (string, error) {
	received := consult.CreatedAt
	if received.IsZero() {
		received = time.Now()
	}
	var buf bytes.Buffer
	err := consultTemplate.Execute(&buf, struct {
		*domain.Consult
		Received string
	}{consult, received.Format("02/01/2006 15:04")})
	if err != nil {
		return "", fmt.Errorf("error rendering consult mail: %w", err)
	}
	return buf.String(), nil
}

func consultSubject(consult *domain.Consult) string {
	return fmt.Sprintf("New consultation request #%d from %s", consult.ID, consult.Name)
}

// NotifyConsult sends the notification for one request.
func (n *ConsultNotifier) NotifyConsult(ctx context.Context, consult *domain.Consult) error {
	body, err := renderConsult(consult)
	if err != nil {
		return err
	}
	return n.client.SendEmail(ctx, n.to, consultSubject(consult), body)
}
