// internal/email/mailer/welcome.go
package mailer

import (
	"context"

	"github.com/ai4local/ai4local/internal/email"
)

// WelcomeTemplateData contains data for the welcome email template
type WelcomeTemplateData struct {
	Name     string
	Email    string
	OrgName  string
	LoginURL string
}

// SendWelcomeEmail greets the owner of a newly created organization
func SendWelcomeEmail(ctx context.Context, s *email.Service, to, name, orgName, baseURL string) error {
	emailData := email.EmailData{
		To:           to,
		Subject:      "Welcome to AI4Local",
		TemplateName: "welcome",
		TemplateData: WelcomeTemplateData{
			Name:     name,
			Email:    to,
			OrgName:  orgName,
			LoginURL: baseURL + "/login",
		},
	}

	return s.SendEmail(ctx, emailData)
}
