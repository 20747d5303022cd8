package email

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendgridEndpoint = "/v3/mail/send"

// newSendgridClient targets host, or the public API when host is empty.
func newSendgridClient(apiKey, host string) *sendgrid.Client {
	req := sendgrid.GetRequest(apiKey, sendgridEndpoint, host)
	req.Method = http.MethodPost
	return &sendgrid.Client{Request: req}
}

// sendWithSendgrid posts one message per recipient. The template name goes
// out as a category so deliveries can be grouped by mail type.
func (s *Service) sendWithSendgrid(ctx context.Context, data EmailData, htmlContent, textContent string) error {
	message := mail.NewSingleEmail(
		mail.NewEmail(data.FromName, data.From),
		data.Subject,
		mail.NewEmail("", data.To),
		textContent,
		htmlContent,
	)
	if data.TemplateName != "" {
		message.AddCategories(data.TemplateName)
	}

	resp, err := s.sendgridClient.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid answered %d: %s", resp.StatusCode, resp.Body)
	}

	return nil
}
