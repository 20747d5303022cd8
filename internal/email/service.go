// internal/email/service.go
package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	texttemplate "text/template"

	"github.com/ai4local/ai4local"
	"github.com/ai4local/ai4local/internal/config"
	"github.com/sendgrid/sendgrid-go"
)

// Provider identifies supported email providers
type Provider string

const (
	ProviderNone     Provider = ""
	ProviderSMTP     Provider = "smtp"
	ProviderSendgrid Provider = "sendgrid"

	DefaultTemplatePath = "templates/emails"
)

// ErrDisabled is returned by SendEmail when no provider is configured.
var ErrDisabled = errors.New("email delivery is disabled")

// EmailData contains all necessary information for sending an email
type EmailData struct {
	To           string
	From         string
	FromName     string
	Subject      string
	TemplateName string
	TemplateData interface{}
}

// Service handles email operations
type Service struct {
	config         *config.Config
	provider       Provider
	sendgridClient *sendgrid.Client
	templateFS     fs.FS
	Templates      map[string]*Template
}

type Template struct {
	HTML      *htmltemplate.Template
	Plaintext *texttemplate.Template
}

// NewEmailService creates a new email service instance using the
// templates embedded in the binary.
func NewEmailService(cfg *config.Config, provider Provider) (*Service, error) {
	return NewEmailServiceFS(cfg, provider, ai4local.EmailFS)
}

// NewEmailServiceFS is NewEmailService with templates read from fsys.
func NewEmailServiceFS(cfg *config.Config, provider Provider, fsys fs.FS) (*Service, error) {
	s := &Service{
		config:     cfg,
		provider:   provider,
		templateFS: fsys,
		Templates:  make(map[string]*Template),
	}

	switch provider {
	case ProviderSendgrid:
		if cfg.Sendgrid.APIKey == "" {
			return nil, fmt.Errorf("sendgrid provider requires SENDGRID_API_KEY")
		}
		s.sendgridClient = newSendgridClient(cfg.Sendgrid.APIKey, cfg.Sendgrid.Host)
	case ProviderSMTP:
		if cfg.SMTP.Host == "" {
			return nil, fmt.Errorf("smtp provider requires SMTP_HOST")
		}
	case ProviderNone:
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", provider)
	}

	if err := s.loadTemplates(); err != nil {
		return nil, fmt.Errorf("loading email templates: %w", err)
	}

	return s, nil
}

// Enabled reports whether a delivery provider is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.provider != ProviderNone
}

// loadTemplates loads every template group found under DefaultTemplatePath
func (s *Service) loadTemplates() error {
	templateGroups, err := fs.ReadDir(s.templateFS, DefaultTemplatePath)
	if err != nil {
		return fmt.Errorf("failed to read email templates directory: %w", err)
	}

	if len(templateGroups) == 0 {
		return fmt.Errorf("no email templates found")
	}

	for _, group := range templateGroups {
		if !group.IsDir() {
			continue
		}

		groupPath := DefaultTemplatePath + "/" + group.Name()

		html, err := htmltemplate.ParseFS(s.templateFS, groupPath+"/html.tmpl")
		if err != nil {
			return fmt.Errorf("invalid email template group %s: %w", group.Name(), err)
		}
		text, err := texttemplate.ParseFS(s.templateFS, groupPath+"/plaintext.tmpl")
		if err != nil {
			return fmt.Errorf("invalid email template group %s: %w", group.Name(), err)
		}

		s.Templates[group.Name()] = &Template{HTML: html, Plaintext: text}
	}

	return nil
}

// SendEmail sends an email using the configured provider
func (s *Service) SendEmail(ctx context.Context, data EmailData) error {
	if !s.Enabled() {
		return ErrDisabled
	}

	htmlContent, textContent, err := s.Render(data.TemplateName, data.TemplateData)
	if err != nil {
		return err
	}

	if data.FromName == "" {
		data.FromName = s.config.Email.FromName
	}

	switch s.provider {
	case ProviderSendgrid:
		if data.From == "" {
			data.From = s.config.Sendgrid.From
		}
		return s.sendWithSendgrid(ctx, data, htmlContent, textContent)
	case ProviderSMTP:
		if data.From == "" {
			data.From = s.config.SMTP.From
		}
		return s.sendWithSMTP(data, htmlContent, textContent)
	default:
		return fmt.Errorf("unsupported email provider: %s", s.provider)
	}
}

// Render renders both HTML and text versions of a template
func (s *Service) Render(name string, data interface{}) (string, string, error) {
	tmpl, exists := s.Templates[name]
	if !exists {
		return "", "", fmt.Errorf("template %s not found", name)
	}

	var htmlbuf bytes.Buffer
	if err := tmpl.HTML.Execute(&htmlbuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute template: %w", err)
	}

	var textbuf bytes.Buffer
	if err := tmpl.Plaintext.Execute(&textbuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute template: %w", err)
	}

	return htmlbuf.String(), textbuf.String(), nil
}
