package email

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/ai4local/ai4local/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedWelcomeTemplate(t *testing.T) {
	s, err := NewEmailService(&config.Config{}, ProviderNone)
	require.NoError(t, err)
	require.Contains(t, s.Templates, "welcome")

	html, text, err := s.Render("welcome", map[string]string{
		"Name":     "Rabe <b>",
		"Email":    "rabe@example.mg",
		"OrgName":  "Tana Shop",
		"LoginURL": "http://localhost:5000/login",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Rabe &lt;b&gt;")
	assert.Contains(t, text, "Welcome, Rabe <b>!")
	assert.Contains(t, text, "Tana Shop")
}

func TestRenderUnknownTemplate(t *testing.T) {
	s, err := NewEmailService(&config.Config{}, ProviderNone)
	require.NoError(t, err)

	_, _, err = s.Render("missing", nil)
	assert.Error(t, err)
}

func TestDisabledProvider(t *testing.T) {
	s, err := NewEmailService(&config.Config{}, ProviderNone)
	require.NoError(t, err)
	assert.False(t, s.Enabled())

	err = s.SendEmail(context.Background(), EmailData{To: "a@b.mg", TemplateName: "welcome"})
	assert.ErrorIs(t, err, ErrDisabled)

	var nilService *Service
	assert.False(t, nilService.Enabled())
}

func TestProviderConfigurationErrors(t *testing.T) {
	_, err := NewEmailService(&config.Config{}, ProviderSendgrid)
	assert.Error(t, err)

	_, err = NewEmailService(&config.Config{}, ProviderSMTP)
	assert.Error(t, err)

	_, err = NewEmailService(&config.Config{}, Provider("pigeon"))
	assert.Error(t, err)
}

func TestLoadTemplatesRejectsBrokenGroup(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/emails/broken/html.tmpl":      {Data: []byte("{{.Name")},
		"templates/emails/broken/plaintext.tmpl": {Data: []byte("ok")},
	}

	_, err := NewEmailServiceFS(&config.Config{}, ProviderNone, fsys)
	assert.Error(t, err)
}

func TestBuildMIME(t *testing.T) {
	msg := string(buildMIME(EmailData{
		To: "rabe@example.mg", From: "no-reply@ai4local.mg", FromName: "AI4Local", Subject: "Hello",
	}, "<p>hi</p>", "hi"))

	assert.True(t, strings.HasPrefix(msg, "From: AI4Local <no-reply@ai4local.mg>\r\n"))
	assert.Contains(t, msg, "Subject: Hello\r\n")
	assert.Contains(t, msg, base64.StdEncoding.EncodeToString([]byte("<p>hi</p>")))
	assert.Contains(t, msg, base64.StdEncoding.EncodeToString([]byte("hi")))
}

func TestSendWithSendgrid(t *testing.T) {
	var path, authz string
	var payload map[string]interface{}
	status := http.StatusAccepted
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		authz = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		payload = nil
		_ = json.Unmarshal(body, &payload)
		w.WriteHeader(status)
		if status >= 300 {
			_, _ = w.Write([]byte(`{"errors":[{"message":"bad from"}]}`))
		}
	}))
	defer srv.Close()

	cfg := &config.Config{}
	cfg.Email.FromName = "AI4Local"
	cfg.Sendgrid.APIKey = "SG.test"
	cfg.Sendgrid.From = "no-reply@ai4local.mg"
	cfg.Sendgrid.Host = srv.URL

	s, err := NewEmailService(cfg, ProviderSendgrid)
	require.NoError(t, err)

	data := EmailData{
		To:           "rabe@example.mg",
		Subject:      "Welcome to AI4Local",
		TemplateName: "welcome",
		TemplateData: map[string]string{"Name": "Rabe", "Email": "rabe@example.mg", "OrgName": "Tana Shop"},
	}
	require.NoError(t, s.SendEmail(context.Background(), data))

	assert.Equal(t, "/v3/mail/send", path)
	assert.Equal(t, "Bearer SG.test", authz)
	assert.Equal(t, "Welcome to AI4Local", payload["subject"])
	assert.Equal(t, []interface{}{"welcome"}, payload["categories"])
	from := payload["from"].(map[string]interface{})
	assert.Equal(t, "no-reply@ai4local.mg", from["email"])
	assert.Equal(t, "AI4Local", from["name"])

	status = http.StatusBadRequest
	err = s.SendEmail(context.Background(), data)
	assert.ErrorContains(t, err, "sendgrid answered 400")
}
