package mailgate

import (
	"bytes"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/jordan-wright/email"
)

const contactEmailText = `New Contact Form Submission

Name: {{.Name}}
Email: {{.Email}}

Message:
{{.Message}}

---
Submitted at: {{.SubmittedAt}}
Sent from: {{.Domain}}
`

const contactEmailHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, 'Segoe UI', Roboto, Arial, sans-serif; line-height: 1.6; color: #333; background-color: #f5f5f5; margin: 0; padding: 0;">
  <div style="max-width: 600px; margin: 20px auto; padding: 20px; background: #ffffff; border-radius: 8px;">
    <h2 style="margin-top: 0;">New Contact Form Submission</h2>
    <p><strong>Name</strong><br>{{.Name}}</p>
    <p><strong>Email</strong><br><a href="mailto:{{.Email}}">{{.Email}}</a></p>
    <p><strong>Message</strong></p>
    <div style="background: #f9fafb; padding: 16px; border-radius: 6px; white-space: pre-wrap;">{{.Message}}</div>
    <p style="font-size: 12px; color: #888; border-top: 1px solid #eee; padding-top: 16px; margin-top: 24px;">
      Submitted at: {{.SubmittedAt}}<br>
      This email was sent from the contact form on {{.Domain}}
    </p>
  </div>
</body>
</html>
`

var (
	contactTextTmpl = texttemplate.Must(texttemplate.New("contact-text").Parse(contactEmailText))
	contactHTMLTmpl = template.Must(template.New("contact-html").Parse(contactEmailHTML))
)

type emailTemplateData struct {
	Name        string
	Email       string
	Message     string
	SubmittedAt string
	Domain      string
}

// BuildContactEmail composes the notification email for a validated
// submission. The caller guarantees name and email are free of CR/LF, so the
// headers built here are injection-safe.
func BuildContactEmail(cfg *Config, req *ContactRequest, submittedAt time.Time) (*email.Email, error) {
	data := emailTemplateData{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		Message:     strings.TrimSpace(req.Message),
		SubmittedAt: submittedAt.UTC().Format(time.RFC3339),
		Domain:      cfg.SiteDomain,
	}

	var text, html bytes.Buffer
	if err := contactTextTmpl.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("render text body: %w", err)
	}
	if err := contactHTMLTmpl.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("render html body: %w", err)
	}

	e := email.NewEmail()
	e.From = cfg.FromAddr
	e.To = []string{cfg.To}
	e.ReplyTo = []string{data.Email}
	e.Subject = strings.TrimSpace(fmt.Sprintf("%s Contact form: %s", cfg.SubjectPrefix, data.Name))
	e.Text = text.Bytes()
	e.HTML = html.Bytes()
	return e, nil
}

// sendViaSMTP delivers e through the configured relay. Single attempt; the
// caller maps any failure to a generic internal error.
func sendViaSMTP(cfg *Config, e *email.Email) error {
	addr := net.JoinHostPort(cfg.SMTP.Host, strconv.Itoa(cfg.SMTP.Port))
	auth := smtp.PlainAuth("", cfg.SMTP.User, cfg.SMTP.Pass, cfg.SMTP.Host)
	if cfg.SMTP.SSL {
		return e.SendWithTLS(addr, auth, nil)
	}
	return e.Send(addr, auth)
}
