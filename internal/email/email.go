// Package email provides email sending functionality
package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strings"
)

// Config holds email configuration
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
	UseTLS   bool
}

// Service handles email sending
type Service struct {
	config    *Config
	templates map[string]*template.Template
}

// NewService creates a new email service
func NewService(config *Config) *Service {
	s := &Service{
		config:    config,
		templates: make(map[string]*template.Template),
	}
	s.loadTemplates()
	return s
}

// Email represents an email message
type Email struct {
	To       []string
	CC       []string
	BCC      []string
	Subject  string
	Body     string
	HTMLBody string
}

// StatusRequestEmailData holds data for status change request emails
type StatusRequestEmailData struct {
	TargetName    string
	InitiatorName string
	FromStatus    string
	ToStatus      string
	RequestURL    string
}

// StatusResolvedEmailData holds data for request outcome emails
type StatusResolvedEmailData struct {
	InitiatorName string
	TargetName    string
	ToStatus      string
	Outcome       string
}

// loadTemplates loads all email templates
func (s *Service) loadTemplates() {

	s.templates["status_request"] = template.Must(template.New("status_request").Parse(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; color: #333; }
        .container { max-width: 560px; margin: 0 auto; padding: 24px; }
        .card { border: 1px solid #e0e0e0; border-radius: 8px; padding: 24px; }
        .status { font-weight: bold; }
        .button { display: inline-block; padding: 10px 20px; background: #2563eb; color: #fff;
                  text-decoration: none; border-radius: 6px; margin-top: 16px; }
        .footer { color: #999; font-size: 12px; margin-top: 24px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="card">
            <h2>Status Change Requested</h2>
            <p>Hi {{.TargetName}},</p>
            <p>{{.InitiatorName}} has requested to change your membership status from
               <span class="status">{{.FromStatus}}</span> to
               <span class="status">{{.ToStatus}}</span>.</p>
            <p>The change only takes effect once you accept it.</p>
            <a class="button" href="{{.RequestURL}}">Review Request</a>
        </div>
        <p class="footer">You received this email because your roster record has a pending request.</p>
    </div>
</body>
</html>`))

	s.templates["status_resolved"] = template.Must(template.New("status_resolved").Parse(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; color: #333; }
        .container { max-width: 560px; margin: 0 auto; padding: 24px; }
        .card { border: 1px solid #e0e0e0; border-radius: 8px; padding: 24px; }
        .status { font-weight: bold; }
        .footer { color: #999; font-size: 12px; margin-top: 24px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="card">
            <h2>Status Change {{.Outcome}}</h2>
            <p>Hi {{.InitiatorName}},</p>
            <p>{{.TargetName}} has {{.Outcome}} your request to change their status to
               <span class="status">{{.ToStatus}}</span>.</p>
        </div>
        <p class="footer">You received this email because you initiated a status change request.</p>
    </div>
</body>
</html>`))
}

// ============================================
// Convenience Methods
// ============================================

// SendStatusChangeRequest emails the target member about a pending request
func (s *Service) SendStatusChangeRequest(to, targetName, initiatorName, fromStatus, toStatus, requestID string) error {
	if initiatorName == "" {
		initiatorName = "Someone"
	}

	data := StatusRequestEmailData{
		TargetName:    targetName,
		InitiatorName: initiatorName,
		FromStatus:    fromStatus,
		ToStatus:      toStatus,
		RequestURL:    fmt.Sprintf("https://roster.orkestra.app/requests/%s", requestID),
	}

	return s.SendWithTemplate(
		[]string{to},
		fmt.Sprintf("[Roster] Status change to %s requested", toStatus),
		"status_request",
		data,
	)
}

// SendStatusChangeResolved emails the initiator about the outcome
func (s *Service) SendStatusChangeResolved(to, initiatorName, targetName, toStatus string, accepted bool) error {
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}

	data := StatusResolvedEmailData{
		InitiatorName: initiatorName,
		TargetName:    targetName,
		ToStatus:      toStatus,
		Outcome:       outcome,
	}

	return s.SendWithTemplate(
		[]string{to},
		fmt.Sprintf("[Roster] Status change request %s", outcome),
		"status_resolved",
		data,
	)
}

// Send sends an email
func (s *Service) Send(email *Email) error {
	if s.config.Host == "" {
		log.Println("Email not configured, skipping send")
		return nil
	}

	// Build message
	var msg bytes.Buffer

	// Headers
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(email.To, ", ")))
	if len(email.CC) > 0 {
		msg.WriteString(fmt.Sprintf("Cc: %s\r\n", strings.Join(email.CC, ", ")))
	}
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", email.Subject))
	msg.WriteString("MIME-Version: 1.0\r\n")

	if email.HTMLBody != "" {
		msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(email.HTMLBody)
	} else {
		msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(email.Body)
	}

	// Build recipient list
	recipients := append(email.To, email.CC...)
	recipients = append(recipients, email.BCC...)

	// Create auth
	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	if s.config.UseTLS {
		// TLS connection
		tlsConfig := &tls.Config{
			ServerName: s.config.Host,
		}

		conn, err := tls.Dial("tcp", addr, tlsConfig)
		if err != nil {
			return fmt.Errorf("TLS dial error: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, s.config.Host)
		if err != nil {
			return fmt.Errorf("SMTP client error: %w", err)
		}
		defer client.Close()

		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("auth error: %w", err)
		}

		if err = client.Mail(s.config.From); err != nil {
			return fmt.Errorf("mail error: %w", err)
		}

		for _, rcpt := range recipients {
			if err = client.Rcpt(rcpt); err != nil {
				return fmt.Errorf("rcpt error: %w", err)
			}
		}

		w, err := client.Data()
		if err != nil {
			return fmt.Errorf("data error: %w", err)
		}

		_, err = w.Write(msg.Bytes())
		if err != nil {
			return fmt.Errorf("write error: %w", err)
		}

		err = w.Close()
		if err != nil {
			return fmt.Errorf("close error: %w", err)
		}

		return client.Quit()
	}

	// Non-TLS
	return smtp.SendMail(addr, auth, s.config.From, recipients, msg.Bytes())
}

// SendWithTemplate sends an email using a template
func (s *Service) SendWithTemplate(to []string, subject, templateName string, data interface{}) error {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("template not found: %s", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	return s.Send(&Email{
		To:       to,
		Subject:  subject,
		HTMLBody: body.String(),
	})
}
