package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"
)

var ErrRelayNotConfigured = errors.New("contact: relay credentials not configured")

// Relay delivers a validated submission as an email.
type Relay interface {
	Send(ctx context.Context, s Submission) error
}

// RelayFunc adapts a function to Relay.
type RelayFunc func(ctx context.Context, s Submission) error

func (f RelayFunc) Send(ctx context.Context, s Submission) error { return f(ctx, s) }

// SMTPRelay mails submissions through an authenticated SMTP server.
type SMTPRelay struct {
	Host     string
	Port     string
	Username string
	Password string
	To       string

	// sendMail is smtp.SendMail outside of tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func (r *SMTPRelay) Send(ctx context.Context, s Submission) error {
	if r.Username == "" || r.Password == "" {
		return ErrRelayNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	send := r.sendMail
	if send == nil {
		send = smtp.SendMail
	}

	auth := smtp.PlainAuth("", r.Username, r.Password, r.Host)
	msg := composeMessage(r.Username, r.To, s)
	if err := send(r.Host+":"+r.Port, auth, r.Username, []string{r.To}, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func subjectLine(s Submission) string {
	if s.Subject != "" {
		return "Portfolio Contact: " + s.Subject
	}
	return "Portfolio Contact: " + s.Name
}

// headerSafe drops CR and LF so form input cannot add mail headers.
func headerSafe(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

func composeMessage(from, to string, s Submission) []byte {
	body := fmt.Sprintf(`New contact form submission from your portfolio:

Name: %s
Email: %s
Subject: %s
Message:
%s

---
Sent from your portfolio contact form
`, s.Name, s.Email, s.Subject, s.Message)

	var b strings.Builder
	b.WriteString("To: " + headerSafe(to) + "\r\n")
	b.WriteString("Subject: " + headerSafe(subjectLine(s)) + "\r\n")
	b.WriteString("From: " + headerSafe(from) + "\r\n")
	b.WriteString("Reply-To: " + headerSafe(s.Email) + "\r\n")
	b.WriteString("\r\n")
	b.WriteString(body + "\r\n")
	return []byte(b.String())
}

// DefaultHTTPEndpoint is the EmailJS REST send endpoint.
const DefaultHTTPEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// HTTPRelay posts submissions to a hosted email API (EmailJS-compatible).
type HTTPRelay struct {
	Endpoint   string
	ServiceID  string
	TemplateID string
	PublicKey  string
	Client     *http.Client
}

type httpRelayRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

func (r *HTTPRelay) Send(ctx context.Context, s Submission) error {
	if r.ServiceID == "" || r.TemplateID == "" || r.PublicKey == "" {
		return ErrRelayNotConfigured
	}
	endpoint := r.Endpoint
	if endpoint == "" {
		endpoint = DefaultHTTPEndpoint
	}
	client := r.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	payload, err := json.Marshal(httpRelayRequest{
		ServiceID:  r.ServiceID,
		TemplateID: r.TemplateID,
		UserID:     r.PublicKey,
		TemplateParams: map[string]string{
			"from_name":  s.Name,
			"from_email": s.Email,
			"subject":    s.Subject,
			"message":    s.Message,
		},
	})
	if err != nil {
		return fmt.Errorf("encode relay request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("relay request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("relay responded %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// LogRelay only logs submissions. Useful in development.
type LogRelay struct {
	Logger *zap.Logger
}

func (r *LogRelay) Send(ctx context.Context, s Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.Logger.Info("contact submission (not delivered)",
		zap.String("name", s.Name),
		zap.String("email", s.Email),
		zap.String("subject", s.Subject),
		zap.Int("message_len", len(s.Message)))
	return nil
}
