package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"text/template"
	"time"

	"github.com/MananRajppout/newamplify/internal/caching"
	"github.com/MananRajppout/newamplify/internal/models"

	"github.com/google/uuid"
)

const maxEmailAttempts = 5

// EmailSender delivers a single transactional email.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, html string) error
}

// EmailService dispatches account lifecycle emails. Delivery is
// best-effort: the record mutation the email announces has already
// committed, so a failed send is queued for retry instead of failing the
// calling operation.
type EmailService interface {
	DispatchVerificationEmail(ctx context.Context, to, firstName, token string) error
	DispatchResetEmail(ctx context.Context, to, firstName, token string) error
	RetryFailedEmails(ctx context.Context) error
}

var verificationTemplate = template.Must(template.New("verification").Parse(
	`<p>Hi {{.FirstName}},</p>
<p>Welcome to Amplify Research. Please verify your account by clicking the link below. The link expires in 24 hours.</p>
<p><a href="{{.BaseURL}}/verify-account?token={{.Token}}">Verify your account</a></p>`))

var resetTemplate = template.Must(template.New("reset").Parse(
	`<p>Hi {{.FirstName}},</p>
<p>We received a request to reset your password. Click the link below to choose a new one. The link expires in 1 hour.</p>
<p><a href="{{.BaseURL}}/reset-password?token={{.Token}}">Reset your password</a></p>
<p>If you did not request this, you can ignore this email.</p>`))

type emailService struct {
	sender   EmailSender
	cacheSvc caching.CacheService
	baseURL  string
}

// NewEmailService creates the dispatcher. baseURL is the frontend origin
// the emailed links point at.
func NewEmailService(sender EmailSender, cacheSvc caching.CacheService, baseURL string) EmailService {
	return &emailService{
		sender:   sender,
		cacheSvc: cacheSvc,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

func (s *emailService) DispatchVerificationEmail(ctx context.Context, to, firstName, token string) error {
	html, err := s.render(verificationTemplate, firstName, token)
	if err != nil {
		return err
	}
	return s.dispatch(ctx, to, "Verify Your Account", html)
}

func (s *emailService) DispatchResetEmail(ctx context.Context, to, firstName, token string) error {
	html, err := s.render(resetTemplate, firstName, token)
	if err != nil {
		return err
	}
	return s.dispatch(ctx, to, "Reset Your Password", html)
}

func (s *emailService) render(tmpl *template.Template, firstName, token string) (string, error) {
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, map[string]string{
		"FirstName": firstName,
		"Token":     token,
		"BaseURL":   s.baseURL,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}
	return buf.String(), nil
}

// dispatch attempts delivery once and falls back to the outbox. It only
// errors when the email can neither be sent nor queued.
func (s *emailService) dispatch(ctx context.Context, to, subject, html string) error {
	err := s.sender.SendEmail(ctx, to, subject, html)
	if err == nil {
		return nil
	}
	log.Printf("WARN: email dispatch to %s failed, queueing for retry: %v", to, err)

	queued := &models.OutboundEmail{
		ID:        uuid.NewString(),
		To:        to,
		Subject:   subject,
		HTML:      html,
		Attempts:  1,
		LastError: err.Error(),
		CreatedAt: time.Now(),
	}
	if qErr := s.cacheSvc.EnqueueEmail(ctx, queued); qErr != nil {
		return fmt.Errorf("failed to queue email for retry: %w", qErr)
	}
	return nil
}

// RetryFailedEmails drains the outbox once. Emails that fail again are
// requeued until maxEmailAttempts, then dropped with a logged error.
func (s *emailService) RetryFailedEmails(ctx context.Context) error {
	pending, err := s.cacheSvc.OutboxLength(ctx)
	if err != nil {
		return fmt.Errorf("failed to read email outbox length: %w", err)
	}

	for i := int64(0); i < pending; i++ {
		email, err := s.cacheSvc.DequeueEmail(ctx)
		if err != nil {
			return err
		}
		if email == nil {
			return nil
		}

		sendErr := s.sender.SendEmail(ctx, email.To, email.Subject, email.HTML)
		if sendErr == nil {
			continue
		}

		email.Attempts++
		email.LastError = sendErr.Error()
		if email.Attempts >= maxEmailAttempts {
			log.Printf("ERROR: dropping email to %s after %d attempts: %v", email.To, email.Attempts, sendErr)
			continue
		}
		if qErr := s.cacheSvc.EnqueueEmail(ctx, email); qErr != nil {
			return fmt.Errorf("failed to requeue email: %w", qErr)
		}
	}
	return nil
}

// SMTPSender delivers email over plain SMTP.
type SMTPSender struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPSender{
		addr: fmt.Sprintf("%s:%d", host, port),
		auth: auth,
		from: from,
	}
}

func (s *SMTPSender) SendEmail(ctx context.Context, to, subject, html string) error {
	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
		"",
		html,
	}, "\r\n")

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", to, err)
	}
	return nil
}

// LogSender logs instead of sending. Used when no SMTP host is
// configured.
type LogSender struct{}

func (LogSender) SendEmail(ctx context.Context, to, subject, html string) error {
	log.Printf("[EMAIL] To=%s, Subject=%s, Body=%s", to, subject, html)
	return nil
}
