package services

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"

	"mlb-streak-go/logging"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

// EmailService sends multipart text+HTML mail over SMTP with STARTTLS.
type EmailService struct {
	config EmailConfig
	logger *logging.Logger
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{
		config: config,
		logger: logging.WithPrefix("EmailService"),
	}
}

// Send delivers a multipart message to a single recipient.
func (e *EmailService) Send(to, subject, textBody, htmlBody string) error {
	smtpAddr := fmt.Sprintf("%s:%s", e.config.SMTPHost, e.config.SMTPPort)

	conn, err := net.Dial("tcp", smtpAddr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, e.config.SMTPHost)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsConfig := &tls.Config{ServerName: e.config.SMTPHost}
		if err = client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	auth := smtp.PlainAuth("", e.config.SMTPUsername, e.config.SMTPPassword, e.config.SMTPHost)
	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err = client.Mail(e.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	defer writer.Close()

	from := fmt.Sprintf("%s <%s>", e.config.FromName, e.config.FromEmail)
	boundary := "boundary123456789"

	msg := fmt.Sprintf(`From: %s
To: %s
Subject: %s
MIME-Version: 1.0
Content-Type: multipart/alternative; boundary="%s"

--%s
Content-Type: text/plain; charset=UTF-8

%s

--%s
Content-Type: text/html; charset=UTF-8

%s

--%s--
`, from, to, subject, boundary, boundary, textBody, boundary, htmlBody, boundary)

	if _, err = writer.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}

	e.logger.Infof("Sent %q to %s", subject, to)
	return nil
}

// IsConfigured checks if the email service is properly configured
func (e *EmailService) IsConfigured() bool {
	return e.config.SMTPHost != "" &&
		e.config.SMTPPort != "" &&
		e.config.SMTPUsername != "" &&
		e.config.SMTPPassword != "" &&
		e.config.FromEmail != ""
}

// TestConnection tests the SMTP connection and credentials
func (e *EmailService) TestConnection() error {
	if !e.IsConfigured() {
		return fmt.Errorf("email service not configured")
	}

	smtpAddr := fmt.Sprintf("%s:%s", e.config.SMTPHost, e.config.SMTPPort)

	conn, err := net.Dial("tcp", smtpAddr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, e.config.SMTPHost)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsConfig := &tls.Config{ServerName: e.config.SMTPHost}
		if err = client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	auth := smtp.PlainAuth("", e.config.SMTPUsername, e.config.SMTPPassword, e.config.SMTPHost)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	return nil
}
