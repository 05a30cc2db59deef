package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"go-portfolio-backend/config"

	"github.com/google/uuid"
)

// ErrNotConfigured is returned by NewService when required SMTP credentials
// are absent. It is a deployment defect: the handler reports the contact
// form as unavailable rather than attempting delivery.
var ErrNotConfigured = errors.New("mail: service is not configured")

// deliveryTimeout bounds the whole SMTP session (dial + handshake + send).
// The relay is a third party; without this a stuck connection would pin the
// request until the HTTP layer gives up.
const deliveryTimeout = 10 * time.Second

// Submission carries the validated contact form fields the adapter turns
// into an outbound email. Validation happens before this point.
type Submission struct {
	SenderName  string
	SenderEmail string
	Subject     string
	Message     string
}

// Message is the composed outbound email. To and From always come from
// configuration; the visitor only ever controls Reply-To and content.
type Message struct {
	From      string
	To        string
	ReplyTo   string
	MessageID string
	Subject   string
	TextBody  string
	HTMLBody  string
}

// Receipt confirms the relay accepted a message for delivery. Acceptance is
// not inbox delivery; there is no side channel to confirm that.
type Receipt struct {
	MessageID  string
	AcceptedAt time.Time
}

// Service delivers contact form submissions through an authenticated SMTP
// relay. Safe for concurrent use: all fields are set at construction and
// never mutated.
type Service struct {
	host     string
	port     string
	username string
	password string
	from     string
	to       string
}

// NewService builds the delivery service from process configuration.
// Missing credentials fail here, at startup, not on the first submission.
func NewService(cfg *config.Config) (*Service, error) {
	if !cfg.MailConfigured() {
		return nil, fmt.Errorf("%w: missing %s", ErrNotConfigured, strings.Join(cfg.MissingMailVars(), ", "))
	}
	return &Service{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.EmailUser,
		password: cfg.EmailPass,
		from:     cfg.EmailUser, // relay requires the login identity as sender
		to:       cfg.EmailTo,
	}, nil
}

// Compose builds the outbound message for a submission. Split from Deliver
// so the header invariants are testable without a relay.
func (s *Service) Compose(sub Submission) (*Message, error) {
	// Visitor input feeding a header must never be able to terminate the
	// header line: strip control characters before anything reaches encode.
	name := strings.TrimSpace(stripControl(sub.SenderName))
	subject := strings.TrimSpace(stripControl(sub.Subject))
	if subject != "" {
		subject = "[Portfolio Contact] " + subject
	} else {
		subject = "Contact Form Submission from " + name
	}
	// Q-encode so non-ASCII subjects travel as RFC 2047 encoded words;
	// plain ASCII passes through unchanged.
	subject = mime.QEncoding.Encode("utf-8", subject)

	htmlBody, err := renderHTMLBody(sub)
	if err != nil {
		return nil, fmt.Errorf("mail: render body: %w", err)
	}

	return &Message{
		From:      s.from,
		To:        s.to,
		ReplyTo:   stripControl(sub.SenderEmail),
		MessageID: fmt.Sprintf("<%s@%s>", uuid.NewString(), s.host),
		Subject:   subject,
		TextBody:  renderTextBody(sub),
		HTMLBody:  htmlBody,
	}, nil
}

// Deliver composes and sends one submission through the relay. A single
// attempt: retry policy belongs to the caller, and for an interactive form
// the user resubmitting is the retry.
func (s *Service) Deliver(ctx context.Context, sub Submission) (*Receipt, error) {
	msg, err := s.Compose(sub)
	if err != nil {
		return nil, err
	}

	if err := s.send(ctx, msg); err != nil {
		return nil, err
	}

	return &Receipt{
		MessageID:  msg.MessageID,
		AcceptedAt: time.Now(),
	}, nil
}

// send runs the SMTP session: dial, STARTTLS when the relay offers it,
// authenticate, transmit. The session shares one deadline so no single step
// can hang past the budget.
func (s *Service) send(ctx context.Context, msg *Message) error {
	deadline := time.Now().Add(deliveryTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	addr := net.JoinHostPort(s.host, s.port)
	dialer := &net.Dialer{Deadline: deadline}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("mail: dial %s: %w", addr, err)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return fmt.Errorf("mail: set deadline: %w", err)
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("mail: smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("mail: starttls: %w", err)
		}
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if ok, _ := client.Extension("AUTH"); ok {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("mail: auth rejected: %w", err)
		}
	}

	if err := client.Mail(msg.From); err != nil {
		return fmt.Errorf("mail: sender rejected: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("mail: recipient rejected: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("mail: data: %w", err)
	}
	if _, err := w.Write(encode(msg)); err != nil {
		w.Close()
		return fmt.Errorf("mail: write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mail: relay did not accept message: %w", err)
	}

	return client.Quit()
}

// encode assembles the RFC 5322 wire form: headers, then a multipart
// alternative body carrying both plain-text and HTML renditions.
func encode(msg *Message) []byte {
	boundary := strings.ReplaceAll(uuid.NewString(), "-", "")

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Reply-To: %s\r\n", msg.ReplyTo)
	fmt.Fprintf(&b, "Message-ID: %s\r\n", msg.MessageID)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%s\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.TextBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.HTMLBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	return []byte(b.String())
}

// stripControl removes CR, LF and every other control character from a
// header value. CRLF in visitor input would otherwise start a new header
// (Bcc injection); the validated email shape already forbids whitespace,
// but the adapter enforces its own invariant regardless of caller.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

func renderTextBody(sub Submission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\r\n", sub.SenderName)
	fmt.Fprintf(&b, "Email: %s\r\n", sub.SenderEmail)
	if sub.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\r\n", sub.Subject)
	}
	b.WriteString("\r\nMessage:\r\n")
	b.WriteString(sub.Message)
	return b.String()
}

// contactEmailTemplate is the HTML body for contact form emails.
const contactEmailTemplate = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #6366f1;">New Contact Form Submission</h2>
  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <p><strong style="color: #333;">Name:</strong> {{.SenderName}}</p>
    <p><strong style="color: #333;">Email:</strong> {{.SenderEmail}}</p>
    {{if .Subject}}<p><strong style="color: #333;">Subject:</strong> {{.Subject}}</p>{{end}}
    <p><strong style="color: #333;">Message:</strong></p>
    <div style="background-color: white; padding: 15px; border-radius: 5px; border-left: 4px solid #6366f1;">
      <p style="margin: 0; color: #333;">{{.MessageHTML}}</p>
    </div>
  </div>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #666; font-size: 14px;">
    <em>This message was sent from your portfolio website contact form.</em>
  </p>
</div>`

var htmlTmpl = template.Must(template.New("contact").Parse(contactEmailTemplate))

func renderHTMLBody(sub Submission) (string, error) {
	// Escape first, then convert newlines so the <br> tags survive
	escaped := template.HTMLEscapeString(sub.Message)
	withBreaks := strings.ReplaceAll(escaped, "\n", "<br>")

	data := struct {
		SenderName  string
		SenderEmail string
		Subject     string
		MessageHTML template.HTML
	}{
		SenderName:  sub.SenderName,
		SenderEmail: sub.SenderEmail,
		Subject:     sub.Subject,
		MessageHTML: template.HTML(withBreaks),
	}

	var body bytes.Buffer
	if err := htmlTmpl.Execute(&body, data); err != nil {
		return "", err
	}
	return body.String(), nil
}
