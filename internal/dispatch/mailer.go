package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/textproto"
	"strings"

	"github.com/wneessen/go-mail"

	"herdscope/internal/config"
	apperrors "herdscope/pkg/errors"
)

var (
	// ErrInvalidAddress marks a recipient or sender address that cannot be parsed
	ErrInvalidAddress = errors.New("invalid address")

	// ErrAuthFailed marks a rejected SMTP login
	ErrAuthFailed = errors.New("auth failed")
)

// Message is one email addressed to a single recipient
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a single message
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers mail over implicit TLS with PLAIN auth, opening one
// connection per message.
type SMTPSender struct {
	cfg config.SMTPConfig
}

// NewSMTPSender returns an Unavailable error when credentials are missing.
func NewSMTPSender(cfg config.SMTPConfig) (*SMTPSender, error) {
	if !cfg.Enabled() {
		return nil, apperrors.NewUnavailableError("email credentials are not configured")
	}
	return &SMTPSender{cfg: cfg}, nil
}

// Send implements Sender.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()
	if err := m.From(s.cfg.Username); err != nil {
		return fmt.Errorf("%w: sender %q", ErrInvalidAddress, s.cfg.Username)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, msg.To)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
		mail.WithTimeout(s.cfg.Timeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		if isAuthError(err) {
			return fmt.Errorf("%w: %v", ErrAuthFailed, err)
		}
		return err
	}
	return nil
}

// isAuthError detects 530/534/535 replies to AUTH.
func isAuthError(err error) bool {
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		switch protoErr.Code {
		case 530, 534, 535:
			return true
		}
	}
	return strings.Contains(err.Error(), "SMTP AUTH failed")
}
