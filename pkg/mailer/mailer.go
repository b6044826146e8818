package mailer

import (
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail"
	"github.com/rs/zerolog"
)

// Config contains the SMTP credentials used for transactional email.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// InviteParams describe an admin invitation email.
type InviteParams struct {
	To               string
	OrganizationName string
	InviterName      string
	RoleLabel        string
	AcceptURL        string
}

// Mailer delivers invitation and verification emails. Callers treat delivery
// as best-effort: a send failure must not fail the operation that issued the
// underlying record.
type Mailer interface {
	SendInvite(params InviteParams) error
	SendOtp(to, code string) error
}

// Service implements Mailer over SMTP.
type Service struct {
	cfg    Config
	logger zerolog.Logger
}

// New constructs an SMTP mailer.
func New(cfg Config, logger zerolog.Logger) (*Service, error) {
	if cfg.Host == "" || cfg.From == "" {
		return nil, fmt.Errorf("smtp host and from address must be provided")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}

	return &Service{
		cfg:    cfg,
		logger: logger.With().Str("component", "mailer").Logger(),
	}, nil
}

// SendInvite delivers the invitation email with the accept link.
func (s *Service) SendInvite(params InviteParams) error {
	subject := fmt.Sprintf("You're invited to join %s on Transify", params.OrganizationName)
	return s.send(params.To, subject, inviteHTML(params))
}

// SendOtp delivers the one-time verification code.
func (s *Service) SendOtp(to, code string) error {
	subject := fmt.Sprintf("%s is your Transify verification code", code)
	return s.send(to, subject, otpHTML(code))
}

func (s *Service) send(to, subject, html string) error {
	m := mail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%q <%s>", "Transify", s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := mail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: s.cfg.Host}

	if err := d.DialAndSend(m); err != nil {
		s.logger.Error().Err(err).Str("to", to).Msg("smtp send failed")
		return fmt.Errorf("smtp send: %w", err)
	}

	s.logger.Info().Str("to", to).Str("subject", subject).Msg("email sent")
	return nil
}
