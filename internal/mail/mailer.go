package mail

import (
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"chartitze/internal/config"
	"chartitze/internal/metrics"
)

// Sender delivers plain-text notification emails. Callers that must not block
// on SMTP should use SendAsync.
type Sender interface {
	Send(to, subject, body string) error
	SendAsync(to, subject, body string)
}

type Mailer struct {
	cfg config.SMTPCfg
}

func New(cfg config.SMTPCfg) *Mailer { return &Mailer{cfg: cfg} }

// Send delivers one message, retrying transient SMTP failures with
// exponential backoff for up to 30 seconds.
func (m *Mailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.Sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Pass)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	err := backoff.Retry(func() error { return d.DialAndSend(msg) }, bo)
	if err != nil {
		metrics.EmailsSent.WithLabelValues("error").Inc()
		return err
	}
	metrics.EmailsSent.WithLabelValues("ok").Inc()
	return nil
}

// SendAsync fires the send on a goroutine; failures are logged, never
// surfaced. Notification mail must not fail the request that triggered it.
func (m *Mailer) SendAsync(to, subject, body string) {
	go func() {
		if err := m.Send(to, subject, body); err != nil {
			log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("email send failed")
			return
		}
		log.Info().Str("to", to).Str("subject", subject).Msg("email sent")
	}()
}

// Disabled is a Sender that drops everything, for deployments without SMTP
// configured and for tests.
type Disabled struct{}

func (Disabled) Send(to, subject, body string) error { return nil }
func (Disabled) SendAsync(to, subject, body string)  {}
