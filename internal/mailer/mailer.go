// Package mailer delivers plain-text notification emails through a
// configurable transport.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/stemsi/unirecords-backend/internal/config"
)

var ErrNoRecipient = errors.New("mailer: message has no recipient")

// Message is a single plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends messages. Implementations must be safe for concurrent use.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns the transport selected by cfg.Mail.Driver.
func New(cfg *config.Config, log zerolog.Logger) (Mailer, error) {
	switch cfg.Mail.Driver {
	case config.MailDriverSMTP:
		return NewSMTPMailer(cfg.Mail), nil
	case config.MailDriverSendGrid:
		if cfg.Mail.SendGridAPIKey == "" {
			return nil, errors.New("mailer: SENDGRID_API_KEY is required for the sendgrid driver")
		}
		return NewSendGridMailer(cfg.Mail.SendGridAPIKey, cfg.AppName, cfg.Mail.DefaultSender), nil
	case config.MailDriverLog, "":
		return NewLogMailer(log), nil
	default:
		return nil, fmt.Errorf("mailer: unknown driver %q", cfg.Mail.Driver)
	}
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log.With().Str("component", "mailer").Logger()}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	m.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("Email (log driver)")
	return nil
}

// Recorder keeps sent messages in memory. Setting Err makes every Send fail.
type Recorder struct {
	mu   sync.Mutex
	sent []Message
	Err  error
}

func (r *Recorder) Send(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.sent = append(r.sent, msg)
	return nil
}

// Sent returns a copy of the recorded messages.
func (r *Recorder) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.sent))
	copy(out, r.sent)
	return out
}
