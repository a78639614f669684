package mail

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// consoleHistory bounds how many messages Sent can return
const consoleHistory = 100

// ConsoleMailer logs messages instead of sending them; used when no API key is configured
type ConsoleMailer struct {
	mu   sync.Mutex
	sent []Message
}

func NewConsoleMailer() *ConsoleMailer {
	return &ConsoleMailer{}
}

func (m *ConsoleMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	if len(m.sent) == consoleHistory {
		copy(m.sent, m.sent[1:])
		m.sent = m.sent[:consoleHistory-1]
	}
	m.sent = append(m.sent, msg)
	m.mu.Unlock()

	log.Info().Str("component", "mail").Str("to", msg.To).Str("subject", msg.Subject).Msg("Email (console)")
	return nil
}

// Sent returns a copy of the most recent messages handed to the mailer, oldest first
func (m *ConsoleMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}
