package mail

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const maxAttempts = 2

// Dispatcher delivers messages in the background. Each attempt is bounded by
// timeout and a failed delivery is retried once; the final failure is only logged.
type Dispatcher struct {
	mailer  Mailer
	timeout time.Duration
	backoff time.Duration
	wg      sync.WaitGroup
	log     zerolog.Logger
}

func NewDispatcher(mailer Mailer, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		mailer:  mailer,
		timeout: timeout,
		backoff: 500 * time.Millisecond,
		log:     log.With().Str("component", "mail").Logger(),
	}
}

// Dispatch queues msg and returns immediately
func (d *Dispatcher) Dispatch(msg Message) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.deliver(msg)
	}()
}

// Wait blocks until every dispatched message has been delivered or given up on
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) deliver(msg Message) {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err = d.mailer.Send(ctx, msg)
		cancel()
		if err == nil {
			d.log.Debug().Str("to", msg.To).Str("subject", msg.Subject).Int("attempt", attempt).Msg("Email sent")
			return
		}
		d.log.Warn().Err(err).Str("to", msg.To).Int("attempt", attempt).Msg("Email delivery failed")
		if attempt < maxAttempts {
			time.Sleep(d.backoff)
		}
	}
	d.log.Error().Err(err).Str("to", msg.To).Str("subject", msg.Subject).Msg("Giving up on email")
}
