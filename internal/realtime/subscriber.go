package realtime

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// DefaultReconnectDelay is the time a Subscriber waits before reconnecting.
const DefaultReconnectDelay = 3 * time.Second

// Subscriber keeps a websocket connection to the hint endpoint open and
// reconnects after a fixed delay whenever it drops.
type Subscriber struct {
	// URL of the endpoint, e.g. ws://localhost:8000/ws/<user-id>?token=<token>
	URL string

	Delay  time.Duration
	Dialer *websocket.Dialer

	// OnHint is called for every frame that asks for a refetch
	OnHint func(hint string)
}

// Run connects and dispatches hints until ctx is done.
func (s *Subscriber) Run(ctx context.Context) error {
	delay := s.Delay
	if delay <= 0 {
		delay = DefaultReconnectDelay
	}

	for {
		err := s.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		log.Warn().Err(err).Dur("delay", delay).Msg("realtime connection lost, reconnecting")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// session runs a single connection until it fails.
func (s *Subscriber) session(ctx context.Context) error {
	dialer := s.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	ws, _, err := dialer.DialContext(ctx, s.URL, nil)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			ws.Close()
		case <-done:
		}
	}()
	defer ws.Close()

	log.Info().Str("url", redactToken(s.URL)).Msg("realtime connection established")

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return errors.New("server closed the connection")
			}
			return err
		}

		hint := string(data)
		if strings.Contains(hint, "UPDATE") && s.OnHint != nil {
			s.OnHint(hint)
		}
	}
}

func redactToken(url string) string {
	if i := strings.Index(url, "token="); i >= 0 {
		return url[:i] + "token=REDACTED"
	}
	return url
}
