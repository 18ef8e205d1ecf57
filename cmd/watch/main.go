// watch prints the change hints the backend pushes to a user.
//
// It connects to the websocket endpoint and reconnects whenever the
// connection drops, which makes it useful to verify that a deployment
// delivers hints.
package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/twobolsos/backend/internal/realtime"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	base := pflag.StringP("url", "u", "ws://localhost:8000/ws", "URL of the websocket endpoint")
	user := pflag.String("user", "", "ID of the user to watch")
	token := pflag.StringP("token", "t", os.Getenv("TWOBOLSOS_TOKEN"), "access token of the user, defaults to $TWOBOLSOS_TOKEN")
	delay := pflag.Duration("delay", realtime.DefaultReconnectDelay, "time to wait before reconnecting")
	pflag.Parse()

	endpoint, err := endpointURL(*base, *user, *token)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		pflag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	subscriber := &realtime.Subscriber{
		URL:   endpoint,
		Delay: *delay,
		OnHint: func(hint string) {
			log.Info().Str("hint", hint).Msg("refetch")
		},
	}

	_ = subscriber.Run(ctx)
}

// endpointURL builds the URL for the hints of user.
func endpointURL(base, user, token string) (string, error) {
	id, err := uuid.Parse(user)
	if err != nil {
		return "", fmt.Errorf("--user must be a user ID: %w", err)
	}

	u, err := url.Parse(strings.TrimSuffix(base, "/") + "/" + id.String())
	if err != nil {
		return "", fmt.Errorf("invalid --url: %w", err)
	}

	if u.Scheme != "ws" && u.Scheme != "wss" {
		return "", fmt.Errorf("--url must use ws or wss, got %q", u.Scheme)
	}

	if token != "" {
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}
