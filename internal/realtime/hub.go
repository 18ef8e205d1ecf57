// Package realtime pushes change hints to connected clients.
//
// Hints are opaque strings like "UPDATE_DASHBOARD". They tell a client to
// refetch a view and never carry state. Delivery is best effort: hints for
// users without a connection, or whose connection is not keeping up, are
// dropped.
package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// DefaultBufferSize is the number of undelivered hints a connection holds
// before further hints are dropped.
const DefaultBufferSize = 16

// publishTimeout bounds how long a mutation waits for the relay.
const publishTimeout = 2 * time.Second

var connectionCount = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "realtime_connections",
		Help: "How many realtime connections are currently open.",
	},
)

var hintCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "realtime_hints_total",
		Help: "How many hints were handed to connections, partitioned by result.",
	},
	[]string{"result"},
)

// Collectors returns the Prometheus metrics of the package.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{connectionCount, hintCount}
}

// MemberLookup resolves the members of a wallet.
type MemberLookup interface {
	MemberIDs(ctx context.Context, wallet uuid.UUID) ([]uuid.UUID, error)
}

// MemberLookupFunc adapts a function to MemberLookup.
type MemberLookupFunc func(ctx context.Context, wallet uuid.UUID) ([]uuid.UUID, error)

func (f MemberLookupFunc) MemberIDs(ctx context.Context, wallet uuid.UUID) ([]uuid.UUID, error) {
	return f(ctx, wallet)
}

// Relay fans hints out to every backend instance, including this one.
type Relay interface {
	Publish(ctx context.Context, hint string, users []uuid.UUID) error
}

// Conn is one registered connection of a user.
type Conn struct {
	user uuid.UUID
	send chan string
}

// User returns the user the connection belongs to.
func (c *Conn) User() uuid.UUID {
	return c.user
}

// Hints returns the channel hints for the connection arrive on. It is
// closed when the connection is unregistered.
func (c *Conn) Hints() <-chan string {
	return c.send
}

// Hub is the registry of live connections.
type Hub struct {
	mu     sync.RWMutex
	conns  map[uuid.UUID]map[*Conn]struct{}
	lookup MemberLookup
	relay  Relay
	buffer int
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithRelay publishes hints through relay instead of delivering them locally.
// The relay must hand received hints to Deliver.
func WithRelay(relay Relay) HubOption {
	return func(h *Hub) {
		h.relay = relay
	}
}

// WithBufferSize sets the number of hints a connection buffers.
func WithBufferSize(n int) HubOption {
	return func(h *Hub) {
		h.buffer = n
	}
}

// NewHub returns a Hub resolving wallet members with lookup.
func NewHub(lookup MemberLookup, opts ...HubOption) *Hub {
	h := &Hub{
		conns:  make(map[uuid.UUID]map[*Conn]struct{}),
		lookup: lookup,
		buffer: DefaultBufferSize,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Register adds a connection for user. A user may have any number of
// connections.
func (h *Hub) Register(user uuid.UUID) *Conn {
	c := &Conn{user: user, send: make(chan string, h.buffer)}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.conns[user] == nil {
		h.conns[user] = make(map[*Conn]struct{})
	}
	h.conns[user][c] = struct{}{}
	connectionCount.Inc()

	return c
}

// Unregister removes a connection and closes its hint channel. Unregistering
// a connection twice is a no-op.
func (h *Hub) Unregister(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.conns[c.user]
	if !ok {
		return
	}

	if _, ok := conns[c]; !ok {
		return
	}

	delete(conns, c)
	if len(conns) == 0 {
		delete(h.conns, c.user)
	}

	close(c.send)
	connectionCount.Dec()
}

// Close unregisters all connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for user, conns := range h.conns {
		for c := range conns {
			close(c.send)
			connectionCount.Dec()
		}
		delete(h.conns, user)
	}
}

// Connections returns the number of registered connections.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, conns := range h.conns {
		n += len(conns)
	}

	return n
}

// NotifyUsers sends hint to every connection of the users.
func (h *Hub) NotifyUsers(ctx context.Context, hint string, users ...uuid.UUID) {
	if len(users) == 0 {
		return
	}

	if h.relay != nil {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()

		err := h.relay.Publish(ctx, hint, users)
		if err == nil {
			return
		}

		log.Warn().Err(err).Str("hint", hint).Msg("relay publish failed, delivering locally")
	}

	h.Deliver(hint, users)
}

// NotifyWalletMembers sends hint to every connection of every member of
// wallet, except the excluded users.
func (h *Hub) NotifyWalletMembers(ctx context.Context, wallet uuid.UUID, hint string, exclude ...uuid.UUID) {
	members, err := h.lookup.MemberIDs(ctx, wallet)
	if err != nil {
		log.Warn().Err(err).Str("wallet", wallet.String()).Str("hint", hint).Msg("could not resolve wallet members, hint dropped")
		return
	}

	users := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		excluded := false
		for _, e := range exclude {
			if m == e {
				excluded = true
				break
			}
		}

		if !excluded {
			users = append(users, m)
		}
	}

	h.NotifyUsers(ctx, hint, users...)
}

// Deliver hands hint to the local connections of users without blocking.
func (h *Hub) Deliver(hint string, users []uuid.UUID) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, user := range users {
		for c := range h.conns[user] {
			select {
			case c.send <- hint:
				hintCount.WithLabelValues("delivered").Inc()
			default:
				hintCount.WithLabelValues("dropped").Inc()
				log.Debug().Str("user", user.String()).Str("hint", hint).Msg("connection buffer full, hint dropped")
			}
		}
	}
}
