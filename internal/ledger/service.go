// Package ledger implements the shared wallets of TwoBolsos: wallets and
// their members, the transaction ledger, recurring fixed expenses, invite
// codes and the dashboard aggregation.
//
// Every mutation is authorized by an authz.Guard, serialized per wallet and
// followed by a change hint to the wallet's members.
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/twobolsos/backend/internal/authz"
	"github.com/twobolsos/backend/internal/types"
	"gorm.io/gorm"
)

// Change hints sent to connected clients. Clients refetch the named view.
const (
	HintDashboard = "UPDATE_DASHBOARD"
	HintList      = "UPDATE_LIST"
)

// MaxWindowDays bounds the statement and chart window. Larger windows are rejected.
const MaxWindowDays = 3660

// Notifier delivers change hints. Delivery is best effort and never fails
// the mutation that triggered it.
type Notifier interface {
	NotifyWalletMembers(ctx context.Context, wallet uuid.UUID, hint string, exclude ...uuid.UUID)
	NotifyUsers(ctx context.Context, hint string, users ...uuid.UUID)
}

type nopNotifier struct{}

func (nopNotifier) NotifyWalletMembers(context.Context, uuid.UUID, string, ...uuid.UUID) {}
func (nopNotifier) NotifyUsers(context.Context, string, ...uuid.UUID)                    {}

// Service implements all ledger operations.
type Service struct {
	db       *gorm.DB
	guard    *authz.Guard
	notifier Notifier
	locks    *lockTable
	now      func() time.Time
	loc      *time.Location
	codes    func() (string, error)
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLocation sets the time zone that defines "today" and "this month".
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		s.loc = loc
	}
}

// WithInviteCodes replaces the invite code generator.
func WithInviteCodes(generate func() (string, error)) Option {
	return func(s *Service) {
		s.codes = generate
	}
}

// New returns a Service storing its data in db and sending hints to notifier.
// A nil notifier discards all hints.
func New(db *gorm.DB, notifier Notifier, opts ...Option) *Service {
	if notifier == nil {
		notifier = nopNotifier{}
	}

	s := &Service{
		db:       db,
		guard:    authz.New(db),
		notifier: notifier,
		locks:    newLockTable(),
		now:      time.Now,
		loc:      time.UTC,
		codes:    newInviteCode,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Today returns the current calendar day.
func (s *Service) Today() types.Date {
	return types.DateOf(s.now().In(s.loc))
}

// ThisMonth returns the current calendar month.
func (s *Service) ThisMonth() types.Month {
	return types.MonthOf(s.now().In(s.loc))
}

// withWalletLock runs fn while holding the mutation lock of wallet.
func (s *Service) withWalletLock(wallet uuid.UUID, fn func() error) error {
	unlock := s.locks.lock(wallet)
	defer unlock()
	return fn()
}
