package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/twobolsos/backend/internal/models"
	"golang.org/x/sync/errgroup"
)

// Dashboard is the aggregated view of one wallet.
type Dashboard struct {
	Wallet    models.Wallet
	Role      models.Role
	KPIs      KPIs
	Statement []models.Transaction
	Series    Series
	Breakdown Breakdown
}

// KPIs are computed over the full history of the wallet.
type KPIs struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
	Driver  *DriverKPIs // only set for DRIVER wallets
}

// DriverKPIs are the vehicle metrics of a DRIVER wallet.
type DriverKPIs struct {
	TotalKm     decimal.Decimal
	TotalLiters decimal.Decimal
	Autonomy    decimal.Decimal // km per liter
	Yield       decimal.Decimal // balance per km
}

// DriverMetrics computes the vehicle metrics from wallet totals. A ratio
// with a zero denominator is zero.
func DriverMetrics(t Totals) DriverKPIs {
	metrics := DriverKPIs{
		TotalKm:     t.Km,
		TotalLiters: t.Liters,
		Autonomy:    decimal.Zero,
		Yield:       decimal.Zero,
	}

	if !t.Liters.IsZero() {
		metrics.Autonomy = t.Km.Div(t.Liters).Round(2)
	}

	if !t.Km.IsZero() {
		metrics.Yield = t.Balance().Div(t.Km).Round(2)
	}

	return metrics
}

// Dashboard aggregates KPIs, statement, daily series and category breakdown
// of a wallet. The statement, series and breakdown cover the last windowDays days.
func (s *Service) Dashboard(ctx context.Context, user, walletID uuid.UUID, windowDays int) (Dashboard, error) {
	wallet, role, err := s.Wallet(ctx, user, walletID)
	if err != nil {
		return Dashboard{}, err
	}

	if _, _, err := s.window(windowDays); err != nil {
		return Dashboard{}, err
	}

	dashboard := Dashboard{
		Wallet: wallet,
		Role:   role,
	}

	var totals Totals
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		totals, err = s.Totals(ctx, walletID)
		return
	})

	g.Go(func() (err error) {
		dashboard.Statement, err = s.Statement(ctx, walletID, windowDays)
		return
	})

	g.Go(func() (err error) {
		dashboard.Series, err = s.TimeSeries(ctx, walletID, windowDays)
		return
	})

	g.Go(func() (err error) {
		dashboard.Breakdown, err = s.CategoryBreakdown(ctx, walletID, windowDays)
		return
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	dashboard.KPIs = KPIs{
		Income:  totals.Income,
		Expense: totals.Expense,
		Balance: totals.Balance(),
	}

	if wallet.IsDriver() {
		metrics := DriverMetrics(totals)
		dashboard.KPIs.Driver = &metrics
	}

	return dashboard, nil
}
