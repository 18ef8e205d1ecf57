package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/twobolsos/backend/internal/authz"
	"github.com/twobolsos/backend/internal/models"
	"github.com/twobolsos/backend/internal/types"
	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

// UntaggedLabel groups expenses without a tag in the category breakdown.
const UntaggedLabel = "Outros"

// TransactionInput holds the fields of a transaction to record.
type TransactionInput struct {
	WalletID      uuid.UUID
	Type          models.TransactionType
	Amount        decimal.Decimal
	Description   string
	Date          types.Date // defaults to today
	Tag           string
	Km            decimal.NullDecimal
	Liters        decimal.NullDecimal
	PaymentMethod string
}

// Totals are sums over the full transaction history of a wallet.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Km      decimal.Decimal
	Liters  decimal.Decimal
}

// Balance is income minus expense. Neutral transactions never contribute.
func (t Totals) Balance() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

// Breakdown maps a tag to the summed expense amount.
type Breakdown map[string]decimal.Decimal

// Series is income and expense per calendar day, oldest first.
type Series struct {
	Labels  []types.Date
	Income  []decimal.Decimal
	Expense []decimal.Decimal
}

// RecordTransaction adds a transaction to a wallet.
func (s *Service) RecordTransaction(ctx context.Context, user uuid.UUID, in TransactionInput) (models.Transaction, error) {
	transaction := models.Transaction{
		WalletID:      in.WalletID,
		Type:          in.Type,
		Amount:        in.Amount,
		Description:   in.Description,
		Date:          in.Date,
		Tag:           in.Tag,
		Km:            in.Km,
		Liters:        in.Liters,
		PaymentMethod: in.PaymentMethod,
		CreatedByID:   user,
	}
	transaction.CreatedAt = s.now().UTC()

	if transaction.Date.IsZero() {
		transaction.Date = s.Today()
	}

	err := s.withWalletLock(in.WalletID, func() error {
		if _, err := s.guard.Authorize(ctx, user, in.WalletID, authz.ActionWrite); err != nil {
			return err
		}

		return s.db.WithContext(ctx).Create(&transaction).Error
	})
	if err != nil {
		return models.Transaction{}, err
	}

	s.notifier.NotifyWalletMembers(ctx, in.WalletID, HintDashboard)
	return transaction, nil
}

// DeleteTransaction removes a transaction from its wallet.
func (s *Service) DeleteTransaction(ctx context.Context, user, id uuid.UUID) error {
	var transaction models.Transaction
	if err := s.db.WithContext(ctx).First(&transaction, "id = ?", id).Error; err != nil {
		return err
	}

	err := s.withWalletLock(transaction.WalletID, func() error {
		if _, err := s.guard.Authorize(ctx, user, transaction.WalletID, authz.ActionWrite); err != nil {
			return err
		}

		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Where("id = ?", id).Delete(&models.Transaction{})
			if res.Error != nil {
				return res.Error
			}

			// Deleted concurrently while waiting for the lock
			if res.RowsAffected == 0 {
				return models.NotFound("there is no transaction matching your query")
			}

			// The payment itself stays, months are never unpaid
			return tx.Model(&models.FixedExpensePayment{}).
				Where("transaction_id = ?", id).
				Update("transaction_id", nil).Error
		})
	})
	if err != nil {
		return err
	}

	s.notifier.NotifyWalletMembers(ctx, transaction.WalletID, HintDashboard)
	return nil
}

// Totals sums the full transaction history of a wallet.
func (s *Service) Totals(ctx context.Context, wallet uuid.UUID) (Totals, error) {
	var transactions []models.Transaction
	err := s.db.WithContext(ctx).
		Select("type", "amount", "km", "liters").
		Where("wallet_id = ?", wallet).
		Find(&transactions).Error
	if err != nil {
		return Totals{}, err
	}

	totals := Totals{
		Income:  decimal.Zero,
		Expense: decimal.Zero,
		Km:      decimal.Zero,
		Liters:  decimal.Zero,
	}

	for _, t := range transactions {
		switch t.Type {
		case models.TypeIncome:
			totals.Income = totals.Income.Add(t.Amount)
		case models.TypeExpense:
			totals.Expense = totals.Expense.Add(t.Amount)
		}

		if t.Km.Valid {
			totals.Km = totals.Km.Add(t.Km.Decimal)
		}

		if t.Liters.Valid {
			totals.Liters = totals.Liters.Add(t.Liters.Decimal)
		}
	}

	return totals, nil
}

// Balance returns income minus expense over all transactions of a wallet.
// It is recomputed from the transactions on every call.
func (s *Service) Balance(ctx context.Context, wallet uuid.UUID) (decimal.Decimal, error) {
	totals, err := s.Totals(ctx, wallet)
	if err != nil {
		return decimal.Zero, err
	}

	return totals.Balance(), nil
}

// window returns the first and last day of a window ending today.
func (s *Service) window(windowDays int) (types.Date, types.Date, error) {
	if windowDays < 1 {
		return types.Date{}, types.Date{}, models.Validation("the window must be at least one day, got %d", windowDays)
	}

	if windowDays > MaxWindowDays {
		return types.Date{}, types.Date{}, models.Validation("the window must be at most %d days, got %d", MaxWindowDays, windowDays)
	}

	today := s.Today()
	return today.AddDays(-windowDays), today, nil
}

// Statement returns the transactions dated within the last windowDays days,
// most recent first.
func (s *Service) Statement(ctx context.Context, wallet uuid.UUID, windowDays int) ([]models.Transaction, error) {
	start, end, err := s.window(windowDays)
	if err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	err = s.db.WithContext(ctx).
		Preload("CreatedBy").
		Where("wallet_id = ? AND date >= ? AND date <= ?", wallet, start, end).
		Order("date DESC, created_at DESC").
		Find(&transactions).Error

	return transactions, err
}

// CategoryBreakdown sums expenses dated within the last windowDays days per tag.
//
// Tags that differ only in case are grouped under the most recently used spelling.
func (s *Service) CategoryBreakdown(ctx context.Context, wallet uuid.UUID, windowDays int) (Breakdown, error) {
	start, end, err := s.window(windowDays)
	if err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	err = s.db.WithContext(ctx).
		Select("tag", "amount").
		Where("wallet_id = ? AND type = ? AND date >= ? AND date <= ?", wallet, models.TypeExpense, start, end).
		Order("date DESC, created_at DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	fold := cases.Fold()
	labels := make(map[string]string)
	breakdown := make(Breakdown)

	for _, t := range transactions {
		tag := t.Tag
		if tag == "" {
			tag = UntaggedLabel
		}

		key := fold.String(tag)
		label, ok := labels[key]
		if !ok {
			label = tag
			labels[key] = label
		}

		breakdown[label] = breakdown[label].Add(t.Amount)
	}

	return breakdown, nil
}

// TimeSeries returns income and expense per day for every day from
// windowDays days ago up to and including today. Days without
// transactions are zero.
func (s *Service) TimeSeries(ctx context.Context, wallet uuid.UUID, windowDays int) (Series, error) {
	start, today, err := s.window(windowDays)
	if err != nil {
		return Series{}, err
	}

	var transactions []models.Transaction
	err = s.db.WithContext(ctx).
		Select("type", "amount", "date").
		Where("wallet_id = ? AND date >= ? AND date <= ?", wallet, start, today).
		Find(&transactions).Error
	if err != nil {
		return Series{}, err
	}

	days := int(today.Time().Sub(start.Time()).Hours()/24) + 1
	series := Series{
		Labels:  make([]types.Date, days),
		Income:  make([]decimal.Decimal, days),
		Expense: make([]decimal.Decimal, days),
	}

	for i := range days {
		series.Labels[i] = start.AddDays(i)
		series.Income[i] = decimal.Zero
		series.Expense[i] = decimal.Zero
	}

	for _, t := range transactions {
		i := int(t.Date.Time().Sub(start.Time()).Hours() / 24)
		if i < 0 || i >= days {
			continue
		}

		switch t.Type {
		case models.TypeIncome:
			series.Income[i] = series.Income[i].Add(t.Amount)
		case models.TypeExpense:
			series.Expense[i] = series.Expense[i].Add(t.Amount)
		}
	}

	return series, nil
}
