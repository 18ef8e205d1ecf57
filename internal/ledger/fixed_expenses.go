package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/twobolsos/backend/internal/authz"
	"github.com/twobolsos/backend/internal/models"
	"github.com/twobolsos/backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FixedExpenseInput holds the fields of a fixed expense to create.
type FixedExpenseInput struct {
	WalletID       uuid.UUID
	Name           string
	Amount         decimal.Decimal
	Tag            string
	DueDay         int
	DurationMonths *int
}

// FixedExpenseStatus is a fixed expense active in a month and whether it
// has been paid for that month.
type FixedExpenseStatus struct {
	models.FixedExpense
	Paid bool
}

// CreateFixedExpense adds a recurring monthly expense to a wallet.
func (s *Service) CreateFixedExpense(ctx context.Context, user uuid.UUID, in FixedExpenseInput) (models.FixedExpense, error) {
	expense := models.FixedExpense{
		WalletID:       in.WalletID,
		Name:           in.Name,
		Amount:         in.Amount,
		Tag:            in.Tag,
		DueDay:         in.DueDay,
		DurationMonths: in.DurationMonths,
	}
	expense.CreatedAt = s.now().UTC()

	err := s.withWalletLock(in.WalletID, func() error {
		if _, err := s.guard.Authorize(ctx, user, in.WalletID, authz.ActionWrite); err != nil {
			return err
		}

		return s.db.WithContext(ctx).Create(&expense).Error
	})
	if err != nil {
		return models.FixedExpense{}, err
	}

	s.notifier.NotifyWalletMembers(ctx, in.WalletID, HintDashboard)
	return expense, nil
}

// FixedExpense returns a fixed expense by ID without any authorization.
func (s *Service) FixedExpense(ctx context.Context, id uuid.UUID) (models.FixedExpense, error) {
	var expense models.FixedExpense
	err := s.db.WithContext(ctx).First(&expense, "id = ?", id).Error
	return expense, err
}

// DeleteFixedExpense removes a fixed expense and its payment records. The
// transactions created by paying it are kept and lose their link.
func (s *Service) DeleteFixedExpense(ctx context.Context, user, id uuid.UUID) error {
	expense, err := s.FixedExpense(ctx, id)
	if err != nil {
		return err
	}

	err = s.withWalletLock(expense.WalletID, func() error {
		if _, err := s.guard.Authorize(ctx, user, expense.WalletID, authz.ActionWrite); err != nil {
			return err
		}

		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			// UpdateColumn skips the transaction hooks, which validate a full row
			err := tx.Model(&models.Transaction{}).
				Where("fixed_expense_id = ?", id).
				UpdateColumn("fixed_expense_id", nil).Error
			if err != nil {
				return err
			}

			if err := tx.Where("fixed_expense_id = ?", id).Delete(&models.FixedExpensePayment{}).Error; err != nil {
				return err
			}

			res := tx.Where("id = ?", id).Delete(&models.FixedExpense{})
			if res.Error != nil {
				return res.Error
			}

			if res.RowsAffected == 0 {
				return models.NotFound("there is no fixed expense matching your query")
			}

			return nil
		})
	})
	if err != nil {
		return err
	}

	s.notifier.NotifyWalletMembers(ctx, expense.WalletID, HintDashboard)
	return nil
}

// ListFixedExpenses returns the fixed expenses of a wallet that are active in
// month, ordered by due day. The zero month selects the current month.
func (s *Service) ListFixedExpenses(ctx context.Context, user, wallet uuid.UUID, month types.Month) ([]FixedExpenseStatus, error) {
	if _, err := s.guard.Authorize(ctx, user, wallet, authz.ActionRead); err != nil {
		return nil, err
	}

	if month.IsZero() {
		month = s.ThisMonth()
	}

	var expenses []models.FixedExpense
	err := s.db.WithContext(ctx).
		Where("wallet_id = ?", wallet).
		Order("due_day, name").
		Find(&expenses).Error
	if err != nil {
		return nil, err
	}

	active := make([]models.FixedExpense, 0, len(expenses))
	ids := make([]uuid.UUID, 0, len(expenses))
	for _, e := range expenses {
		if e.ActiveIn(month, s.loc) {
			active = append(active, e)
			ids = append(ids, e.ID)
		}
	}

	paid := make(map[uuid.UUID]bool, len(ids))
	if len(ids) > 0 {
		var payments []models.FixedExpensePayment
		err := s.db.WithContext(ctx).
			Where("fixed_expense_id IN ? AND year_month = ?", ids, month).
			Find(&payments).Error
		if err != nil {
			return nil, err
		}

		for _, p := range payments {
			paid[p.FixedExpenseID] = true
		}
	}

	statuses := make([]FixedExpenseStatus, 0, len(active))
	for _, e := range active {
		statuses = append(statuses, FixedExpenseStatus{FixedExpense: e, Paid: paid[e.ID]})
	}

	return statuses, nil
}

// MarkPaid settles a fixed expense for month and records the matching
// expense transaction. The zero month selects the current month.
//
// Paying a month that is already paid returns the existing payment and
// records nothing.
func (s *Service) MarkPaid(ctx context.Context, user, id uuid.UUID, month types.Month) (models.FixedExpensePayment, error) {
	expense, err := s.FixedExpense(ctx, id)
	if err != nil {
		return models.FixedExpensePayment{}, err
	}

	if month.IsZero() {
		month = s.ThisMonth()
	}

	var (
		payment models.FixedExpensePayment
		created bool
	)

	err = s.withWalletLock(expense.WalletID, func() error {
		if _, err := s.guard.Authorize(ctx, user, expense.WalletID, authz.ActionWrite); err != nil {
			return err
		}

		if !expense.ActiveIn(month, s.loc) {
			return models.NotFound("fixed expense %q is not due in %s", expense.Name, month)
		}

		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			now := s.now().UTC()
			transactionID := uuid.New()

			payment = models.FixedExpensePayment{
				FixedExpenseID: expense.ID,
				YearMonth:      month,
				PaidAt:         now,
				PaidByID:       user,
				TransactionID:  &transactionID,
			}

			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&payment)
			if res.Error != nil {
				return res.Error
			}

			if res.RowsAffected == 0 {
				return tx.Where("fixed_expense_id = ? AND year_month = ?", expense.ID, month).First(&payment).Error
			}

			date := month.FirstDay()
			if today := s.Today(); month.Contains(today) {
				date = today
			}

			fixedExpenseID := expense.ID
			transaction := models.Transaction{
				WalletID:       expense.WalletID,
				Type:           models.TypeExpense,
				Amount:         expense.Amount,
				Description:    paymentDescription(expense.Name, month),
				Date:           date,
				Tag:            expense.Tag,
				CreatedByID:    user,
				FixedExpenseID: &fixedExpenseID,
			}
			transaction.ID = transactionID
			transaction.CreatedAt = now

			created = true
			return tx.Create(&transaction).Error
		})
	})
	if err != nil {
		return models.FixedExpensePayment{}, err
	}

	if created {
		s.notifier.NotifyWalletMembers(ctx, expense.WalletID, HintDashboard)
	}

	return payment, nil
}

// paymentDescription is the description of the transaction recorded for a payment.
func paymentDescription(name string, month types.Month) string {
	return fmt.Sprintf("%s (Ref: %02d/%04d)", name, month.Time().Month(), month.Time().Year())
}
