package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/twobolsos/backend/internal/types"
	"gorm.io/gorm"
)

// DefaultFixedExpenseTag is used for fixed expenses created without a tag.
const DefaultFixedExpenseTag = "Fixas"

// FixedExpense is a recurring monthly obligation of a wallet.
type FixedExpense struct {
	DefaultModel
	WalletID       uuid.UUID       `json:"negocio_id" gorm:"type:char(36);not null;index"`
	Wallet         Wallet          `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Name           string          `json:"nome" gorm:"not null"`
	Amount         decimal.Decimal `json:"valor" gorm:"type:DECIMAL(20,8);not null"`
	Tag            string          `json:"tag"`
	DueDay         int             `json:"dia_vencimento"`
	DurationMonths *int            `json:"duracao_meses"` // nil means the expense recurs indefinitely
}

// BeforeSave normalizes and validates the fixed expense.
func (f *FixedExpense) BeforeSave(_ *gorm.DB) error {
	f.Name = strings.TrimSpace(f.Name)
	f.Tag = strings.TrimSpace(f.Tag)

	if f.Name == "" {
		return ErrNameEmpty
	}

	if f.Tag == "" {
		f.Tag = DefaultFixedExpenseTag
	}

	if f.Amount.IsNegative() {
		return ErrAmountNegative
	}

	if f.DueDay == 0 {
		f.DueDay = 1
	}

	if f.DueDay < 1 || f.DueDay > 31 {
		return ErrDueDayRange
	}

	if f.DurationMonths != nil && *f.DurationMonths < 1 {
		return ErrDurationInvalid
	}

	return nil
}

// FirstMonth is the month in which the expense was created, in loc.
func (f FixedExpense) FirstMonth(loc *time.Location) types.Month {
	return types.MonthOf(f.CreatedAt.In(loc))
}

// ActiveIn reports whether the expense is due in month.
//
// Expenses without a duration are active in every month. With a duration of n,
// the expense is active in the month it was created and the n-1 months after.
func (f FixedExpense) ActiveIn(month types.Month, loc *time.Location) bool {
	if f.DurationMonths == nil {
		return true
	}

	first := f.FirstMonth(loc)
	end := first.AddDate(0, *f.DurationMonths)

	return !month.Before(first) && month.Before(end)
}

// FixedExpensePayment records the settlement of a fixed expense for one month.
type FixedExpensePayment struct {
	FixedExpenseID uuid.UUID    `json:"fixa_id" gorm:"type:char(36);primaryKey"`
	FixedExpense   FixedExpense `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	YearMonth      types.Month  `json:"mes" gorm:"primaryKey"`
	PaidAt         time.Time    `json:"paid_at"`
	PaidByID       uuid.UUID    `json:"paid_by" gorm:"type:char(36);not null"`
	PaidBy         User         `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
	TransactionID  *uuid.UUID   `json:"transacao_id,omitempty" gorm:"type:char(36)"`
}
