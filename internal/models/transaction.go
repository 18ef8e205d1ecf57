package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/twobolsos/backend/internal/types"
	"gorm.io/gorm"
)

// DefaultTransactionTag is used for transactions recorded without a tag.
const DefaultTransactionTag = "Geral"

// TransactionType decides how a transaction contributes to the balance.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
	TypeNeutral TransactionType = "neutral"
)

var transactionTypeAliases = map[string]TransactionType{
	"income":  TypeIncome,
	"receita": TypeIncome,
	"expense": TypeExpense,
	"despesa": TypeExpense,
	"neutral": TypeNeutral,
	"neutro":  TypeNeutral,
}

// ParseTransactionType parses a transaction type. The Portuguese names used
// by the web client are accepted as aliases.
func ParseTransactionType(s string) (TransactionType, error) {
	t, ok := transactionTypeAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", Validation("the type must be one of income, expense or neutral, got %q", s)
	}
	return t, nil
}

// Transaction is one ledger entry of a wallet.
type Transaction struct {
	DefaultModel
	WalletID       uuid.UUID           `json:"negocio_id" gorm:"type:char(36);not null;index"`
	Wallet         Wallet              `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Type           TransactionType     `json:"tipo" gorm:"size:16;not null"`
	Amount         decimal.Decimal     `json:"valor" gorm:"type:DECIMAL(20,8);not null"`
	Description    string              `json:"descricao"`
	Date           types.Date          `json:"data" gorm:"not null;index"`
	Tag            string              `json:"tag"`
	Km             decimal.NullDecimal `json:"km" gorm:"type:DECIMAL(20,8)"`
	Liters         decimal.NullDecimal `json:"litros" gorm:"type:DECIMAL(20,8)"`
	PaymentMethod  string              `json:"forma_pagamento"`
	CreatedByID    uuid.UUID           `json:"created_by" gorm:"type:char(36);not null"`
	CreatedBy      User                `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
	FixedExpenseID *uuid.UUID          `json:"fixa_id,omitempty" gorm:"type:char(36);index"`
}

// BeforeSave normalizes and validates the transaction.
func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	t.Description = strings.TrimSpace(t.Description)
	t.Tag = strings.TrimSpace(t.Tag)
	t.PaymentMethod = strings.TrimSpace(t.PaymentMethod)

	if t.Tag == "" {
		t.Tag = DefaultTransactionTag
	}

	kind, err := ParseTransactionType(string(t.Type))
	if err != nil {
		return err
	}
	t.Type = kind

	if t.Amount.IsNegative() {
		return ErrAmountNegative
	}

	if (t.Km.Valid && t.Km.Decimal.IsNegative()) || (t.Liters.Valid && t.Liters.Decimal.IsNegative()) {
		return ErrMetricNegative
	}

	if t.Date.IsZero() {
		return Validation("the date must be set")
	}

	if t.FixedExpenseID != nil && *t.FixedExpenseID == uuid.Nil {
		t.FixedExpenseID = nil
	}

	return nil
}

// Signed returns the contribution of the transaction to the wallet balance.
func (t Transaction) Signed() decimal.Decimal {
	switch t.Type {
	case TypeIncome:
		return t.Amount
	case TypeExpense:
		return t.Amount.Neg()
	}

	return decimal.Zero
}
