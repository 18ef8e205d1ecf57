package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultWalletColor is used when a wallet is created without a color.
const DefaultWalletColor = "#0d6efd"

// WalletCategory selects which KPIs a wallet has.
type WalletCategory string

const (
	CategoryStandard WalletCategory = "STANDARD"
	CategoryDriver   WalletCategory = "DRIVER"
)

var walletCategoryAliases = map[string]WalletCategory{
	"STANDARD":  CategoryStandard,
	"PADRAO":    CategoryStandard,
	"DRIVER":    CategoryDriver,
	"MOTORISTA": CategoryDriver,
}

// ParseWalletCategory parses a category name. The Portuguese names used by
// the web client are accepted as aliases.
func ParseWalletCategory(s string) (WalletCategory, error) {
	c, ok := walletCategoryAliases[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return "", Validation("the category must be one of STANDARD or DRIVER, got %q", s)
	}
	return c, nil
}

// Wallet is a shared container of transactions.
type Wallet struct {
	DefaultModel
	Name     string         `json:"nome" gorm:"not null"`
	Category WalletCategory `json:"categoria" gorm:"size:16;not null"`
	Color    string         `json:"cor" gorm:"size:32"`
	OwnerID  uuid.UUID      `json:"owner_id" gorm:"type:char(36);not null;index"`
	Owner    User           `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
}

// BeforeSave normalizes and validates the wallet.
func (w *Wallet) BeforeSave(_ *gorm.DB) error {
	w.Name = strings.TrimSpace(w.Name)
	w.Color = strings.TrimSpace(w.Color)

	if w.Name == "" {
		return ErrNameEmpty
	}

	category, err := ParseWalletCategory(string(w.Category))
	if err != nil {
		return err
	}
	w.Category = category

	if w.Color == "" {
		w.Color = DefaultWalletColor
	}

	return nil
}

// IsDriver reports whether the wallet tracks distance and fuel.
func (w Wallet) IsDriver() bool {
	return w.Category == CategoryDriver
}
