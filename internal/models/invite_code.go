package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// InviteCodeLength is the number of characters in an invite code.
	InviteCodeLength = 6

	// InviteCodeAlphabet contains the characters codes are drawn from.
	InviteCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// InviteCodeTTL is how long an invite code can be redeemed.
	InviteCodeTTL = 24 * time.Hour
)

// InviteCode is a single-use token that grants editor membership on a wallet.
type InviteCode struct {
	DefaultModel
	Code         string     `json:"code" gorm:"size:6;not null;index"`
	WalletID     uuid.UUID  `json:"negocio_id" gorm:"type:char(36);not null;index"`
	Wallet       Wallet     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedByID  uuid.UUID  `json:"created_by" gorm:"type:char(36);not null"`
	ExpiresAt    time.Time  `json:"expires" gorm:"not null"`
	ConsumedByID *uuid.UUID `json:"consumed_by,omitempty" gorm:"type:char(36)"`
	ConsumedAt   *time.Time `json:"consumed_at,omitempty"`
}

// NormalizeInviteCode returns the canonical form of a code as typed by a user.
func NormalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidInviteCode reports whether code is a well-formed canonical code.
func ValidInviteCode(code string) bool {
	if len(code) != InviteCodeLength {
		return false
	}

	for _, r := range code {
		if !strings.ContainsRune(InviteCodeAlphabet, r) {
			return false
		}
	}

	return true
}

// Live reports whether the code can still be redeemed at now.
func (i InviteCode) Live(now time.Time) bool {
	return i.ConsumedByID == nil && now.Before(i.ExpiresAt)
}
