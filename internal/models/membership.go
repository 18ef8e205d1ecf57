package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the permission level of a user on a wallet.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// ParseRole parses a role name.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleOwner, RoleEditor, RoleViewer:
		return r, nil
	}

	return "", Validation("the role must be one of owner, editor or viewer, got %q", s)
}

// Membership grants a user a role on a wallet.
type Membership struct {
	WalletID  uuid.UUID `json:"wallet_id" gorm:"type:char(36);primaryKey"`
	Wallet    Wallet    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);primaryKey;index"`
	User      User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Role      Role      `json:"role" gorm:"size:16;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// MemberIDs returns the IDs of all users with a membership on the wallet.
func MemberIDs(ctx context.Context, db *gorm.DB, walletID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.WithContext(ctx).
		Model(&Membership{}).
		Where(&Membership{WalletID: walletID}).
		Order("created_at").
		Pluck("user_id", &ids).Error

	return ids, err
}
