// Package authz decides which members of a wallet may perform which actions.
package authz

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/twobolsos/backend/internal/models"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// Action is something a user can do on a wallet.
type Action string

const (
	ActionRead           Action = "read"
	ActionWrite          Action = "write"
	ActionDeleteWallet   Action = "delete-wallet"
	ActionManageMembers  Action = "manage-members"
	ActionGenerateInvite Action = "generate-invite"
)

var permissions = map[models.Role][]Action{
	models.RoleOwner:  {ActionRead, ActionWrite, ActionDeleteWallet, ActionManageMembers, ActionGenerateInvite},
	models.RoleEditor: {ActionRead, ActionWrite},
	models.RoleViewer: {ActionRead},
}

// Can reports whether role permits action.
func Can(role models.Role, action Action) bool {
	return slices.Contains(permissions[role], action)
}

// Guard evaluates permissions against the membership table.
type Guard struct {
	db *gorm.DB
}

// New returns a Guard reading memberships from db.
func New(db *gorm.DB) *Guard {
	return &Guard{db: db}
}

// Authorize returns the role of user on wallet if the role permits action.
//
// A missing wallet yields ErrResourceNotFound. A user that is not a member, or
// whose role does not permit the action, yields ErrForbidden.
func (g *Guard) Authorize(ctx context.Context, user, wallet uuid.UUID, action Action) (models.Role, error) {
	db := g.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Wallet{}).Where("id = ?", wallet).Count(&count).Error; err != nil {
		return "", err
	}

	if count == 0 {
		return "", models.NotFound("there is no wallet matching your query")
	}

	var membership models.Membership
	err := db.Where(&models.Membership{WalletID: wallet, UserID: user}).First(&membership).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		return "", models.Forbidden("you are not a member of this wallet")
	}

	if err != nil {
		return "", err
	}

	if !Can(membership.Role, action) {
		return membership.Role, models.Forbidden("the %s role may not %s on this wallet", membership.Role, action)
	}

	return membership.Role, nil
}
