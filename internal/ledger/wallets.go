package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/twobolsos/backend/internal/authz"
	"github.com/twobolsos/backend/internal/models"
	"gorm.io/gorm"
)

// WalletSummary is one row of the wallet list of a user.
type WalletSummary struct {
	Wallet    models.Wallet
	Role      models.Role
	Balance   decimal.Decimal
	OwnerName string
}

// Member is a user with a membership on a wallet.
type Member struct {
	UserID   uuid.UUID   `json:"user_id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

// CreateWallet creates a wallet owned by owner together with the owner's membership.
func (s *Service) CreateWallet(ctx context.Context, owner uuid.UUID, name string, category models.WalletCategory, color string) (models.Wallet, error) {
	wallet := models.Wallet{
		Name:     name,
		Category: category,
		Color:    color,
		OwnerID:  owner,
	}
	wallet.CreatedAt = s.now().UTC()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&wallet).Error; err != nil {
			return err
		}

		return tx.Create(&models.Membership{
			WalletID:  wallet.ID,
			UserID:    owner,
			Role:      models.RoleOwner,
			CreatedAt: wallet.CreatedAt,
		}).Error
	})
	if err != nil {
		return models.Wallet{}, err
	}

	s.notifier.NotifyUsers(ctx, HintList, owner)
	return wallet, nil
}

// ListWallets returns one row per membership of user, oldest first.
func (s *Service) ListWallets(ctx context.Context, user uuid.UUID) ([]WalletSummary, error) {
	var memberships []models.Membership
	err := s.db.WithContext(ctx).
		Preload("Wallet.Owner").
		Where(&models.Membership{UserID: user}).
		Order("created_at").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]WalletSummary, 0, len(memberships))
	for _, m := range memberships {
		balance, err := s.Balance(ctx, m.WalletID)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, WalletSummary{
			Wallet:    m.Wallet,
			Role:      m.Role,
			Balance:   balance,
			OwnerName: m.Wallet.Owner.Username,
		})
	}

	return summaries, nil
}

// Wallet returns a wallet and the role of user on it.
func (s *Service) Wallet(ctx context.Context, user, id uuid.UUID) (models.Wallet, models.Role, error) {
	role, err := s.guard.Authorize(ctx, user, id, authz.ActionRead)
	if err != nil {
		return models.Wallet{}, "", err
	}

	var wallet models.Wallet
	err = s.db.WithContext(ctx).First(&wallet, "id = ?", id).Error
	return wallet, role, err
}

// DeleteWallet deletes a wallet and everything that belongs to it.
func (s *Service) DeleteWallet(ctx context.Context, user, wallet uuid.UUID) error {
	var members []uuid.UUID

	err := s.withWalletLock(wallet, func() error {
		if _, err := s.guard.Authorize(ctx, user, wallet, authz.ActionDeleteWallet); err != nil {
			return err
		}

		var err error
		members, err = models.MemberIDs(ctx, s.db, wallet)
		if err != nil {
			return err
		}

		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			expenses := tx.Model(&models.FixedExpense{}).Select("id").Where("wallet_id = ?", wallet)

			steps := []func() error{
				func() error {
					return tx.Where("fixed_expense_id IN (?)", expenses).Delete(&models.FixedExpensePayment{}).Error
				},
				func() error { return tx.Where("wallet_id = ?", wallet).Delete(&models.Transaction{}).Error },
				func() error { return tx.Where("wallet_id = ?", wallet).Delete(&models.FixedExpense{}).Error },
				func() error { return tx.Where("wallet_id = ?", wallet).Delete(&models.InviteCode{}).Error },
				func() error { return tx.Where("wallet_id = ?", wallet).Delete(&models.Membership{}).Error },
				func() error { return tx.Where("id = ?", wallet).Delete(&models.Wallet{}).Error },
			}

			for _, step := range steps {
				if err := step(); err != nil {
					return err
				}
			}

			return nil
		})
	})
	if err != nil {
		return err
	}

	s.notifier.NotifyUsers(ctx, HintList, members...)
	return nil
}

// ListMembers returns the members of a wallet, owner first.
func (s *Service) ListMembers(ctx context.Context, user, wallet uuid.UUID) ([]Member, error) {
	if _, err := s.guard.Authorize(ctx, user, wallet, authz.ActionRead); err != nil {
		return nil, err
	}

	var members []Member
	err := s.db.WithContext(ctx).
		Model(&models.Membership{}).
		Select("memberships.user_id, users.username, memberships.role").
		Joins("JOIN users ON users.id = memberships.user_id").
		Where("memberships.wallet_id = ?", wallet).
		Order("CASE WHEN memberships.role = 'owner' THEN 0 ELSE 1 END, users.username").
		Scan(&members).Error

	return members, err
}

// UpdateMemberRole changes the role of target on wallet to editor or viewer.
func (s *Service) UpdateMemberRole(ctx context.Context, user, wallet, target uuid.UUID, role models.Role) (Member, error) {
	var member Member
	err := s.withWalletLock(wallet, func() error {
		membership, err := s.manageableMembership(ctx, user, wallet, target)
		if err != nil {
			return err
		}

		// Ownership cannot be transferred, so owner is never granted
		if role != models.RoleEditor && role != models.RoleViewer {
			return models.Validation("the role must be editor or viewer, got %q", role)
		}

		err = s.db.WithContext(ctx).
			Model(&models.Membership{}).
			Where("wallet_id = ? AND user_id = ?", wallet, target).
			Update("role", role).Error
		if err != nil {
			return err
		}

		member = Member{UserID: target, Username: membership.User.Username, Role: role}
		return nil
	})
	if err != nil {
		return Member{}, err
	}

	s.notifier.NotifyWalletMembers(ctx, wallet, HintDashboard)
	return member, nil
}

// RemoveMember removes target from wallet. The removed user is notified as well.
func (s *Service) RemoveMember(ctx context.Context, user, wallet, target uuid.UUID) error {
	err := s.withWalletLock(wallet, func() error {
		if _, err := s.manageableMembership(ctx, user, wallet, target); err != nil {
			return err
		}

		return s.db.WithContext(ctx).
			Where("wallet_id = ? AND user_id = ?", wallet, target).
			Delete(&models.Membership{}).Error
	})
	if err != nil {
		return err
	}

	s.notifier.NotifyWalletMembers(ctx, wallet, HintDashboard)
	s.notifier.NotifyUsers(ctx, HintList, target)
	return nil
}

// manageableMembership authorizes user to manage the members of wallet and
// returns the membership of target, which must not be the owner.
func (s *Service) manageableMembership(ctx context.Context, user, wallet, target uuid.UUID) (models.Membership, error) {
	if _, err := s.guard.Authorize(ctx, user, wallet, authz.ActionManageMembers); err != nil {
		return models.Membership{}, err
	}

	var membership models.Membership
	err := s.db.WithContext(ctx).
		Preload("User").
		Where(&models.Membership{WalletID: wallet, UserID: target}).
		First(&membership).Error
	if err != nil {
		return models.Membership{}, err
	}

	if membership.Role == models.RoleOwner {
		return models.Membership{}, models.Validation("the membership of the wallet owner cannot be changed")
	}

	return membership, nil
}
