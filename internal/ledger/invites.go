package ledger

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/twobolsos/backend/internal/authz"
	"github.com/twobolsos/backend/internal/models"
	"gorm.io/gorm"
)

// inviteCodeAttempts is how often a colliding code is regenerated.
const inviteCodeAttempts = 8

// newInviteCode draws a random code from the invite code alphabet.
func newInviteCode() (string, error) {
	limit := big.NewInt(int64(len(models.InviteCodeAlphabet)))

	var b strings.Builder
	b.Grow(models.InviteCodeLength)

	for range models.InviteCodeLength {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b.WriteByte(models.InviteCodeAlphabet[n.Int64()])
	}

	return b.String(), nil
}

// GenerateInvite creates a single-use invite code for a wallet.
//
// Codes never collide with another code that can still be redeemed.
func (s *Service) GenerateInvite(ctx context.Context, user, wallet uuid.UUID) (models.InviteCode, error) {
	if _, err := s.guard.Authorize(ctx, user, wallet, authz.ActionGenerateInvite); err != nil {
		return models.InviteCode{}, err
	}

	now := s.now().UTC()

	for range inviteCodeAttempts {
		code, err := s.codes()
		if err != nil {
			return models.InviteCode{}, fmt.Errorf("%w: generating invite code: %w", models.ErrUnavailable, err)
		}

		var live int64
		err = s.db.WithContext(ctx).
			Model(&models.InviteCode{}).
			Where("code = ? AND consumed_by_id IS NULL AND expires_at > ?", code, now).
			Count(&live).Error
		if err != nil {
			return models.InviteCode{}, err
		}

		if live > 0 {
			log.Debug().Str("wallet", wallet.String()).Msg("invite code collision, regenerating")
			continue
		}

		invite := models.InviteCode{
			Code:        code,
			WalletID:    wallet,
			CreatedByID: user,
			ExpiresAt:   now.Add(models.InviteCodeTTL),
		}
		invite.CreatedAt = now

		if err := s.db.WithContext(ctx).Create(&invite).Error; err != nil {
			return models.InviteCode{}, err
		}

		return invite, nil
	}

	return models.InviteCode{}, fmt.Errorf("%w: no free invite code after %d attempts", models.ErrUnavailable, inviteCodeAttempts)
}

// RedeemInvite consumes an invite code and makes user an editor of its wallet.
//
// Codes are accepted in any letter case. A code can be redeemed exactly once,
// concurrent redemptions of the same code have a single winner.
func (s *Service) RedeemInvite(ctx context.Context, user uuid.UUID, code string) (models.Membership, error) {
	code = models.NormalizeInviteCode(code)
	if !models.ValidInviteCode(code) {
		return models.Membership{}, models.Validation("an invite code has %d letters and digits", models.InviteCodeLength)
	}

	var invite models.InviteCode
	err := s.db.WithContext(ctx).
		Where("code = ? AND consumed_by_id IS NULL AND expires_at > ?", code, s.now().UTC()).
		Order("created_at DESC").
		First(&invite).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		return models.Membership{}, models.ErrInviteInvalid
	} else if err != nil {
		return models.Membership{}, err
	}

	membership := models.Membership{
		WalletID: invite.WalletID,
		UserID:   user,
		Role:     models.RoleEditor,
	}

	err = s.withWalletLock(invite.WalletID, func() error {
		var existing int64
		err := s.db.WithContext(ctx).
			Model(&models.Membership{}).
			Where("wallet_id = ? AND user_id = ?", invite.WalletID, user).
			Count(&existing).Error
		if err != nil {
			return err
		}

		// The code stays redeemable for someone else
		if existing > 0 {
			return models.ErrAlreadyMember
		}

		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			now := s.now().UTC()

			res := tx.Model(&models.InviteCode{}).
				Where("id = ? AND consumed_by_id IS NULL AND expires_at > ?", invite.ID, now).
				Updates(map[string]any{"consumed_by_id": user, "consumed_at": now})
			if res.Error != nil {
				return res.Error
			}

			if res.RowsAffected != 1 {
				return models.ErrInviteInvalid
			}

			membership.CreatedAt = now
			if err := tx.Create(&membership).Error; err != nil {
				return err
			}

			return tx.First(&membership.Wallet, "id = ?", invite.WalletID).Error
		})
	})
	if err != nil {
		return models.Membership{}, err
	}

	s.notifier.NotifyWalletMembers(ctx, invite.WalletID, HintDashboard)
	return membership, nil
}
