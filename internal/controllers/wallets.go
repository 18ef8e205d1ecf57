package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/twobolsos/backend/internal/auth"
	"github.com/twobolsos/backend/internal/httputil"
	"github.com/twobolsos/backend/internal/models"
)

// joinMessage is sent after an invite code has been redeemed.
const joinMessage = "Entrou no bolso com sucesso!"

// RegisterWalletRoutes registers the routes for wallets, their members,
// invites and fixed expenses with the RouterGroup that is passed.
func (co Controller) RegisterWalletRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetWallets)
		r.POST("", co.CreateWallet)
	}

	// Joining with an invite code
	{
		r.OPTIONS("/join", httputil.OptionsPost)
		r.POST("/join", co.JoinWallet)
	}

	// Wallet with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGetDelete)
		r.GET("/:id", co.GetWallet)
		r.DELETE("/:id", co.DeleteWallet)

		r.OPTIONS("/:id/dashboard", httputil.OptionsGet)
		r.GET("/:id/dashboard", co.GetDashboard)

		r.OPTIONS("/:id/invite", httputil.OptionsPost)
		r.POST("/:id/invite", co.CreateInvite)
	}

	// Members
	{
		r.OPTIONS("/:id/members", httputil.OptionsGet)
		r.GET("/:id/members", co.GetMembers)

		r.OPTIONS("/:id/members/:user_id", httputil.OptionsPatchDelete)
		r.PATCH("/:id/members/:user_id", co.UpdateMember)
		r.DELETE("/:id/members/:user_id", co.DeleteMember)
	}

	// Fixed expenses
	{
		r.OPTIONS("/:id/fixas", httputil.OptionsGetPost)
		r.GET("/:id/fixas", co.GetFixedExpenses)
		r.POST("/:id/fixas", co.CreateWalletFixedExpense)

		r.OPTIONS("/:id/fixas/:fixed_id", httputil.OptionsDelete)
		r.DELETE("/:id/fixas/:fixed_id", co.DeleteWalletFixedExpense)

		r.OPTIONS("/:id/fixas/:fixed_id/pagar", httputil.OptionsPost)
		r.POST("/:id/fixas/:fixed_id/pagar", co.PayWalletFixedExpense)
	}
}

// GetWallets returns all wallets the user is a member of.
func (co Controller) GetWallets(c *gin.Context) {
	user := auth.UserID(c)

	summaries, err := co.Ledger.ListWallets(c.Request.Context(), user)
	if err != nil {
		handleError(c, err)
		return
	}

	wallets := make([]Wallet, 0, len(summaries))
	for _, s := range summaries {
		wallets = append(wallets, newWallet(user, s.Wallet, s.Role, s.Balance, s.OwnerName))
	}

	c.JSON(http.StatusOK, wallets)
}

// CreateWallet creates a wallet owned by the user.
func (co Controller) CreateWallet(c *gin.Context) {
	var editable WalletEditable
	if err := httputil.BindData(c, &editable); err != nil {
		return
	}

	category, err := models.ParseWalletCategory(editable.Category)
	if err != nil {
		handleError(c, err)
		return
	}

	user := auth.UserID(c)
	wallet, err := co.Ledger.CreateWallet(c.Request.Context(), user, editable.Name, category, editable.Color)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newWallet(user, wallet, models.RoleOwner, decimal.Zero, ""))
}

// GetWallet returns a single wallet.
func (co Controller) GetWallet(c *gin.Context) {
	id, err := httputil.UUIDParam(c, "id")
	if err != nil {
		return
	}

	ctx := c.Request.Context()
	user := auth.UserID(c)

	wallet, role, err := co.Ledger.Wallet(ctx, user, id)
	if err != nil {
		handleError(c, err)
		return
	}

	balance, err := co.Ledger.Balance(ctx, wallet.ID)
	if err != nil {
		handleError(c, err)
		return
	}

	ownerName, err := co.username(ctx, wallet.OwnerID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, newWallet(user, wallet, role, balance, ownerName))
}

// DeleteWallet deletes a wallet with all of its data.
func (co Controller) DeleteWallet(c *gin.Context) {
	id, err := httputil.UUIDParam(c, "id")
	if err != nil {
		return
	}

	err = co.Ledger.DeleteWallet(c.Request.Context(), auth.UserID(c), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetDashboard returns KPIs, statement, chart and category breakdown of a wallet.
func (co Controller) GetDashboard(c *gin.Context) {
	id, err := httputil.UUIDParam(c, "id")
	if err != nil {
		return
	}

	days, err := windowDays(c)
	if err != nil {
		handleError(c, err)
		return
	}

	ctx := c.Request.Context()
	user := auth.UserID(c)

	dashboard, err := co.Ledger.Dashboard(ctx, user, id, days)
	if err != nil {
		handleError(c, err)
		return
	}

	ownerName, err := co.username(ctx, dashboard.Wallet.OwnerID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, newDashboard(user, dashboard, ownerName))
}

// CreateInvite generates an invite code for a wallet.
func (co Controller) CreateInvite(c *gin.Context) {
	id, err := httputil.UUIDParam(c, "id")
	if err != nil {
		return
	}

	invite, err := co.Ledger.GenerateInvite(c.Request.Context(), auth.UserID(c), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Invite{Code: invite.Code, ExpiresAt: invite.ExpiresAt})
}

// JoinWallet redeems an invite code.
func (co Controller) JoinWallet(c *gin.Context) {
	var query QueryCode
	if err := c.ShouldBindQuery(&query); err != nil {
		handleError(c, httputil.ErrInvalidQuery)
		return
	}

	if query.Code == "" {
		handleError(c, errCodeNotSet)
		return
	}

	membership, err := co.Ledger.RedeemInvite(c.Request.Context(), auth.UserID(c), query.Code)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, JoinResponse{
		Message: joinMessage,
		Wallet:  membership.Wallet.Name,
		ID:      membership.WalletID,
	})
}

// GetMembers returns the members of a wallet.
func (co Controller) GetMembers(c *gin.Context) {
	id, err := httputil.UUIDParam(c, "id")
	if err != nil {
		return
	}

	members, err := co.Ledger.ListMembers(c.Request.Context(), auth.UserID(c), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

// UpdateMember changes the role of a member.
func (co Controller) UpdateMember(c *gin.Context) {
	id, err := httputil.UUIDParam(c, "id")
	if err != nil {
		return
	}

	target, err := httputil.UUIDParam(c, "user_id")
	if err != nil {
		return
	}

	var editable MemberEditable
	if err := httputil.BindData(c, &editable); err != nil {
		return
	}

	member, err := co.Ledger.UpdateMemberRole(c.Request.Context(), auth.UserID(c), id, target, models.Role(editable.Role))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

// DeleteMember removes a member from a wallet.
func (co Controller) DeleteMember(c *gin.Context) {
	id, err := httputil.UUIDParam(c, "id")
	if err != nil {
		return
	}

	target, err := httputil.UUIDParam(c, "user_id")
	if err != nil {
		return
	}

	err = co.Ledger.RemoveMember(c.Request.Context(), auth.UserID(c), id, target)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (co Controller) username(ctx context.Context, id uuid.UUID) (string, error) {
	user, err := co.Auth.User(ctx, id)
	if err != nil {
		return "", err
	}

	return user.Username, nil
}
