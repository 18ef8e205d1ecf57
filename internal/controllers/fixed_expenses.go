package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/twobolsos/backend/internal/auth"
	"github.com/twobolsos/backend/internal/httputil"
	"github.com/twobolsos/backend/internal/models"
)

// RegisterFixedExpenseRoutes registers the routes for fixed expenses with
// the RouterGroup that is passed. The routes nested below a wallet are
// registered with the wallet routes.
func (co Controller) RegisterFixedExpenseRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsPost)
	r.POST("", co.CreateFixedExpense)

	r.OPTIONS("/:id", httputil.OptionsDelete)
	r.DELETE("/:id", co.DeleteFixedExpense)

	r.OPTIONS("/:id/pagar", httputil.OptionsPost)
	r.POST("/:id/pagar", co.PayFixedExpense)
}

// GetFixedExpenses returns the fixed expenses of a wallet that are active in
// the month given by the mes query parameter, defaulting to the current month.
func (co Controller) GetFixedExpenses(c *gin.Context) {
	id, err := httputil.UUIDParam(c, "id")
	if err != nil {
		return
	}

	m, err := month(c)
	if err != nil {
		handleError(c, err)
		return
	}

	if m.IsZero() {
		m = co.Ledger.ThisMonth()
	}

	statuses, err := co.Ledger.ListFixedExpenses(c.Request.Context(), auth.UserID(c), id, m)
	if err != nil {
		handleError(c, err)
		return
	}

	expenses := make([]FixedExpense, 0, len(statuses))
	for _, s := range statuses {
		expenses = append(expenses, FixedExpense{FixedExpense: s.FixedExpense, Month: m, Paid: s.Paid})
	}

	c.JSON(http.StatusOK, expenses)
}

// CreateFixedExpense creates a fixed expense for the wallet in the body.
func (co Controller) CreateFixedExpense(c *gin.Context) {
	var editable FixedExpenseEditable
	if err := httputil.BindData(c, &editable); err != nil {
		return
	}

	co.createFixedExpense(c, editable)
}

// CreateWalletFixedExpense creates a fixed expense for the wallet in the path.
func (co Controller) CreateWalletFixedExpense(c *gin.Context) {
	id, err := httputil.UUIDParam(c, "id")
	if err != nil {
		return
	}

	var editable FixedExpenseEditable
	if err := httputil.BindData(c, &editable); err != nil {
		return
	}

	editable.WalletID = id
	co.createFixedExpense(c, editable)
}

func (co Controller) createFixedExpense(c *gin.Context, editable FixedExpenseEditable) {
	if editable.WalletID == uuid.Nil {
		handleError(c, errWalletIDNotSet)
		return
	}

	expense, err := co.Ledger.CreateFixedExpense(c.Request.Context(), auth.UserID(c), editable.input())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// DeleteFixedExpense deletes a fixed expense.
func (co Controller) DeleteFixedExpense(c *gin.Context) {
	id, err := httputil.UUIDParam(c, "id")
	if err != nil {
		return
	}

	co.deleteFixedExpense(c, id)
}

// DeleteWalletFixedExpense deletes a fixed expense of the wallet in the path.
func (co Controller) DeleteWalletFixedExpense(c *gin.Context) {
	id, ok := co.walletFixedExpense(c)
	if !ok {
		return
	}

	co.deleteFixedExpense(c, id)
}

func (co Controller) deleteFixedExpense(c *gin.Context, id uuid.UUID) {
	err := co.Ledger.DeleteFixedExpense(c.Request.Context(), auth.UserID(c), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// PayFixedExpense marks a fixed expense as paid for the month given by the
// mes query parameter, defaulting to the current month. Paying an already
// paid month succeeds without changes.
func (co Controller) PayFixedExpense(c *gin.Context) {
	id, err := httputil.UUIDParam(c, "id")
	if err != nil {
		return
	}

	co.payFixedExpense(c, id)
}

// PayWalletFixedExpense marks a fixed expense of the wallet in the path as paid.
func (co Controller) PayWalletFixedExpense(c *gin.Context) {
	id, ok := co.walletFixedExpense(c)
	if !ok {
		return
	}

	co.payFixedExpense(c, id)
}

func (co Controller) payFixedExpense(c *gin.Context, id uuid.UUID) {
	m, err := month(c)
	if err != nil {
		handleError(c, err)
		return
	}

	payment, err := co.Ledger.MarkPaid(c.Request.Context(), auth.UserID(c), id, m)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// walletFixedExpense returns the ID of the fixed expense in the path after
// verifying that the user can read the wallet in the path and that the
// expense belongs to it.
func (co Controller) walletFixedExpense(c *gin.Context) (uuid.UUID, bool) {
	walletID, err := httputil.UUIDParam(c, "id")
	if err != nil {
		return uuid.Nil, false
	}

	id, err := httputil.UUIDParam(c, "fixed_id")
	if err != nil {
		return uuid.Nil, false
	}

	// Non-members must not learn which expenses belong to the wallet
	if _, _, err := co.Ledger.Wallet(c.Request.Context(), auth.UserID(c), walletID); err != nil {
		handleError(c, err)
		return uuid.Nil, false
	}

	expense, err := co.Ledger.FixedExpense(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return uuid.Nil, false
	}

	if expense.WalletID != walletID {
		handleError(c, models.NotFound("there is no fixed expense with this ID in this wallet"))
		return uuid.Nil, false
	}

	return id, true
}
