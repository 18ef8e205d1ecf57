package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/twobolsos/backend/internal/auth"
	"github.com/twobolsos/backend/internal/httputil"
	"github.com/twobolsos/backend/internal/ledger"
	"github.com/twobolsos/backend/internal/models"
)

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
func (co Controller) RegisterTransactionRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsPost)
	r.POST("", co.CreateTransaction)

	r.OPTIONS("/:id", httputil.OptionsDelete)
	r.DELETE("/:id", co.DeleteTransaction)
}

// CreateTransaction records a transaction. The date defaults to today.
func (co Controller) CreateTransaction(c *gin.Context) {
	var editable TransactionEditable
	if err := httputil.BindData(c, &editable); err != nil {
		return
	}

	if editable.WalletID == uuid.Nil {
		handleError(c, errWalletIDNotSet)
		return
	}

	kind, err := models.ParseTransactionType(editable.Type)
	if err != nil {
		handleError(c, err)
		return
	}

	transaction, err := co.Ledger.RecordTransaction(c.Request.Context(), auth.UserID(c), ledger.TransactionInput{
		WalletID:      editable.WalletID,
		Type:          kind,
		Amount:        editable.Amount,
		Description:   editable.Description,
		Date:          editable.Date,
		Tag:           editable.Tag,
		Km:            editable.Km,
		Liters:        editable.Liters,
		PaymentMethod: editable.PaymentMethod,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, transaction)
}

// DeleteTransaction deletes a transaction.
func (co Controller) DeleteTransaction(c *gin.Context) {
	id, err := httputil.UUIDParam(c, "id")
	if err != nil {
		return
	}

	err = co.Ledger.DeleteTransaction(c.Request.Context(), auth.UserID(c), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
