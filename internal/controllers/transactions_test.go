package controllers_test

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/twobolsos/backend/internal/controllers"
	"github.com/twobolsos/backend/internal/models"
	"github.com/twobolsos/backend/internal/types"
)

func (suite *TestSuiteStandard) TestCreateTransaction() {
	ana := suite.login("ana")
	wallet := suite.createWallet(ana.AccessToken, "Casa", "STANDARD")

	transaction := suite.createTransaction(ana.AccessToken, controllers.TransactionEditable{
		WalletID:      wallet.ID,
		Type:          "receita",
		Description:   "  Salário ",
		Amount:        decimal.RequireFromString("1000.50"),
		PaymentMethod: "pix",
	})

	suite.Assert().Equal(models.TypeIncome, transaction.Type)
	suite.Assert().Equal("Salário", transaction.Description)
	suite.Assert().Equal(models.DefaultTransactionTag, transaction.Tag)
	suite.Assert().Equal(types.NewDate(2024, 5, 15), transaction.Date, "date defaults to today")
	suite.Assert().Equal(ana.UserID, transaction.CreatedByID)
	suite.assertDecimal("1000.5", transaction.Amount)

	dated := suite.createTransaction(ana.AccessToken, controllers.TransactionEditable{
		WalletID: wallet.ID,
		Type:     "neutral",
		Amount:   decimal.NewFromInt(10),
		Date:     types.NewDate(2024, 2, 29),
	})
	suite.Assert().Equal(types.NewDate(2024, 2, 29), dated.Date)

	// Neutral transactions do not change the balance
	body := suite.request(http.MethodGet, fmt.Sprintf("/negocios/%s", wallet.ID), ana.AccessToken, nil, http.StatusOK)

	var w controllers.Wallet
	suite.decode(body, &w)
	suite.assertDecimal("1000.5", w.Balance)
}

func (suite *TestSuiteStandard) TestCreateTransactionErrors() {
	ana := suite.login("ana")
	bruno := suite.login("bruno")
	wallet := suite.createWallet(ana.AccessToken, "Casa", "STANDARD")

	tests := []struct {
		name     string
		token    string
		editable controllers.TransactionEditable
		status   int
	}{
		{"Unknown type", ana.AccessToken, controllers.TransactionEditable{WalletID: wallet.ID, Type: "transfer", Amount: decimal.NewFromInt(1)}, http.StatusBadRequest},
		{"Negative amount", ana.AccessToken, controllers.TransactionEditable{WalletID: wallet.ID, Type: "expense", Amount: decimal.NewFromInt(-1)}, http.StatusBadRequest},
		{"Negative km", ana.AccessToken, controllers.TransactionEditable{WalletID: wallet.ID, Type: "expense", Km: decimal.NewNullDecimal(decimal.NewFromInt(-5))}, http.StatusBadRequest},
		{"No wallet", ana.AccessToken, controllers.TransactionEditable{Type: "expense", Amount: decimal.NewFromInt(1)}, http.StatusBadRequest},
		{"Unknown wallet", ana.AccessToken, controllers.TransactionEditable{WalletID: uuid.New(), Type: "expense", Amount: decimal.NewFromInt(1)}, http.StatusNotFound},
		{"Not a member", bruno.AccessToken, controllers.TransactionEditable{WalletID: wallet.ID, Type: "expense", Amount: decimal.NewFromInt(1)}, http.StatusForbidden},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.createTransaction(tt.token, tt.editable, tt.status)
		})
	}

	suite.Run("Broken body", func() {
		suite.request(http.MethodPost, "/transacoes", ana.AccessToken, `{"tipo": `, http.StatusBadRequest)
	})

	suite.Run("Empty body", func() {
		suite.request(http.MethodPost, "/transacoes", ana.AccessToken, "", http.StatusBadRequest)
	})
}

func (suite *TestSuiteStandard) TestDeleteTransaction() {
	ana := suite.login("ana")
	bruno := suite.login("bruno")
	wallet := suite.createWallet(ana.AccessToken, "Casa", "STANDARD")

	transaction := suite.createTransaction(ana.AccessToken, controllers.TransactionEditable{
		WalletID: wallet.ID,
		Type:     "expense",
		Amount:   decimal.NewFromInt(300),
	})

	path := fmt.Sprintf("/transacoes/%s", transaction.ID)
	suite.request(http.MethodDelete, path, bruno.AccessToken, nil, http.StatusForbidden)
	suite.request(http.MethodDelete, path, ana.AccessToken, nil, http.StatusNoContent)
	suite.request(http.MethodDelete, path, ana.AccessToken, nil, http.StatusNotFound)
	suite.request(http.MethodDelete, "/transacoes/nope", ana.AccessToken, nil, http.StatusBadRequest)

	body := suite.request(http.MethodGet, fmt.Sprintf("/negocios/%s", wallet.ID), ana.AccessToken, nil, http.StatusOK)

	var w controllers.Wallet
	suite.decode(body, &w)
	suite.assertDecimal("0", w.Balance)
}
