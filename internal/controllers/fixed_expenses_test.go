package controllers_test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/twobolsos/backend/internal/controllers"
	"github.com/twobolsos/backend/internal/models"
	"github.com/twobolsos/backend/internal/types"
)

func (suite *TestSuiteStandard) createFixedExpense(token string, editable controllers.FixedExpenseEditable) models.FixedExpense {
	body := suite.request(http.MethodPost, "/fixas", token, editable, http.StatusCreated)

	var expense models.FixedExpense
	suite.decode(body, &expense)
	return expense
}

func (suite *TestSuiteStandard) fixedExpenses(token string, query string) []controllers.FixedExpense {
	body := suite.request(http.MethodGet, query, token, nil, http.StatusOK)

	var expenses []controllers.FixedExpense
	suite.decode(body, &expenses)
	return expenses
}

func (suite *TestSuiteStandard) TestFixedExpensePayment() {
	ana := suite.login("ana")
	wallet := suite.createWallet(ana.AccessToken, "Casa", "STANDARD")

	expense := suite.createFixedExpense(ana.AccessToken, controllers.FixedExpenseEditable{
		WalletID: wallet.ID,
		Name:     "Internet",
		Amount:   decimal.RequireFromString("99.90"),
		DueDay:   10,
	})
	suite.Assert().Equal(models.DefaultFixedExpenseTag, expense.Tag)

	list := fmt.Sprintf("/negocios/%s/fixas", wallet.ID)
	raw := suite.request(http.MethodGet, list, ana.AccessToken, nil, http.StatusOK)
	suite.Assert().Contains(string(raw), `"pago_neste_mes":false`)

	expenses := suite.fixedExpenses(ana.AccessToken, list)
	suite.Require().Len(expenses, 1)
	suite.Assert().False(expenses[0].Paid)
	suite.Assert().Equal(types.NewMonth(2024, time.May), expenses[0].Month)

	body := suite.request(http.MethodPost, fmt.Sprintf("/fixas/%s/pagar", expense.ID), ana.AccessToken, nil, http.StatusOK)

	var payment models.FixedExpensePayment
	suite.decode(body, &payment)
	suite.Assert().Equal(types.NewMonth(2024, time.May), payment.YearMonth)
	suite.Require().NotNil(payment.TransactionID)

	// Paying again does not record a second expense
	body = suite.request(http.MethodPost, fmt.Sprintf("/fixas/%s/pagar?mes=2024-05", expense.ID), ana.AccessToken, nil, http.StatusOK)

	var again models.FixedExpensePayment
	suite.decode(body, &again)
	suite.Assert().Equal(*payment.TransactionID, *again.TransactionID)

	expenses = suite.fixedExpenses(ana.AccessToken, list)
	suite.Require().Len(expenses, 1)
	suite.Assert().True(expenses[0].Paid)

	// The next month is not paid yet
	expenses = suite.fixedExpenses(ana.AccessToken, list+"?mes=2024-06")
	suite.Require().Len(expenses, 1)
	suite.Assert().False(expenses[0].Paid)

	body = suite.request(http.MethodGet, fmt.Sprintf("/negocios/%s", wallet.ID), ana.AccessToken, nil, http.StatusOK)

	var w controllers.Wallet
	suite.decode(body, &w)
	suite.assertDecimal("-99.9", w.Balance)
}

func (suite *TestSuiteStandard) TestFixedExpenseDuration() {
	ana := suite.login("ana")
	wallet := suite.createWallet(ana.AccessToken, "Casa", "STANDARD")

	months := 2
	expense := suite.createFixedExpense(ana.AccessToken, controllers.FixedExpenseEditable{
		WalletID:       wallet.ID,
		Name:           "Curso",
		Amount:         decimal.NewFromInt(150),
		DurationMonths: &months,
	})

	list := fmt.Sprintf("/negocios/%s/fixas", wallet.ID)
	suite.Assert().Len(suite.fixedExpenses(ana.AccessToken, list+"?mes=2024-06"), 1)
	suite.Assert().Empty(suite.fixedExpenses(ana.AccessToken, list+"?mes=2024-07"))
	suite.Assert().Empty(suite.fixedExpenses(ana.AccessToken, list+"?mes=2024-04"))

	suite.request(http.MethodPost, fmt.Sprintf("/fixas/%s/pagar?mes=2024-07", expense.ID), ana.AccessToken, nil, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestWalletFixedExpenses() {
	ana := suite.login("ana")
	casa := suite.createWallet(ana.AccessToken, "Casa", "STANDARD")
	uber := suite.createWallet(ana.AccessToken, "Uber", "DRIVER")

	// The wallet in the path wins over the body
	body := suite.request(http.MethodPost, fmt.Sprintf("/negocios/%s/fixas", casa.ID), ana.AccessToken, controllers.FixedExpenseEditable{
		WalletID: uber.ID,
		Name:     "Aluguel",
		Amount:   decimal.NewFromInt(1200),
		Tag:      "Moradia",
	}, http.StatusCreated)

	var expense models.FixedExpense
	suite.decode(body, &expense)
	suite.Assert().Equal(casa.ID, expense.WalletID)
	suite.Assert().Equal("Moradia", expense.Tag)

	suite.Assert().Empty(suite.fixedExpenses(ana.AccessToken, fmt.Sprintf("/negocios/%s/fixas", uber.ID)))

	bruno := suite.login("bruno")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"Pay in other wallet", http.MethodPost, fmt.Sprintf("/negocios/%s/fixas/%s/pagar", uber.ID, expense.ID), ana.AccessToken, http.StatusNotFound},
		{"Delete in other wallet", http.MethodDelete, fmt.Sprintf("/negocios/%s/fixas/%s", uber.ID, expense.ID), ana.AccessToken, http.StatusNotFound},
		{"Not a member, existing expense", http.MethodDelete, fmt.Sprintf("/negocios/%s/fixas/%s", casa.ID, expense.ID), bruno.AccessToken, http.StatusForbidden},
		{"Not a member, unknown expense", http.MethodDelete, fmt.Sprintf("/negocios/%s/fixas/%s", casa.ID, uuid.New()), bruno.AccessToken, http.StatusForbidden},
		{"Not a member, pay", http.MethodPost, fmt.Sprintf("/negocios/%s/fixas/%s/pagar", uber.ID, expense.ID), bruno.AccessToken, http.StatusForbidden},
		{"Invalid month", http.MethodPost, fmt.Sprintf("/negocios/%s/fixas/%s/pagar?mes=maio", casa.ID, expense.ID), ana.AccessToken, http.StatusBadRequest},
		{"Invalid list month", http.MethodGet, fmt.Sprintf("/negocios/%s/fixas?mes=2024-13", casa.ID), ana.AccessToken, http.StatusBadRequest},
		{"Invalid fixed expense ID", http.MethodDelete, fmt.Sprintf("/negocios/%s/fixas/internet", casa.ID), ana.AccessToken, http.StatusBadRequest},
		{"Pay", http.MethodPost, fmt.Sprintf("/negocios/%s/fixas/%s/pagar?mes=2024-05", casa.ID, expense.ID), ana.AccessToken, http.StatusOK},
		{"Delete", http.MethodDelete, fmt.Sprintf("/negocios/%s/fixas/%s", casa.ID, expense.ID), ana.AccessToken, http.StatusNoContent},
		{"Delete again", http.MethodDelete, fmt.Sprintf("/negocios/%s/fixas/%s", casa.ID, expense.ID), ana.AccessToken, http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.request(tt.method, tt.path, tt.token, nil, tt.status)
		})
	}

	// The recorded payment stays part of the balance
	body = suite.request(http.MethodGet, fmt.Sprintf("/negocios/%s", casa.ID), ana.AccessToken, nil, http.StatusOK)

	var w controllers.Wallet
	suite.decode(body, &w)
	suite.assertDecimal("-1200", w.Balance)
}

func (suite *TestSuiteStandard) TestFixedExpenseErrors() {
	ana := suite.login("ana")
	bruno := suite.login("bruno")
	wallet := suite.createWallet(ana.AccessToken, "Casa", "STANDARD")
	zero := 0

	tests := []struct {
		name     string
		token    string
		editable controllers.FixedExpenseEditable
		status   int
	}{
		{"No wallet", ana.AccessToken, controllers.FixedExpenseEditable{Name: "Internet"}, http.StatusBadRequest},
		{"No name", ana.AccessToken, controllers.FixedExpenseEditable{WalletID: wallet.ID}, http.StatusBadRequest},
		{"Due day", ana.AccessToken, controllers.FixedExpenseEditable{WalletID: wallet.ID, Name: "Internet", DueDay: 32}, http.StatusBadRequest},
		{"Duration", ana.AccessToken, controllers.FixedExpenseEditable{WalletID: wallet.ID, Name: "Internet", DurationMonths: &zero}, http.StatusBadRequest},
		{"Not a member", bruno.AccessToken, controllers.FixedExpenseEditable{WalletID: wallet.ID, Name: "Internet"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.request(http.MethodPost, "/fixas", tt.token, tt.editable, tt.status)
		})
	}
}
