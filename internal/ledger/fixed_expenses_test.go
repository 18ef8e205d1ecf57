package ledger_test

import (
	"sync"

	"github.com/shopspring/decimal"
	"github.com/twobolsos/backend/internal/ledger"
	"github.com/twobolsos/backend/internal/models"
	"github.com/twobolsos/backend/internal/types"
)

func (suite *TestSuiteStandard) createFixedExpense(user models.User, wallet models.Wallet, name, amount string, duration *int) models.FixedExpense {
	expense, err := suite.service.CreateFixedExpense(suite.T().Context(), user.ID, ledger.FixedExpenseInput{
		WalletID:       wallet.ID,
		Name:           name,
		Amount:         decimal.RequireFromString(amount),
		DueDay:         10,
		DurationMonths: duration,
	})
	if err != nil {
		suite.Assert().FailNow("Fixed expense could not be created", "Error: %s", err)
	}

	return expense
}

func (suite *TestSuiteStandard) TestCreateFixedExpense() {
	owner := suite.createTestUser("ana")
	viewer := suite.createTestUser("bruno")
	wallet := suite.createTestWallet(owner.ID, models.CategoryStandard)
	suite.addMember(wallet.ID, viewer.ID, models.RoleViewer)

	expense, err := suite.service.CreateFixedExpense(suite.T().Context(), owner.ID, ledger.FixedExpenseInput{
		WalletID: wallet.ID,
		Name:     "Internet",
		Amount:   decimal.NewFromInt(100),
	})
	suite.Require().Nil(err)
	suite.Assert().Equal(models.DefaultFixedExpenseTag, expense.Tag)
	suite.Assert().Equal(1, expense.DueDay)
	suite.Assert().Nil(expense.DurationMonths)

	zero := 0
	tests := []struct {
		name string
		user models.User
		in   ledger.FixedExpenseInput
		err  error
	}{
		{"Viewer", viewer, ledger.FixedExpenseInput{WalletID: wallet.ID, Name: "Luz"}, models.ErrForbidden},
		{"No name", owner, ledger.FixedExpenseInput{WalletID: wallet.ID}, models.ErrValidation},
		{"Due day", owner, ledger.FixedExpenseInput{WalletID: wallet.ID, Name: "Luz", DueDay: 32}, models.ErrValidation},
		{"Duration", owner, ledger.FixedExpenseInput{WalletID: wallet.ID, Name: "Luz", DurationMonths: &zero}, models.ErrValidation},
		{"Negative amount", owner, ledger.FixedExpenseInput{WalletID: wallet.ID, Name: "Luz", Amount: decimal.NewFromInt(-1)}, models.ErrValidation},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.CreateFixedExpense(suite.T().Context(), tt.user.ID, tt.in)
			suite.Assert().ErrorIs(err, tt.err)
		})
	}
}

// Paying an indefinite fixed expense for one month does not mark other months.
func (suite *TestSuiteStandard) TestMarkPaidMonths() {
	owner := suite.createTestUser("ana")
	wallet := suite.createTestWallet(owner.ID, models.CategoryStandard)
	expense := suite.createFixedExpense(owner, wallet, "Internet", "100", nil)

	payment, err := suite.service.MarkPaid(suite.T().Context(), owner.ID, expense.ID, types.NewMonth(2024, 1))
	suite.Require().Nil(err)
	suite.Assert().Equal(types.NewMonth(2024, 1), payment.YearMonth)
	suite.Require().NotNil(payment.TransactionID)

	statuses, err := suite.service.ListFixedExpenses(suite.T().Context(), owner.ID, wallet.ID, types.NewMonth(2024, 1))
	suite.Require().Nil(err)
	suite.Require().Len(statuses, 1)
	suite.Assert().True(statuses[0].Paid)

	statuses, err = suite.service.ListFixedExpenses(suite.T().Context(), owner.ID, wallet.ID, types.NewMonth(2024, 2))
	suite.Require().Nil(err)
	suite.Require().Len(statuses, 1)
	suite.Assert().False(statuses[0].Paid)

	var transaction models.Transaction
	suite.Require().Nil(models.DB.First(&transaction, "id = ?", *payment.TransactionID).Error)
	suite.Assert().Equal(models.TypeExpense, transaction.Type)
	suite.Assert().Equal("Internet (Ref: 01/2024)", transaction.Description)
	suite.Assert().Equal(types.NewDate(2024, 1, 1), transaction.Date, "Past months are booked on their first day")
	suite.Assert().Equal(models.DefaultFixedExpenseTag, transaction.Tag)
	suite.Require().NotNil(transaction.FixedExpenseID)
	suite.Assert().Equal(expense.ID, *transaction.FixedExpenseID)
	suite.assertDecimal("100", transaction.Amount)
}

func (suite *TestSuiteStandard) TestMarkPaidCurrentMonth() {
	owner := suite.createTestUser("ana")
	wallet := suite.createTestWallet(owner.ID, models.CategoryStandard)
	expense := suite.createFixedExpense(owner, wallet, "Aluguel", "1200", nil)

	payment, err := suite.service.MarkPaid(suite.T().Context(), owner.ID, expense.ID, types.Month{})
	suite.Require().Nil(err)
	suite.Assert().Equal(types.NewMonth(2024, 5), payment.YearMonth)

	var transaction models.Transaction
	suite.Require().Nil(models.DB.First(&transaction, "id = ?", *payment.TransactionID).Error)
	suite.Assert().Equal(types.NewDate(2024, 5, 15), transaction.Date, "The current month is booked today")

	balance, err := suite.service.Balance(suite.T().Context(), wallet.ID)
	suite.Require().Nil(err)
	suite.assertDecimal("-1200", balance)
}

func (suite *TestSuiteStandard) TestMarkPaidIdempotent() {
	owner := suite.createTestUser("ana")
	wallet := suite.createTestWallet(owner.ID, models.CategoryStandard)
	expense := suite.createFixedExpense(owner, wallet, "Internet", "100", nil)

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.service.MarkPaid(suite.T().Context(), owner.ID, expense.ID, types.NewMonth(2024, 3))
			suite.Assert().Nil(err)
		}()
	}
	wg.Wait()

	suite.notifier.reset()
	_, err := suite.service.MarkPaid(suite.T().Context(), owner.ID, expense.ID, types.NewMonth(2024, 3))
	suite.Require().Nil(err)
	suite.Assert().Empty(suite.notifier.received(owner.ID), "Paying a paid month changes nothing and notifies nobody")

	var payments, transactions int64
	models.DB.Model(&models.FixedExpensePayment{}).Count(&payments)
	models.DB.Model(&models.Transaction{}).Count(&transactions)
	suite.Assert().Equal(int64(1), payments)
	suite.Assert().Equal(int64(1), transactions)
}

func (suite *TestSuiteStandard) TestFixedExpenseDuration() {
	owner := suite.createTestUser("ana")
	wallet := suite.createTestWallet(owner.ID, models.CategoryStandard)

	// Created in May 2024, due in May, June and July
	three := 3
	expense := suite.createFixedExpense(owner, wallet, "Curso", "300", &three)
	suite.createFixedExpense(owner, wallet, "Internet", "100", nil)

	tests := []struct {
		month  types.Month
		active int
	}{
		{types.NewMonth(2024, 4), 1},
		{types.NewMonth(2024, 5), 2},
		{types.NewMonth(2024, 7), 2},
		{types.NewMonth(2024, 8), 1},
	}

	for _, tt := range tests {
		suite.Run(tt.month.String(), func() {
			statuses, err := suite.service.ListFixedExpenses(suite.T().Context(), owner.ID, wallet.ID, tt.month)
			suite.Require().Nil(err)
			suite.Assert().Len(statuses, tt.active)
		})
	}

	_, err := suite.service.MarkPaid(suite.T().Context(), owner.ID, expense.ID, types.NewMonth(2024, 8))
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound, "Months outside the duration cannot be paid")
}

func (suite *TestSuiteStandard) TestDeleteFixedExpense() {
	owner := suite.createTestUser("ana")
	viewer := suite.createTestUser("bruno")
	wallet := suite.createTestWallet(owner.ID, models.CategoryStandard)
	suite.addMember(wallet.ID, viewer.ID, models.RoleViewer)
	expense := suite.createFixedExpense(owner, wallet, "Internet", "100", nil)

	payment, err := suite.service.MarkPaid(suite.T().Context(), owner.ID, expense.ID, types.Month{})
	suite.Require().Nil(err)

	err = suite.service.DeleteFixedExpense(suite.T().Context(), viewer.ID, expense.ID)
	suite.Assert().ErrorIs(err, models.ErrForbidden)

	suite.Require().Nil(suite.service.DeleteFixedExpense(suite.T().Context(), owner.ID, expense.ID))

	var payments int64
	models.DB.Model(&models.FixedExpensePayment{}).Count(&payments)
	suite.Assert().Zero(payments)

	// The booked expense stays in the ledger
	var transaction models.Transaction
	suite.Require().Nil(models.DB.First(&transaction, "id = ?", *payment.TransactionID).Error)
	suite.Assert().Nil(transaction.FixedExpenseID)

	_, err = suite.service.MarkPaid(suite.T().Context(), owner.ID, expense.ID, types.Month{})
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)

	// Expenses that were never paid have no transactions to unlink
	unpaid := suite.createFixedExpense(owner, wallet, "Academia", "80", nil)
	suite.Require().Nil(suite.service.DeleteFixedExpense(suite.T().Context(), owner.ID, unpaid.ID))
	suite.Assert().ErrorIs(suite.service.DeleteFixedExpense(suite.T().Context(), owner.ID, unpaid.ID), models.ErrResourceNotFound)
}

// Deleting the transaction of a payment keeps the month paid.
func (suite *TestSuiteStandard) TestDeletePaymentTransaction() {
	owner := suite.createTestUser("ana")
	wallet := suite.createTestWallet(owner.ID, models.CategoryStandard)
	expense := suite.createFixedExpense(owner, wallet, "Internet", "100", nil)

	payment, err := suite.service.MarkPaid(suite.T().Context(), owner.ID, expense.ID, types.Month{})
	suite.Require().Nil(err)
	suite.Require().Nil(suite.service.DeleteTransaction(suite.T().Context(), owner.ID, *payment.TransactionID))

	statuses, err := suite.service.ListFixedExpenses(suite.T().Context(), owner.ID, wallet.ID, types.Month{})
	suite.Require().Nil(err)
	suite.Require().Len(statuses, 1)
	suite.Assert().True(statuses[0].Paid)

	var stored models.FixedExpensePayment
	suite.Require().Nil(models.DB.First(&stored, "fixed_expense_id = ?", expense.ID).Error)
	suite.Assert().Nil(stored.TransactionID)
}
