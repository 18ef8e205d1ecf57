package ledger_test

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/twobolsos/backend/internal/ledger"
	"github.com/twobolsos/backend/internal/models"
	"github.com/twobolsos/backend/internal/types"
)

func (suite *TestSuiteStandard) TestRecordTransaction() {
	owner := suite.createTestUser("ana")
	wallet := suite.createTestWallet(owner.ID, models.CategoryStandard)
	suite.notifier.reset()

	transaction := suite.record(owner.ID, wallet.ID, "receita", "150.25", ledger.TransactionInput{Description: " Venda "})
	suite.Assert().Equal(models.TypeIncome, transaction.Type)
	suite.Assert().Equal("Venda", transaction.Description)
	suite.Assert().Equal(models.DefaultTransactionTag, transaction.Tag)
	suite.Assert().Equal(types.NewDate(2024, 5, 15), transaction.Date, "The date defaults to today")
	suite.Assert().Equal(owner.ID, transaction.CreatedByID)

	suite.Assert().Equal([]string{ledger.HintDashboard}, suite.notifier.received(owner.ID))
}

func (suite *TestSuiteStandard) TestRecordTransactionFails() {
	owner := suite.createTestUser("ana")
	viewer := suite.createTestUser("bruno")
	wallet := suite.createTestWallet(owner.ID, models.CategoryStandard)
	suite.addMember(wallet.ID, viewer.ID, models.RoleViewer)

	tests := []struct {
		name string
		user uuid.UUID
		in   ledger.TransactionInput
		err  error
	}{
		{"Viewer", viewer.ID, ledger.TransactionInput{WalletID: wallet.ID, Type: models.TypeIncome, Amount: decimal.NewFromInt(1)}, models.ErrForbidden},
		{"Stranger", uuid.New(), ledger.TransactionInput{WalletID: wallet.ID, Type: models.TypeIncome, Amount: decimal.NewFromInt(1)}, models.ErrForbidden},
		{"Unknown wallet", owner.ID, ledger.TransactionInput{WalletID: uuid.New(), Type: models.TypeIncome, Amount: decimal.NewFromInt(1)}, models.ErrResourceNotFound},
		{"Negative amount", owner.ID, ledger.TransactionInput{WalletID: wallet.ID, Type: models.TypeExpense, Amount: decimal.NewFromInt(-1)}, models.ErrValidation},
		{"Unknown type", owner.ID, ledger.TransactionInput{WalletID: wallet.ID, Type: "transfer", Amount: decimal.NewFromInt(1)}, models.ErrValidation},
		{"Negative km", owner.ID, ledger.TransactionInput{WalletID: wallet.ID, Type: models.TypeExpense, Amount: decimal.NewFromInt(1), Km: decimal.NewNullDecimal(decimal.NewFromInt(-5))}, models.ErrValidation},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.RecordTransaction(suite.T().Context(), tt.user, tt.in)
			suite.Assert().ErrorIs(err, tt.err)
		})
	}

	var count int64
	models.DB.Model(&models.Transaction{}).Count(&count)
	suite.Assert().Zero(count)
}

// A wallet with income, expense and neutral transactions has a balance
// of income minus expense.
func (suite *TestSuiteStandard) TestBalanceExcludesNeutral() {
	owner := suite.createTestUser("ana")
	wallet := suite.createTestWallet(owner.ID, models.CategoryStandard)

	suite.record(owner.ID, wallet.ID, models.TypeIncome, "1000", ledger.TransactionInput{})
	suite.record(owner.ID, wallet.ID, models.TypeExpense, "250.50", ledger.TransactionInput{})
	suite.record(owner.ID, wallet.ID, models.TypeNeutral, "5000", ledger.TransactionInput{})

	balance, err := suite.service.Balance(suite.T().Context(), wallet.ID)
	suite.Require().Nil(err)
	suite.assertDecimal("749.5", balance)
}

func (suite *TestSuiteStandard) TestDeleteTransaction() {
	owner := suite.createTestUser("ana")
	editor := suite.createTestUser("bruno")
	viewer := suite.createTestUser("carla")
	wallet := suite.createTestWallet(owner.ID, models.CategoryStandard)
	suite.addMember(wallet.ID, editor.ID, models.RoleEditor)
	suite.addMember(wallet.ID, viewer.ID, models.RoleViewer)

	suite.record(owner.ID, wallet.ID, models.TypeIncome, "100", ledger.TransactionInput{})
	expense := suite.record(owner.ID, wallet.ID, models.TypeExpense, "40", ledger.TransactionInput{})

	err := suite.service.DeleteTransaction(suite.T().Context(), viewer.ID, expense.ID)
	suite.Assert().ErrorIs(err, models.ErrForbidden)

	suite.notifier.reset()
	suite.Require().Nil(suite.service.DeleteTransaction(suite.T().Context(), editor.ID, expense.ID))
	suite.Assert().Equal([]string{ledger.HintDashboard}, suite.notifier.received(viewer.ID))

	balance, err := suite.service.Balance(suite.T().Context(), wallet.ID)
	suite.Require().Nil(err)
	suite.assertDecimal("100", balance)

	err = suite.service.DeleteTransaction(suite.T().Context(), owner.ID, expense.ID)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)

	// Recording the same transaction again restores the balance
	suite.record(owner.ID, wallet.ID, models.TypeExpense, "40", ledger.TransactionInput{})
	balance, err = suite.service.Balance(suite.T().Context(), wallet.ID)
	suite.Require().Nil(err)
	suite.assertDecimal("60", balance)
}

func (suite *TestSuiteStandard) TestConcurrentRecords() {
	owner := suite.createTestUser("ana")
	wallet := suite.createTestWallet(owner.ID, models.CategoryStandard)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.service.RecordTransaction(suite.T().Context(), owner.ID, ledger.TransactionInput{
				WalletID: wallet.ID,
				Type:     models.TypeIncome,
				Amount:   decimal.RequireFromString("0.1"),
			})
			suite.Assert().Nil(err)
		}()
	}
	wg.Wait()

	balance, err := suite.service.Balance(suite.T().Context(), wallet.ID)
	suite.Require().Nil(err)
	suite.assertDecimal("2", balance)
}

func (suite *TestSuiteStandard) TestStatement() {
	owner := suite.createTestUser("ana")
	wallet := suite.createTestWallet(owner.ID, models.CategoryStandard)

	suite.record(owner.ID, wallet.ID, models.TypeIncome, "1", ledger.TransactionInput{Date: types.NewDate(2024, 4, 1), Description: "old"})
	suite.record(owner.ID, wallet.ID, models.TypeIncome, "2", ledger.TransactionInput{Date: types.NewDate(2024, 5, 1), Description: "first"})
	suite.clock.Advance(time.Minute)
	suite.record(owner.ID, wallet.ID, models.TypeExpense, "3", ledger.TransactionInput{Date: types.NewDate(2024, 5, 1), Description: "second"})
	suite.record(owner.ID, wallet.ID, models.TypeNeutral, "4", ledger.TransactionInput{Description: "today"})
	suite.record(owner.ID, wallet.ID, models.TypeIncome, "5", ledger.TransactionInput{Date: types.NewDate(2024, 5, 16), Description: "tomorrow"})

	statement, err := suite.service.Statement(suite.T().Context(), wallet.ID, 30)
	suite.Require().Nil(err)
	suite.Require().Len(statement, 3, "Transactions dated after today are outside the window")

	suite.Assert().Equal("today", statement[0].Description)
	suite.Assert().Equal("second", statement[1].Description, "Same-day transactions are ordered by creation, newest first")
	suite.Assert().Equal("first", statement[2].Description)
	suite.Assert().Equal("ana", statement[0].CreatedBy.Username)

	statement, err = suite.service.Statement(suite.T().Context(), wallet.ID, ledger.MaxWindowDays)
	suite.Require().Nil(err)
	suite.Assert().Len(statement, 4)

	_, err = suite.service.Statement(suite.T().Context(), wallet.ID, ledger.MaxWindowDays+1)
	suite.Assert().ErrorIs(err, models.ErrValidation, "Windows above the maximum are rejected")

	_, err = suite.service.Statement(suite.T().Context(), wallet.ID, 0)
	suite.Assert().ErrorIs(err, models.ErrValidation)
}

func (suite *TestSuiteStandard) TestCategoryBreakdown() {
	owner := suite.createTestUser("ana")
	wallet := suite.createTestWallet(owner.ID, models.CategoryStandard)

	suite.record(owner.ID, wallet.ID, models.TypeExpense, "10", ledger.TransactionInput{Tag: "mercado", Date: types.NewDate(2024, 5, 10)})
	suite.record(owner.ID, wallet.ID, models.TypeExpense, "15", ledger.TransactionInput{Tag: "Mercado"})
	suite.record(owner.ID, wallet.ID, models.TypeExpense, "7", ledger.TransactionInput{Tag: "Luz"})
	suite.record(owner.ID, wallet.ID, models.TypeExpense, "99", ledger.TransactionInput{Tag: "Luz", Date: types.NewDate(2023, 1, 1)})
	suite.record(owner.ID, wallet.ID, models.TypeIncome, "500", ledger.TransactionInput{Tag: "Salario"})
	suite.record(owner.ID, wallet.ID, models.TypeExpense, "40", ledger.TransactionInput{Tag: "Mercado", Date: types.NewDate(2024, 6, 1)})

	breakdown, err := suite.service.CategoryBreakdown(suite.T().Context(), wallet.ID, 30)
	suite.Require().Nil(err)
	suite.Require().Len(breakdown, 2)
	suite.assertDecimal("25", breakdown["Mercado"])
	suite.assertDecimal("7", breakdown["Luz"])
}

func (suite *TestSuiteStandard) TestTimeSeries() {
	owner := suite.createTestUser("ana")
	wallet := suite.createTestWallet(owner.ID, models.CategoryStandard)

	suite.record(owner.ID, wallet.ID, models.TypeIncome, "100", ledger.TransactionInput{Date: types.NewDate(2024, 5, 13)})
	suite.record(owner.ID, wallet.ID, models.TypeIncome, "50", ledger.TransactionInput{Date: types.NewDate(2024, 5, 13)})
	suite.record(owner.ID, wallet.ID, models.TypeExpense, "30", ledger.TransactionInput{})
	suite.record(owner.ID, wallet.ID, models.TypeNeutral, "1000", ledger.TransactionInput{})
	suite.record(owner.ID, wallet.ID, models.TypeExpense, "999", ledger.TransactionInput{Date: types.NewDate(2024, 5, 1)})

	series, err := suite.service.TimeSeries(suite.T().Context(), wallet.ID, 3)
	suite.Require().Nil(err)

	suite.Require().Len(series.Labels, 4)
	suite.Assert().Equal(types.NewDate(2024, 5, 12), series.Labels[0])
	suite.Assert().Equal(types.NewDate(2024, 5, 15), series.Labels[3])

	expectedIncome := []string{"0", "150", "0", "0"}
	expectedExpense := []string{"0", "0", "0", "30"}
	for i := range series.Labels {
		suite.assertDecimal(expectedIncome[i], series.Income[i])
		suite.assertDecimal(expectedExpense[i], series.Expense[i])
	}
}

func (suite *TestSuiteStandard) TestTodayInLocation() {
	loc := time.FixedZone("BRT", -3*60*60)

	// 01:00 UTC on May 15th is still May 14th at UTC-3
	suite.clock.Set(time.Date(2024, 5, 15, 1, 0, 0, 0, time.UTC))
	service := ledger.New(models.DB, nil, ledger.WithClock(suite.clock.Now), ledger.WithLocation(loc))

	suite.Assert().Equal(types.NewDate(2024, 5, 14), service.Today())
	suite.Assert().Equal(types.NewMonth(2024, 5), service.ThisMonth())
}
