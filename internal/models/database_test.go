package models_test

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/twobolsos/backend/internal/models"
)

func (suite *TestSuiteStandard) TestQueryNotFoundIsTranslated() {
	var wallet models.Wallet
	err := models.DB.First(&wallet, "id = ?", uuid.New()).Error

	suite.Require().NotNil(err)
	suite.Assert().True(errors.Is(err, models.ErrResourceNotFound))
	suite.Assert().Equal("there is no wallet matching your query", err.Error())
}

func (suite *TestSuiteStandard) TestUniqueUsernameIsConflict() {
	suite.createTestUser(models.User{Username: "ana"})

	err := models.DB.Create(&models.User{Username: "ana", PasswordHash: "x"}).Error
	suite.Assert().ErrorIs(err, models.ErrUsernameTaken)
	suite.Assert().ErrorIs(err, models.ErrConflict)
}

func (suite *TestSuiteStandard) TestDuplicateMembershipIsConflict() {
	wallet := suite.createTestWallet(models.Wallet{})
	user := suite.createTestUser(models.User{})

	m := models.Membership{WalletID: wallet.ID, UserID: user.ID, Role: models.RoleEditor}
	suite.Require().Nil(models.DB.Create(&m).Error)

	m = models.Membership{WalletID: wallet.ID, UserID: user.ID, Role: models.RoleViewer}
	err := models.DB.Create(&m).Error
	suite.Assert().ErrorIs(err, models.ErrAlreadyMember)
}

func (suite *TestSuiteStandard) TestClosedDatabaseIsUnavailable() {
	suite.CloseDB()

	var users []models.User
	err := models.DB.Find(&users).Error
	suite.Assert().ErrorIs(err, models.ErrUnavailable)
}

func (suite *TestSuiteStandard) TestConnectAppendsForeignKeyPragma() {
	// Connecting twice to the same file with an existing query string must work
	path := strings.TrimSuffix(suite.T().TempDir(), "/") + "/pragma.db"
	suite.Require().Nil(models.Connect(path + "?_pragma=busy_timeout(5000)"))

	var enabled int
	suite.Require().Nil(models.DB.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	suite.Assert().Equal(1, enabled)
}

func (suite *TestSuiteStandard) TestMemberIDs() {
	wallet := suite.createTestWallet(models.Wallet{})
	editor := suite.createTestUser(models.User{})

	suite.Require().Nil(models.DB.Create(&models.Membership{WalletID: wallet.ID, UserID: wallet.OwnerID, Role: models.RoleOwner}).Error)
	suite.Require().Nil(models.DB.Create(&models.Membership{WalletID: wallet.ID, UserID: editor.ID, Role: models.RoleEditor}).Error)

	ids, err := models.MemberIDs(suite.T().Context(), models.DB, wallet.ID)
	suite.Require().Nil(err)
	suite.Assert().ElementsMatch([]uuid.UUID{wallet.OwnerID, editor.ID}, ids)
}
