package controllers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/twobolsos/backend/internal/controllers"
	"github.com/twobolsos/backend/internal/ledger"
)

func (suite *TestSuiteStandard) TestRealtimeHints() {
	ana := suite.login("ana")
	bruno := suite.login("bruno")
	wallet := suite.createWallet(ana.AccessToken, "Casa", "STANDARD")
	suite.join(ana.AccessToken, bruno.AccessToken, wallet.ID)

	server := httptest.NewServer(suite.engine)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/" + bruno.UserID.String() + "?token=" + bruno.AccessToken
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	suite.Require().Nil(err)
	defer ws.Close()

	suite.Require().Eventually(func() bool { return suite.hub.Connections() == 1 }, time.Second, 5*time.Millisecond)

	suite.createTransaction(ana.AccessToken, controllers.TransactionEditable{
		WalletID: wallet.ID,
		Type:     "expense",
		Amount:   decimal.NewFromInt(42),
	})

	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := ws.ReadMessage()
	suite.Require().Nil(err)
	suite.Assert().Equal(ledger.HintDashboard, string(data))
}

func (suite *TestSuiteStandard) TestRealtimeForeignToken() {
	ana := suite.login("ana")
	bruno := suite.login("bruno")

	server := httptest.NewServer(suite.engine)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/" + bruno.UserID.String() + "?token=" + ana.AccessToken
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	suite.Assert().ErrorIs(err, websocket.ErrBadHandshake)
	suite.Require().NotNil(resp)
	suite.Assert().Equal(http.StatusForbidden, resp.StatusCode)
}
