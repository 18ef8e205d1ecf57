package realtime

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/twobolsos/backend/internal/httputil"
	"github.com/twobolsos/backend/internal/models"
)

var errForeignUser = models.Forbidden("you may only subscribe to your own hints")

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 512
)

// HandlerConfig configures the websocket endpoint.
type HandlerConfig struct {
	// Authenticate resolves a token to the user it was issued to.
	Authenticate func(token string) (uuid.UUID, error)

	// RequireToken rejects connections without a ?token= query parameter.
	// A token that is present is always checked.
	RequireToken bool

	// CheckOrigin decides whether a browser origin may connect. All origins
	// are allowed when it is nil.
	CheckOrigin func(r *http.Request) bool
}

// Handler serves GET /ws/:user_id. The connection receives the hints for the
// user as text frames. Messages sent by the client are discarded.
func (h *Hub) Handler(config HandlerConfig) gin.HandlerFunc {
	checkOrigin := config.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin,
	}

	return func(c *gin.Context) {
		user, err := uuid.Parse(c.Param("user_id"))
		if err != nil {
			httputil.NewError(c, http.StatusBadRequest, httputil.ErrInvalidUUID)
			return
		}

		token := c.Query("token")
		if token == "" && config.RequireToken {
			httputil.NewError(c, http.StatusUnauthorized, models.ErrUnauthenticated)
			return
		}

		if token != "" {
			if config.Authenticate == nil {
				httputil.NewError(c, http.StatusUnauthorized, models.ErrUnauthenticated)
				return
			}

			authenticated, err := config.Authenticate(token)
			if err != nil {
				httputil.NewError(c, http.StatusUnauthorized, err)
				return
			}

			if authenticated != user {
				httputil.NewError(c, http.StatusForbidden, errForeignUser)
				return
			}
		}

		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// The upgrader has already written the error response
			log.Debug().Str("request-id", requestid.Get(c)).Err(err).Msg("websocket upgrade failed")
			return
		}

		conn := h.Register(user)
		log.Debug().Str("user", user.String()).Msg("realtime connection opened")

		go writePump(ws, conn)
		readPump(ws)

		h.Unregister(conn)
		log.Debug().Str("user", user.String()).Msg("realtime connection closed")
	}
}

// readPump consumes client messages until the connection fails. It keeps the
// read deadline alive with pongs.
func readPump(ws *websocket.Conn) {
	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) && !errors.Is(err, websocket.ErrCloseSent) {
				log.Debug().Err(err).Msg("realtime read failed")
			}
			return
		}
	}
}

// writePump writes hints and pings until the hint channel is closed or a
// write fails. It owns closing the websocket.
func writePump(ws *websocket.Conn, conn *Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ws.Close()
	}()

	for {
		select {
		case hint, ok := <-conn.Hints():
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := ws.WriteMessage(websocket.TextMessage, []byte(hint)); err != nil {
				return
			}

		case <-ticker.C:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
