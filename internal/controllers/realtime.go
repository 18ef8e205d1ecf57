package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/twobolsos/backend/internal/realtime"
)

// RegisterRealtimeRoutes registers the websocket endpoint.
func (co Controller) RegisterRealtimeRoutes(r *gin.RouterGroup) {
	r.GET("/:user_id", co.Hub.Handler(realtime.HandlerConfig{
		Authenticate: co.authenticate,
		RequireToken: co.RequireRealtimeToken,
		CheckOrigin:  co.CheckOrigin,
	}))
}

func (co Controller) authenticate(token string) (uuid.UUID, error) {
	_, user, err := co.Issuer.Parse(token)
	return user, err
}
