// Package controllers implements the HTTP API of TwoBolsos.
package controllers

import (
	"net/http"

	"github.com/twobolsos/backend/internal/auth"
	"github.com/twobolsos/backend/internal/ledger"
	"github.com/twobolsos/backend/internal/realtime"
	"gorm.io/gorm"
)

// Controller holds the services the handlers use.
type Controller struct {
	DB     *gorm.DB
	Ledger *ledger.Service
	Auth   *auth.Service
	Issuer *auth.Issuer
	Hub    *realtime.Hub

	// RequireRealtimeToken rejects websocket connections without a token
	RequireRealtimeToken bool

	// CheckOrigin decides which browser origins may open a websocket.
	// All origins are allowed when it is nil.
	CheckOrigin func(r *http.Request) bool
}
