package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/twobolsos/backend/internal/httputil"
	"github.com/twobolsos/backend/internal/models"
)

const contextUserID = "tb-user-id"

// Middleware authenticates requests with a bearer token. Requests without
// a valid token are aborted with 401. OPTIONS requests pass unauthenticated.
func Middleware(issuer *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		// OPTIONS only describes the endpoint
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.HTTPError{Detail: models.ErrUnauthenticated.Error()})
			return
		}

		_, user, err := issuer.Parse(strings.TrimSpace(token))
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.HTTPError{Detail: err.Error()})
			return
		}

		c.Set(contextUserID, user)
		c.Next()
	}
}

// UserID returns the authenticated user of the request.
//
// It returns uuid.Nil for requests that did not pass Middleware.
func UserID(c *gin.Context) uuid.UUID {
	user, ok := c.Get(contextUserID)
	if !ok {
		return uuid.Nil
	}

	return user.(uuid.UUID)
}
