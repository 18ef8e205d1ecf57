package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/twobolsos/backend/internal/httputil"
	"github.com/twobolsos/backend/internal/models"
)

// RegisterHealthzRoutes registers the routes for the healthz endpoint.
func (co Controller) RegisterHealthzRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGet)
	r.GET("", co.GetHealthz)
}

// GetHealthz responds with 204 when the database can be reached.
func (co Controller) GetHealthz(c *gin.Context) {
	sqlDB, err := co.DB.DB()
	if err != nil {
		handleError(c, err)
		return
	}

	err = sqlDB.PingContext(c.Request.Context())
	if err != nil {
		handleError(c, fmt.Errorf("%w: the database cannot be accessed", models.ErrUnavailable))
		return
	}

	c.Status(http.StatusNoContent)
}
