package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/twobolsos/backend/internal/httputil"
	"github.com/twobolsos/backend/internal/models"
	"github.com/twobolsos/backend/internal/types"
)

// windowDays returns the dias query parameter, defaulting to 30.
func windowDays(c *gin.Context) (int, error) {
	var query QueryWindow
	if err := c.ShouldBindQuery(&query); err != nil {
		return 0, httputil.ErrInvalidQuery
	}

	if query.Days == nil {
		return defaultWindowDays, nil
	}

	return *query.Days, nil
}

// month returns the mes query parameter. The zero Month is returned
// when it is not set.
func month(c *gin.Context) (types.Month, error) {
	var query QueryMonth
	if err := c.ShouldBindQuery(&query); err != nil {
		return types.Month{}, httputil.ErrInvalidQuery
	}

	if query.Month == "" {
		return types.Month{}, nil
	}

	m, err := types.ParseMonth(query.Month)
	if err != nil {
		return types.Month{}, models.Validation("%s", err)
	}

	return m, nil
}
