package httputil

import (
	"github.com/gin-gonic/gin"
)

// NewError writes an error response with the message of err.
func NewError(c *gin.Context, status int, err error) {
	c.JSON(status, HTTPError{
		Detail: err.Error(),
	})
}

// HTTPError is used for error responses that contain a body.
type HTTPError struct {
	Detail string `json:"detail" example:"the specified resource ID is not a valid UUID"`
}
