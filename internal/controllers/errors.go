package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/twobolsos/backend/internal/httputil"
	"github.com/twobolsos/backend/internal/models"
	"gorm.io/gorm"
)

var (
	errWalletIDNotSet = models.Validation("negocio_id must be set")
	errCodeNotSet     = models.Validation("the code query parameter must be set")
)

// status returns the HTTP status code for an error.
func status(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, httputil.ErrInvalidUUID),
		errors.Is(err, httputil.ErrInvalidQuery),
		errors.Is(err, httputil.ErrInvalidBody),
		errors.Is(err, httputil.ErrRequestBodyEmpty):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrResourceNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrUnavailable):
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}

// handleError writes the error response for err.
//
// Errors of unknown kind are logged with the request id and their message
// is not sent to the client.
func handleError(c *gin.Context, err error) {
	code := status(err)
	if code != http.StatusInternalServerError {
		httputil.NewError(c, code, err)
		return
	}

	id := requestid.Get(c)
	log.Error().Str("request-id", id).Msgf("%T: %v", err, err.Error())
	httputil.NewError(c, code, fmt.Errorf("%w, please contact your server administrator. The request id is '%v', send this to your server administrator to help them finding the problem", models.ErrGeneral, id))
}
