package httputil

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	google_uuid "github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/twobolsos/backend/internal/uuid"
)

// BindData binds the JSON body of the request to data.
//
// On failure, the error response is written and the error is returned.
func BindData(c *gin.Context, data any) error {
	if err := c.ShouldBindJSON(data); err != nil {
		if errors.Is(err, io.EOF) {
			NewError(c, http.StatusBadRequest, ErrRequestBodyEmpty)
			return ErrRequestBodyEmpty
		}

		log.Debug().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		NewError(c, http.StatusBadRequest, ErrInvalidBody)
		return ErrInvalidBody
	}

	return nil
}

// UUIDParam parses the path parameter param as UUID.
//
// On failure, the error response is written and the error is returned.
func UUIDParam(c *gin.Context, param string) (google_uuid.UUID, error) {
	var id uuid.UUID
	if err := id.UnmarshalParam(c.Param(param)); err != nil || id.IsNil() {
		NewError(c, http.StatusBadRequest, ErrInvalidUUID)
		return google_uuid.Nil, ErrInvalidUUID
	}

	return id.UUID, nil
}
