// Package uuid wraps google/uuid so that IDs can be bound from
// URI and query parameters by gin.
package uuid

import (
	google_uuid "github.com/google/uuid"
)

type UUID struct {
	google_uuid.UUID
}

var Nil UUID

func New() UUID {
	return UUID{google_uuid.New()}
}

// Parse parses a UUID in any format accepted by google/uuid.
func Parse(s string) (UUID, error) {
	parsed, err := google_uuid.Parse(s)
	if err != nil {
		return Nil, err
	}

	return UUID{parsed}, nil
}

// UnmarshalParam implements gin's BindUnmarshaler for UUID.
// An empty parameter yields Nil.
func (u *UUID) UnmarshalParam(p string) error {
	if p == "" {
		*u = Nil
		return nil
	}

	parsed, err := Parse(p)
	if err != nil {
		return err
	}

	*u = parsed
	return nil
}

// IsNil reports whether u is the Nil UUID.
func (u UUID) IsNil() bool {
	return u.UUID == google_uuid.Nil
}
