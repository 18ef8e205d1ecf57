package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultModel is the base model for all entities with their own ID.
type DefaultModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey" example:"65392deb-5e92-4268-b114-297faad6cdce"`
	CreatedAt time.Time `json:"created_at" example:"2024-04-02T19:28:44.491514Z"`
}

// AfterFind updates the timestamps to use UTC as
// timezone, not +0000. Yes, this is different.
//
// We already store them in UTC, but somehow reading
// them from the database returns them as +0000.
func (m *DefaultModel) AfterFind(_ *gorm.DB) (err error) {
	m.CreatedAt = m.CreatedAt.In(time.UTC)
	return nil
}

// BeforeCreate generates a UUID for the resource unless one is set.
func (m *DefaultModel) BeforeCreate(_ *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
