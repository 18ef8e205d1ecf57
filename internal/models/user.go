package models

import (
	"strings"

	"gorm.io/gorm"
)

// User is an account that can own and join wallets.
type User struct {
	DefaultModel
	Username     string `json:"username" gorm:"uniqueIndex;not null;size:64"`
	Email        string `json:"email,omitempty"`
	PasswordHash string `json:"-" gorm:"not null"`
}

// BeforeSave trims whitespace and rejects empty usernames.
func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.TrimSpace(u.Email)

	if u.Username == "" {
		return Validation("the username must not be empty")
	}

	return nil
}
