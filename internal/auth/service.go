package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/twobolsos/backend/internal/models"
	"gorm.io/gorm"
)

// MinPasswordLength is the minimum number of characters of a password.
const MinPasswordLength = 6

// errInvalidCredentials does not reveal whether the username exists.
var errInvalidCredentials = models.Unauthenticated("incorrect username or password")

// Session is the result of a successful login.
type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	UserID      uuid.UUID `json:"user_id"`
	Username    string    `json:"username"`
}

// Service registers and logs in users.
type Service struct {
	db     *gorm.DB
	issuer *Issuer
}

// NewService returns a Service storing users in db and issuing tokens with issuer.
func NewService(db *gorm.DB, issuer *Issuer) *Service {
	return &Service{db: db, issuer: issuer}
}

// Register creates a user. Usernames are unique.
func (s *Service) Register(ctx context.Context, username, password, email string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.User{}, models.Validation("the username must not be empty")
	}

	if len(password) < MinPasswordLength {
		return models.User{}, models.Validation("the password must have at least %d characters", MinPasswordLength)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return models.User{}, err
	}

	log.Info().Str("user", user.ID.String()).Msg("registered user")
	return user, nil
}

// Login checks the credentials of a user and issues an access token.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		return Session{}, errInvalidCredentials
	} else if err != nil {
		return Session{}, err
	}

	if !CheckPassword(user.PasswordHash, password) {
		return Session{}, errInvalidCredentials
	}

	token, err := s.issuer.Issue(user.ID, user.Username)
	if err != nil {
		return Session{}, err
	}

	return Session{
		AccessToken: token,
		TokenType:   TokenType,
		UserID:      user.ID,
		Username:    user.Username,
	}, nil
}

// User returns a user by ID.
func (s *Service) User(ctx context.Context, id uuid.UUID) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	return user, err
}
