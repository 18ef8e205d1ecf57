// Package auth hashes passwords, issues and validates bearer tokens and
// authenticates HTTP requests.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/twobolsos/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// TokenType is the token_type reported to clients.
const TokenType = "bearer"

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Claims are the claims of an access token.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserID returns the ID of the user the token was issued to.
func (c Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// Issuer signs and validates access tokens with a shared secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an Issuer for HS256 tokens valid for ttl.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue returns a signed access token for the user.
func (i *Issuer) Issue(user uuid.UUID, username string) (string, error) {
	now := i.now()

	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return token, nil
}

// Parse validates a token and returns its claims.
//
// All validation failures are of kind models.ErrUnauthenticated.
func (i *Issuer) Parse(token string) (Claims, uuid.UUID, error) {
	var claims Claims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return Claims{}, uuid.Nil, models.Unauthenticated("the token has expired")
	} else if err != nil || !parsed.Valid {
		return Claims{}, uuid.Nil, models.Unauthenticated("the token is invalid")
	}

	user, err := claims.UserID()
	if err != nil {
		return Claims{}, uuid.Nil, models.Unauthenticated("the token is invalid")
	}

	return claims, user, nil
}
