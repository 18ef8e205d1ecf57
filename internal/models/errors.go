package models

import (
	"errors"
	"fmt"
)

// Error kinds. Errors returned from this module wrap exactly one of them
// so that callers can classify them with errors.Is.
var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
	ErrValidation       = errors.New("the request contains invalid data")
	ErrUnauthenticated  = errors.New("you are not authenticated")
	ErrForbidden        = errors.New("you are not allowed to do this")
	ErrConflict         = errors.New("the request conflicts with the current state")
	ErrUnavailable      = errors.New("the service is temporarily unavailable, please try again later")
)

var (
	ErrUsernameTaken   = kinded(ErrConflict, "this username is already taken")
	ErrAlreadyMember   = kinded(ErrConflict, "the user is already a member of this wallet")
	ErrInviteInvalid   = kinded(ErrConflict, "the invite code is invalid, already used or expired")
	ErrNameEmpty       = kinded(ErrValidation, "the name must not be empty")
	ErrAmountNegative  = kinded(ErrValidation, "the amount must not be negative")
	ErrMetricNegative  = kinded(ErrValidation, "km and litros must not be negative")
	ErrDueDayRange     = kinded(ErrValidation, "the due day must be between 1 and 31")
	ErrDurationInvalid = kinded(ErrValidation, "the duration in months must be positive")
)

// kindError is an error with its own message that still matches
// its kind with errors.Is.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string {
	return e.msg
}

func (e *kindError) Unwrap() error {
	return e.kind
}

func kinded(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Validation returns an error of kind ErrValidation.
func Validation(format string, args ...any) error {
	return kinded(ErrValidation, fmt.Sprintf(format, args...))
}

// Forbidden returns an error of kind ErrForbidden.
func Forbidden(format string, args ...any) error {
	return kinded(ErrForbidden, fmt.Sprintf(format, args...))
}

// NotFound returns an error of kind ErrResourceNotFound.
func NotFound(format string, args ...any) error {
	return kinded(ErrResourceNotFound, fmt.Sprintf(format, args...))
}

// Unauthenticated returns an error of kind ErrUnauthenticated.
func Unauthenticated(format string, args ...any) error {
	return kinded(ErrUnauthenticated, fmt.Sprintf(format, args...))
}
