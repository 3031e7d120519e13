// Package server provides the HTTP API for the marketing site backend.
package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrAdminNotFound indicates the admin account was not found
type ErrAdminNotFound struct {
	AdminID uuid.UUID
}

func (e *ErrAdminNotFound) Error() string {
	return fmt.Sprintf("admin not found: %s", e.AdminID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotPending indicates a review decision was attempted on an article that
// has already been decided
type ErrNotPending struct {
	ArticleID uuid.UUID
}

func (e *ErrNotPending) Error() string {
	return fmt.Sprintf("article already reviewed: %s", e.ArticleID)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrEmailAlreadyExists:
		return http.StatusConflict
	case *ErrInvalidCredentials, *ErrPasswordMismatch:
		return http.StatusUnauthorized
	case *ErrAdminNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	case *ErrNotPending:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
