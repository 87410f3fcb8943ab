package application

import (
	"errors"
	"strings"
)

// Authentication and authorization failures. Each one is terminal for the
// request; callers map them to a status and a stable code.
var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserNotFound       = errors.New("user belonging to this token no longer exists")
	ErrPasswordChanged    = errors.New("password changed after token was issued")
	ErrForbidden          = errors.New("insufficient permissions")
)

// User management failures.
var (
	ErrWeakPassword      = errors.New("password must be at least 8 characters")
	ErrPasswordUnchanged = errors.New("new password must be different from current password")
	ErrPasswordTooLong   = errors.New("password must be at most 72 bytes")
	ErrInvalidRole       = errors.New("invalid role")
	ErrInvalidName       = errors.New("name must be at least 2 characters")
	ErrEmailTaken        = errors.New("email already registered")
)

// Submission failures.
var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrInvalidUpload      = errors.New("invalid file format, only JPG and PNG are allowed")
	ErrUploadTooLarge     = errors.New("file too large")
	ErrInvalidStatus      = errors.New("invalid status")
)

// MissingFieldsError lists the required form fields that were left empty.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}
