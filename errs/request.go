package errs

import (
	"errors"
	"net/http"
)

// Authentication & Authorization Errors
var (
	ErrMissingToken = errors.New("missing access token")
	ErrInvalidToken = errors.New("invalid access token")
	ErrNotAdmin     = errors.New("admin access required")
	ErrDomainDenied = errors.New("email domain not allowed")
)

func NewInvalidTokenError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrInvalidToken,
		Details:    "Invalid access token",
		Field:      "authorization",
		Cause:      cause,
	}
}

func NewNotAdminError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrNotAdmin,
		Details:    "Sign in as an admin to change the catalog",
		Field:      "authorization",
	}
}

func NewDomainDeniedError(email string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrDomainDenied,
		Details:    email + " is not in the admin domain",
		Field:      "email",
	}
}
