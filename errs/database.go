package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
)

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

// NewDatabaseError turns a store failure into a response error. Errors that
// already carry a status pass through; driver messages are matched loosely
// because Postgres and SQLite word them differently.
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return apiErr
	}

	details := fmt.Sprintf("Failed to %s %s", operation, entity)
	e := &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
	if cause == nil {
		return e
	}

	msg := strings.ToLower(cause.Error())
	switch {
	case errors.Is(cause, context.DeadlineExceeded):
		e.StatusCode = http.StatusServiceUnavailable
		e.err = ErrDatabaseConnection
		e.Details = "Database did not answer in time"
	case strings.Contains(msg, "duplicate key"), strings.Contains(msg, "unique constraint"):
		e.StatusCode = http.StatusConflict
		e.err = fmt.Errorf("%s already exists", entity)
	case strings.Contains(msg, "foreign key constraint"):
		e.StatusCode = http.StatusBadRequest
		e.err = fmt.Errorf("invalid reference in %s", entity)
		e.Details = "The referenced resource does not exist or cannot be linked"
	case strings.Contains(msg, "not found"):
		e.StatusCode = http.StatusNotFound
		e.err = fmt.Errorf("%s %w", entity, ErrNotFound)
	case strings.Contains(msg, "connection"), strings.Contains(msg, "timeout"), strings.Contains(msg, "database is locked"):
		e.StatusCode = http.StatusServiceUnavailable
		e.err = ErrDatabaseConnection
		e.Details = "Unable to connect to database"
	}
	return e
}
