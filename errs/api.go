package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrBadRequest = errors.New("malformed request")

// ApiErr is an error with an HTTP status. It unwraps to its sentinel so
// errors.Is(err, ErrNotFound) and friends keep working through it.
type ApiErr struct {
	StatusCode int
	err        error
	Details    string // Additional details about the error
	Field      string // Field that caused the error (for validation errors)
	Cause      error  // The underlying cause of the error
}

func (e *ApiErr) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.err.Error(), e.Details)
	}
	return e.err.Error()
}

// GetFullError returns a recursive error message including all causes
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Cause == nil {
		return msg
	}
	var apiErr *ApiErr
	if errors.As(e.Cause, &apiErr) {
		return msg + " -> " + apiErr.GetFullError()
	}
	return msg + " -> " + e.Cause.Error()
}

func (e *ApiErr) Unwrap() error {
	return e.err
}

// AsApiErr finds the ApiErr describing err. Validation failures are converted
// to their 400 form; anything else reports false.
func AsApiErr(err error) (*ApiErr, bool) {
	if ve, ok := AsValidationError(err); ok {
		return ve.ApiErr(), true
	}
	var apiErr *ApiErr
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func NewBadRequestError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadRequest, err: fmt.Errorf("%s: %w", message, ErrBadRequest)}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
