package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrValidation = errors.New("validation failed")

// ValidationKind names the rule a project submission broke. The values double
// as the error codes the forms receive in their query string.
type ValidationKind string

const (
	KindMissingTitle ValidationKind = "missingTitle"
	KindDescTooLong  ValidationKind = "descTooLong"
	KindInvalidTeam  ValidationKind = "invalidTeam"
	KindMissingOwner ValidationKind = "missingOwner"
	KindInvalidDate  ValidationKind = "invalidDate"
)

// ValidationError is returned by pure validation code. It carries no HTTP
// concerns; callers decide how to present it.
type ValidationError struct {
	Kind   ValidationKind
	Field  string
	Detail string
	// Length is set for descTooLong
	Length int
}

func NewValidationError(kind ValidationKind, field, detail string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Detail: detail}
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Kind, e.Detail)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ApiErr converts the validation failure into a 400 response error
func (e *ValidationError) ApiErr() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        fmt.Errorf("%s: %w", e.Kind, ErrValidation),
		Details:    e.Detail,
		Field:      e.Field,
	}
}

// AsValidationError unwraps err into a *ValidationError when possible
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
