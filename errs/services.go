package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrConfigMissing   = errors.New("configuration missing")
	ErrUpstreamFailure = errors.New("upstream service failed")
)

func NewConfigMissingError(key string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("%s is not configured", key),
		Field:      key,
	}
}

// NewUpstreamError wraps a failed call to an outside service such as Slack, Twilio or S3
func NewUpstreamError(service string, statusCode int, cause error) *ApiErr {
	details := fmt.Sprintf("%s request failed", service)
	if statusCode != 0 {
		details = fmt.Sprintf("%s returned status %d", service, statusCode)
	}
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrUpstreamFailure,
		Details:    details,
		Cause:      cause,
	}
}
