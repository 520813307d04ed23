package probe

import "errors"

var (
	// ErrMissingToken is returned when a successful login body carries no usable token.
	ErrMissingToken = errors.New("login response carries no token")

	// ErrInvalidJSON is returned when a body that must be JSON cannot be parsed.
	ErrInvalidJSON = errors.New("response body is not valid JSON")

	// ErrInvalidPayload is returned when the configured request payload fails validation.
	ErrInvalidPayload = errors.New("invalid request payload")
)
