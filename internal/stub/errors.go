package stub

import "errors"

var (
	// ErrInvalidToken indicates the token format is invalid or its signature doesn't match.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrWrongTokenType indicates a refresh token was presented where an access token is required.
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrUserNotFound indicates no seeded user has the requested username.
	ErrUserNotFound = errors.New("user not found")

	// ErrSuiteNotFound indicates no suite has the requested id.
	ErrSuiteNotFound = errors.New("test suite not found")
)
