package models

import "errors"

// Domain specific errors for authentication and authorization.
//
// The four token verification errors stay internal: callers collapse them
// into a single failed-verification outcome so clients never learn why a
// token was rejected.
var (
	ErrMalformedToken   = errors.New("token is malformed")
	ErrExpiredToken     = errors.New("token is expired")
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrUnknownUser      = errors.New("user not found in credential store")

	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrForbidden       = errors.New("action forbidden")
	ErrBadRequest      = errors.New("bad request")
	ErrConfiguration   = errors.New("missing or invalid configuration")
)

// TokenRejected reports whether err is one of the token verification
// failures (malformed, expired, bad signature) or an unknown user.
func TokenRejected(err error) bool {
	return errors.Is(err, ErrMalformedToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrInvalidSignature) ||
		errors.Is(err, ErrUnknownUser)
}
