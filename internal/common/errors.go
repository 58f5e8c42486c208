package common

import (
	"errors"
	"net/http"
)

// Operation failure sentinels. Services wrap these with context via
// fmt.Errorf("...: %w", ...); handlers match with errors.Is and translate
// once at the boundary.
var (
	// ErrWeakPassword rejects passwords failing the strength policy.
	ErrWeakPassword = errors.New("password does not meet strength requirements")

	// ErrEmailTaken rejects registration against an existing email.
	ErrEmailTaken = errors.New("user already exists")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is the uniform failure for malformed, tampered,
	// expired and wrong-purpose tokens. Callers must not learn which.
	ErrInvalidToken = errors.New("invalid or expired token")

	ErrAccountDeleted  = errors.New("account has been deleted")
	ErrAccountInactive = errors.New("account is not active")
	ErrNotFound        = errors.New("user not found")
)

// HTTPStatus maps an operation error to its response status class.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrWeakPassword):
		return http.StatusBadRequest
	case errors.Is(err, ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrAccountDeleted), errors.Is(err, ErrAccountInactive):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the caller-facing message for an error. Internal
// failures are masked; sentinel errors surface their own text.
func PublicMessage(err error) string {
	for _, sentinel := range []error{
		ErrWeakPassword,
		ErrEmailTaken,
		ErrInvalidCredentials,
		ErrInvalidToken,
		ErrAccountDeleted,
		ErrAccountInactive,
		ErrNotFound,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "internal server error"
}
