package authpair

import (
	"errors"
	"net/http"
)

var (
	// ErrConflict is returned by Register when the login is already taken.
	ErrConflict = errors.New("user already exists")
	// ErrPasswordMismatch is returned by Register when the confirmation
	// does not match the password.
	ErrPasswordMismatch = errors.New("password confirmation mismatch")
	// ErrUserNotFound is returned when no account exists for a login. It is
	// also the sentinel UserStore implementations return for absent rows.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned by Login on a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrRefreshInvalid means the presented refresh token is absent or not
	// structurally a token.
	ErrRefreshInvalid = errors.New("invalid refresh token")
	// ErrRefreshStale means the presented refresh token is past its expiry.
	ErrRefreshStale = errors.New("stale refresh token")
	// ErrRefreshSignature means the refresh token was not signed with the
	// engine's key.
	ErrRefreshSignature = errors.New("bad refresh token key")
	// ErrRefreshCompromised means a valid-looking refresh token is not the
	// one currently stored for its login: either it was already rotated or
	// the session record is gone. The token is treated as stolen.
	ErrRefreshCompromised = errors.New("compromised refresh token")

	// ErrAccessCompromised means a verifiable access token is not the one
	// currently stored for its login.
	ErrAccessCompromised = errors.New("compromised access token")
	// ErrUnauthorized covers access tokens that fail verification outright.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrStoreUnavailable wraps backend faults from the session store.
	ErrStoreUnavailable = errors.New("storage unavailable")
	// ErrEngineNotReady is returned when a Builder is misused.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// StatusCode translates an engine error into the HTTP status code the
// outermost transport layer should answer with. It is the single place
// errors cross into HTTP semantics; everything inside the engine works
// with the sentinels above via errors.Is. Unknown errors map to 500.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrPasswordMismatch):
		return http.StatusBadRequest
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrInvalidCredentials):
		// A wrong password answers exactly like an unknown login so the
		// endpoint cannot be used to enumerate accounts.
		return http.StatusNotFound
	case errors.Is(err, ErrRefreshInvalid),
		errors.Is(err, ErrRefreshStale),
		errors.Is(err, ErrRefreshSignature),
		errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrRefreshCompromised), errors.Is(err, ErrAccessCompromised):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
