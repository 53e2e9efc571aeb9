package authflow

import "errors"

var (
	// ErrNotInitialized is returned when the flow is used before construction.
	ErrNotInitialized = errors.New("auth flow is not initialized")
	// ErrNotAuthenticated is returned by operations requiring a signed-in user.
	ErrNotAuthenticated = errors.New("no authenticated user")
	// ErrAuthFailed wraps gateway failures: invalid credentials, duplicate
	// accounts, unreachable service.
	ErrAuthFailed = errors.New("authentication failed")
	// ErrSignOutFailed is returned when the gateway rejects a sign-out;
	// local state is left unchanged in that case.
	ErrSignOutFailed = errors.New("sign out failed")
	// ErrProfileSync wraps profile upsert failures. Surfaced from explicit
	// sign-in/sign-up, swallowed during passive reconciliation.
	ErrProfileSync = errors.New("failed to sync profile")
	// ErrNoGateway is returned when constructing a flow without a gateway.
	ErrNoGateway = errors.New("gateway is required")
	// ErrNoProfileStore is returned when constructing a flow without a store.
	ErrNoProfileStore = errors.New("profile store is required")
)

// ValidationError describes a rejected form input. It is surfaced to the
// user through the notifier and returned to the caller, which should stop
// it at the form boundary instead of propagating it further.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
