package authflow

// EventType identifies an auth state change pushed by the gateway.
type EventType string

const (
	EventSignedIn       EventType = "SIGNED_IN"
	EventTokenRefreshed EventType = "TOKEN_REFRESHED"
	EventSignedOut      EventType = "SIGNED_OUT"
)

// Event is a typed auth state change. Session is set for sign-in and token
// refresh events and nil for sign-out.
type Event struct {
	Type    EventType
	Session *Session
}
