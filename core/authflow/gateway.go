package authflow

import (
	"context"

	"github.com/google/uuid"

	"github.com/localkaam/localkaam/core/profile"
)

// Session is the identity observed on the remote auth service. FullName,
// AvatarURL and Role are hints carried in signup or federated provider
// metadata and may be absent.
type Session struct {
	UserID      uuid.UUID
	Email       string
	FullName    string
	AvatarURL   string
	Role        profile.Role
	AccessToken string
}

// OAuthParams describes a federated sign-in request.
type OAuthParams struct {
	Provider    string
	RedirectTo  string
	QueryParams map[string]string
}

// SignUpMetadata is attached to a new account at creation time.
type SignUpMetadata struct {
	Role profile.Role
}

// Gateway is the contract the session core consumes from the hosted
// auth service. Implementations live under integration/gateway.
type Gateway interface {
	// CurrentSession returns the active remote session, or (nil, nil)
	// when nobody is signed in.
	CurrentSession(ctx context.Context) (*Session, error)

	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)

	// SignInWithOAuth returns the provider authorization URL the caller
	// must hand the navigation off to.
	SignInWithOAuth(ctx context.Context, params OAuthParams) (string, error)

	SignUp(ctx context.Context, email, password string, meta SignUpMetadata) (uuid.UUID, error)

	SignOut(ctx context.Context) error

	// Events returns the channel the gateway pushes auth state changes on.
	// The channel is closed when the gateway shuts down.
	Events() <-chan Event
}
