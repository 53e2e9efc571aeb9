package supabase

import "errors"

var (
	ErrRequestFailed      = errors.New("auth service request failed")
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidToken       = errors.New("invalid access token")
	ErrNoRefreshToken     = errors.New("no refresh token available")
	ErrEmptyURL           = errors.New("empty auth service URL")
	ErrEmptyAnonKey       = errors.New("empty anon key")
)
