package profile

import "errors"

var (
	// ErrNotFound is returned when no profile row exists for the given id.
	ErrNotFound = errors.New("profile not found")
	// ErrAlreadyExists is returned when inserting a row whose id is taken.
	ErrAlreadyExists = errors.New("profile already exists")
	// ErrInvalidRole is returned for roles outside the known set.
	ErrInvalidRole = errors.New("invalid profile role")
)
