package authflow

import "github.com/localkaam/localkaam/core/profile"

// Snapshot is the published session state consumed by UI surfaces.
//
// Invariants: User is non-nil iff the last successfully processed
// reconciliation observed an active remote session with a resolvable
// profile. Loading is true only until the startup reconciliation resolves
// and never becomes true again, regardless of later events.
type Snapshot struct {
	User    *profile.User
	Loading bool
}

// IsAuthenticated reports whether a user is currently signed in.
func (s Snapshot) IsAuthenticated() bool {
	return s.User != nil
}
