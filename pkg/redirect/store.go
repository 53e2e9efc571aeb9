package redirect

import "context"

// Store stashes a single "path to return to after auth completes" per
// visitor key. The path is written right before a federated auth handoff
// and consumed exactly once after the next successful sign-in.
type Store interface {
	// Put stores the redirect path for the given visitor key,
	// replacing any previous value.
	Put(ctx context.Context, key, path string) error

	// Take returns the stored path and clears it. A missing key is not an
	// error: Take returns "" and callers fall back to their default route.
	Take(ctx context.Context, key string) (string, error)
}
