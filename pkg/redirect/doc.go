// Package redirect stashes the "return to this path after auth" state that
// a sign-in flow needs across a federated provider round trip.
//
// The contract is a single string value per visitor key with take-once
// semantics: the path is written immediately before redirecting to the
// provider, then read and cleared right after the next successful sign-in.
// A missing value is never an error; callers fall back to their home route.
//
// Two implementations are provided:
//
//   - MemoryStore: process-local, for tests and single-instance apps
//   - RedisStore: shared, TTL-bounded, for multi-instance deployments
//
// Usage:
//
//	store := redirect.NewMemoryStore()
//	_ = store.Put(ctx, visitorKey, "/offers/42")
//	// ... provider round trip ...
//	path, _ := store.Take(ctx, visitorKey) // "/offers/42", now cleared
package redirect
