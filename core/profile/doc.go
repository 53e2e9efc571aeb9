// Package profile owns the resolved-user data model and the reconciliation
// protocol that keeps a local view of an account in sync with the remote
// profile row.
//
// # Core Components
//
//   - User: the single explicit representation of an authenticated account,
//     with all optional columns modeled as nullable pointers
//   - WorkerProfile: the optional 1:1 extension for service providers
//   - Store: persistence contract (postgres in production, MemoryStore in
//     tests and single-process deployments)
//   - Upserter: the read-then-write upsert protocol
//
// # Upsert Protocol
//
// Reconciliation is insert-if-absent, else field-preserving update:
//
//	upserter := profile.NewUpserter(store)
//	user, err := upserter.Upsert(ctx, profile.UpsertParams{
//		ID:    sessionUserID,
//		Email: "a@b.com",
//		Role:  profile.RoleWorker,
//	})
//
// On first contact the row is created with defaults (full name falls back
// to the local part of the email). On subsequent calls only the supplied
// fields are written; the stored role always wins over the hint, so a role
// chosen at signup is sticky for the account's lifetime.
//
// The protocol trades atomicity for simplicity: it is a read followed by a
// write, serialized per user id inside one process and last-write-wins
// across processes. Login counters are excluded from this tradeoff; they go
// through Store.TouchLogin, which increments server-side in one statement.
package profile
