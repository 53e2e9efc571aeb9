package profile

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store defines the persistence contract for profiles and their worker
// extensions. Implementations must handle concurrent access safely.
//
// TouchLogin must increment login_count server-side in a single statement;
// a client-side read-modify-write would lose updates under concurrent
// sessions for the same account.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (*User, error)
	Insert(ctx context.Context, user *User) error
	Update(ctx context.Context, id uuid.UUID, update Update) (*User, error)

	// TouchLogin records a successful login: sets last_login to at,
	// atomically increments login_count, and updates last_location only
	// when location is non-nil.
	TouchLogin(ctx context.Context, id uuid.UUID, at time.Time, location *string) error

	// SetLastLocation updates only the last_location column.
	SetLastLocation(ctx context.Context, id uuid.UUID, location string) error

	// LastLocation returns the persisted last_location, or "" when the
	// account has never resolved one.
	LastLocation(ctx context.Context, id uuid.UUID) (string, error)

	WorkerProfile(ctx context.Context, id uuid.UUID) (*WorkerProfile, error)
	InsertWorkerProfile(ctx context.Context, wp *WorkerProfile) error
}
