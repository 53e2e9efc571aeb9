package profile

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies which side of the marketplace an account belongs to.
// Set at signup and sticky afterwards: reconciliation never downgrades an
// existing role.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleWorker   Role = "worker"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleWorker
}

// VerificationStatus tracks worker vetting. Owned by back-office processes;
// this codebase only ever writes the initial pending state.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// User is the single resolved representation of an authenticated account.
// All optional columns are explicit nullable pointers; User values are
// constructed in exactly one place (the Upserter) and copied by value from
// there on.
type User struct {
	ID       uuid.UUID
	Email    string
	Role     Role
	FullName string

	AvatarURL *string
	Bio       *string
	Phone     *string

	// LastLogin and LoginCount are maintained by login analytics and are
	// monotonically non-decreasing.
	LastLogin    *time.Time
	LoginCount   int
	LastLocation *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WorkerProfile is the optional 1:1 extension created when a worker
// completes their profile. Rating, TotalJobs and VerificationStatus are
// written by server-side processes outside this codebase.
type WorkerProfile struct {
	ID                 uuid.UUID
	ServiceCategory    string
	ExperienceYears    int
	HourlyRate         float64
	Rating             float64
	TotalJobs          int
	VerificationStatus VerificationStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Update carries caller-supplied mutable fields. Nil pointers preserve the
// existing column value; each update touches only what the caller set.
type Update struct {
	Email     *string
	Role      *Role
	FullName  *string
	AvatarURL *string
	Bio       *string
	Phone     *string
}

// IsEmpty reports whether the update would change nothing.
func (u Update) IsEmpty() bool {
	return u.Email == nil && u.Role == nil && u.FullName == nil &&
		u.AvatarURL == nil && u.Bio == nil && u.Phone == nil
}

// UpsertParams describes the identity observed on a remote session. Role,
// FullName and AvatarURL are hints from signup metadata or a federated
// provider and may be absent.
type UpsertParams struct {
	ID        uuid.UUID
	Email     string
	Role      Role
	FullName  string
	AvatarURL string
}

// DefaultFullName derives a display name from the local part of an email
// address, used when neither the profile nor the provider supplies one.
func DefaultFullName(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
