package pg

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/localkaam/localkaam/core/profile"
)

// dbtx is the subset of pgx query methods shared by a pool and a transaction.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ProfileStore is the PostgreSQL implementation of profile.Store. Queries
// join an ambient transaction from the context when one is present.
type ProfileStore struct {
	pool *pgxpool.Pool
}

// NewProfileStore creates a profile store on top of the given pool.
func NewProfileStore(pool *pgxpool.Pool) *ProfileStore {
	return &ProfileStore{pool: pool}
}

func (s *ProfileStore) conn(ctx context.Context) dbtx {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return s.pool
}

const profileColumns = `id, email, role, full_name, avatar_url, bio, phone,
	last_login, login_count, last_location, created_at, updated_at`

func (s *ProfileStore) Get(ctx context.Context, id uuid.UUID) (*profile.User, error) {
	row := s.conn(ctx).QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	return scanUser(row)
}

func (s *ProfileStore) Insert(ctx context.Context, user *profile.User) error {
	_, err := s.conn(ctx).Exec(ctx,
		`INSERT INTO profiles (id, email, role, full_name, avatar_url, bio, phone,
			last_login, login_count, last_location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		user.ID, user.Email, user.Role, user.FullName, user.AvatarURL, user.Bio,
		user.Phone, user.LastLogin, user.LoginCount, user.LastLocation,
		user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if IsDuplicateKeyError(err) {
			return profile.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *ProfileStore) Update(ctx context.Context, id uuid.UUID, update profile.Update) (*profile.User, error) {
	// COALESCE keeps the stored value for every field the caller left nil,
	// so a partial update never clobbers columns it did not mention.
	row := s.conn(ctx).QueryRow(ctx,
		`UPDATE profiles SET
			email      = COALESCE($2, email),
			role       = COALESCE($3, role),
			full_name  = COALESCE($4, full_name),
			avatar_url = COALESCE($5, avatar_url),
			bio        = COALESCE($6, bio),
			phone      = COALESCE($7, phone),
			updated_at = now()
		WHERE id = $1
		RETURNING `+profileColumns,
		id, update.Email, (*string)(update.Role), update.FullName,
		update.AvatarURL, update.Bio, update.Phone)
	return scanUser(row)
}

func (s *ProfileStore) TouchLogin(ctx context.Context, id uuid.UUID, at time.Time, location *string) error {
	// login_count increments server-side in the same statement; a read then
	// write would lose updates under concurrent sessions.
	tag, err := s.conn(ctx).Exec(ctx,
		`UPDATE profiles SET
			last_login    = $2,
			login_count   = login_count + 1,
			last_location = COALESCE($3, last_location),
			updated_at    = now()
		WHERE id = $1`,
		id, at, location)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return profile.ErrNotFound
	}
	return nil
}

func (s *ProfileStore) SetLastLocation(ctx context.Context, id uuid.UUID, location string) error {
	tag, err := s.conn(ctx).Exec(ctx,
		`UPDATE profiles SET last_location = $2, updated_at = now() WHERE id = $1`,
		id, location)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return profile.ErrNotFound
	}
	return nil
}

func (s *ProfileStore) LastLocation(ctx context.Context, id uuid.UUID) (string, error) {
	var location *string
	err := s.conn(ctx).QueryRow(ctx,
		`SELECT last_location FROM profiles WHERE id = $1`, id).Scan(&location)
	if err != nil {
		if IsNotFoundError(err) {
			return "", profile.ErrNotFound
		}
		return "", err
	}
	if location == nil {
		return "", nil
	}
	return *location, nil
}

func (s *ProfileStore) WorkerProfile(ctx context.Context, id uuid.UUID) (*profile.WorkerProfile, error) {
	var wp profile.WorkerProfile
	err := s.conn(ctx).QueryRow(ctx,
		`SELECT id, service_category, experience_years, hourly_rate, rating,
			total_jobs, verification_status, created_at, updated_at
		FROM worker_profiles WHERE id = $1`, id).
		Scan(&wp.ID, &wp.ServiceCategory, &wp.ExperienceYears, &wp.HourlyRate,
			&wp.Rating, &wp.TotalJobs, &wp.VerificationStatus, &wp.CreatedAt, &wp.UpdatedAt)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, profile.ErrNotFound
		}
		return nil, err
	}
	return &wp, nil
}

func (s *ProfileStore) InsertWorkerProfile(ctx context.Context, wp *profile.WorkerProfile) error {
	_, err := s.conn(ctx).Exec(ctx,
		`INSERT INTO worker_profiles (id, service_category, experience_years,
			hourly_rate, rating, total_jobs, verification_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())`,
		wp.ID, wp.ServiceCategory, wp.ExperienceYears, wp.HourlyRate,
		wp.Rating, wp.TotalJobs, wp.VerificationStatus)
	if err != nil {
		if IsDuplicateKeyError(err) {
			return profile.ErrAlreadyExists
		}
		if IsForeignKeyViolationError(err) {
			return profile.ErrNotFound
		}
		return err
	}
	return nil
}

func scanUser(row pgx.Row) (*profile.User, error) {
	var user profile.User
	err := row.Scan(&user.ID, &user.Email, &user.Role, &user.FullName,
		&user.AvatarURL, &user.Bio, &user.Phone, &user.LastLogin,
		&user.LoginCount, &user.LastLocation, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, profile.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
