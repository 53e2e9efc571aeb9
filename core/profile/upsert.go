package profile

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Upserter implements the read-then-write profile reconciliation protocol:
// fetch by id, insert full defaults when absent, otherwise update only the
// caller-supplied fields while preserving what is already stored.
//
// The protocol is deliberately not a single atomic upsert. Overlapping
// reconciliations for the same id are serialized within this process by a
// per-id mutex; across processes the outcome is last-write-wins.
type Upserter struct {
	store Store
	now   func() time.Time

	mu       sync.Mutex
	inflight map[string]*sync.Mutex
}

// UpserterOption is a functional option for configuring the Upserter.
type UpserterOption func(*Upserter)

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) UpserterOption {
	return func(u *Upserter) {
		if now != nil {
			u.now = now
		}
	}
}

// NewUpserter creates an Upserter on top of the given store.
func NewUpserter(store Store, opts ...UpserterOption) *Upserter {
	u := &Upserter{
		store:    store,
		now:      time.Now,
		inflight: make(map[string]*sync.Mutex),
	}

	for _, opt := range opts {
		opt(u)
	}

	return u
}

// Upsert reconciles the observed identity with the stored profile and
// returns the resulting row. Calling it twice with the same params and no
// intervening external mutation is idempotent.
func (u *Upserter) Upsert(ctx context.Context, params UpsertParams) (*User, error) {
	unlock := u.lock(params.ID.String())
	defer unlock()

	existing, err := u.store.Get(ctx, params.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if existing == nil {
		return u.insertDefaults(ctx, params)
	}

	update := Update{Email: &params.Email}
	if params.FullName != "" {
		update.FullName = &params.FullName
	}
	if params.AvatarURL != "" {
		update.AvatarURL = &params.AvatarURL
	}
	// Existing role always wins; the hint only fills an absent value.
	if existing.Role == "" {
		role := fallbackRole(params.Role)
		update.Role = &role
	}

	return u.store.Update(ctx, params.ID, update)
}

// insertDefaults creates the initial profile row for a never-seen id.
func (u *Upserter) insertDefaults(ctx context.Context, params UpsertParams) (*User, error) {
	now := u.now()
	user := &User{
		ID:        params.ID,
		Email:     params.Email,
		Role:      fallbackRole(params.Role),
		FullName:  params.FullName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if user.FullName == "" {
		user.FullName = DefaultFullName(params.Email)
	}
	if params.AvatarURL != "" {
		avatar := params.AvatarURL
		user.AvatarURL = &avatar
	}

	if err := u.store.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// lock serializes reconciliations per user id within this process. The
// mutex set grows with the ids seen by one client, which stays tiny.
func (u *Upserter) lock(key string) func() {
	u.mu.Lock()
	m, ok := u.inflight[key]
	if !ok {
		m = &sync.Mutex{}
		u.inflight[key] = m
	}
	u.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func fallbackRole(role Role) Role {
	if role.Valid() {
		return role
	}
	return RoleCustomer
}
