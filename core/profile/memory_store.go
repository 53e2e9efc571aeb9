package profile

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store implementation for tests and
// single-process use. Values are copied in and out to keep value semantics.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]*User
	workers map[uuid.UUID]*WorkerProfile
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory profile store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[uuid.UUID]*User),
		workers: make(map[uuid.UUID]*WorkerProfile),
		now:     time.Now,
	}
}

// SetClock overrides the time source. Used in tests.
func (s *MemoryStore) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(user), nil
}

func (s *MemoryStore) Insert(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return ErrAlreadyExists
	}
	s.users[user.ID] = cloneUser(user)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, id uuid.UUID, update Update) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Role != nil {
		user.Role = *update.Role
	}
	if update.FullName != nil {
		user.FullName = *update.FullName
	}
	if update.AvatarURL != nil {
		user.AvatarURL = strptr(*update.AvatarURL)
	}
	if update.Bio != nil {
		user.Bio = strptr(*update.Bio)
	}
	if update.Phone != nil {
		user.Phone = strptr(*update.Phone)
	}
	user.UpdatedAt = s.now()

	return cloneUser(user), nil
}

func (s *MemoryStore) TouchLogin(_ context.Context, id uuid.UUID, at time.Time, location *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}

	ts := at
	user.LastLogin = &ts
	user.LoginCount++
	if location != nil {
		user.LastLocation = strptr(*location)
	}
	user.UpdatedAt = s.now()
	return nil
}

func (s *MemoryStore) SetLastLocation(_ context.Context, id uuid.UUID, location string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	user.LastLocation = strptr(location)
	user.UpdatedAt = s.now()
	return nil
}

func (s *MemoryStore) LastLocation(_ context.Context, id uuid.UUID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return "", ErrNotFound
	}
	if user.LastLocation == nil {
		return "", nil
	}
	return *user.LastLocation, nil
}

func (s *MemoryStore) WorkerProfile(_ context.Context, id uuid.UUID) (*WorkerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wp, ok := s.workers[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *wp
	return &cp, nil
}

func (s *MemoryStore) InsertWorkerProfile(_ context.Context, wp *WorkerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workers[wp.ID]; ok {
		return ErrAlreadyExists
	}
	cp := *wp
	s.workers[wp.ID] = &cp
	return nil
}

func cloneUser(u *User) *User {
	cp := *u
	cp.AvatarURL = cloneStr(u.AvatarURL)
	cp.Bio = cloneStr(u.Bio)
	cp.Phone = cloneStr(u.Phone)
	cp.LastLocation = cloneStr(u.LastLocation)
	if u.LastLogin != nil {
		ts := *u.LastLogin
		cp.LastLogin = &ts
	}
	return &cp
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func strptr(s string) *string {
	return &s
}
