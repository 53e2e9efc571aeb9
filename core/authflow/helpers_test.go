package authflow_test

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/localkaam/localkaam/core/authflow"
	"github.com/localkaam/localkaam/core/profile"
)

// fakeGateway is a scripted in-memory stand-in for the hosted auth service.
type fakeGateway struct {
	mu       sync.Mutex
	accounts map[string]*fakeAccount
	current  *authflow.Session

	currentErr error
	signInErr  error
	signUpErr  error
	signOutErr error
	oauthURL   string
	oauthErr   error

	lastOAuth authflow.OAuthParams

	events chan authflow.Event
}

type fakeAccount struct {
	id       uuid.UUID
	password string
	role     profile.Role
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		accounts: make(map[string]*fakeAccount),
		oauthURL: "https://auth.example.com/authorize?provider=google",
		events:   make(chan authflow.Event, 16),
	}
}

func (g *fakeGateway) CurrentSession(context.Context) (*authflow.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.currentErr != nil {
		return nil, g.currentErr
	}
	if g.current == nil {
		return nil, nil
	}
	sess := *g.current
	return &sess, nil
}

func (g *fakeGateway) SignInWithPassword(_ context.Context, email, password string) (*authflow.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.signInErr != nil {
		return nil, g.signInErr
	}

	account, ok := g.accounts[email]
	if !ok || account.password != password {
		return nil, errors.New("invalid login credentials")
	}
	return &authflow.Session{
		UserID: account.id,
		Email:  email,
		Role:   account.role,
	}, nil
}

func (g *fakeGateway) SignInWithOAuth(_ context.Context, params authflow.OAuthParams) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastOAuth = params
	if g.oauthErr != nil {
		return "", g.oauthErr
	}
	return g.oauthURL, nil
}

func (g *fakeGateway) SignUp(_ context.Context, email, password string, meta authflow.SignUpMetadata) (uuid.UUID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.signUpErr != nil {
		return uuid.Nil, g.signUpErr
	}
	if _, ok := g.accounts[email]; ok {
		return uuid.Nil, errors.New("user already registered")
	}

	account := &fakeAccount{id: uuid.New(), password: password, role: meta.Role}
	g.accounts[email] = account
	return account.id, nil
}

func (g *fakeGateway) SignOut(context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.signOutErr != nil {
		return g.signOutErr
	}
	g.current = nil
	return nil
}

func (g *fakeGateway) Events() <-chan authflow.Event {
	return g.events
}

func (g *fakeGateway) emit(ev authflow.Event) {
	g.events <- ev
}

// failingUpdateStore wraps a Store and fails Update on demand.
type failingUpdateStore struct {
	profile.Store
	fail bool
}

func (s *failingUpdateStore) Update(ctx context.Context, id uuid.UUID, update profile.Update) (*profile.User, error) {
	if s.fail {
		return nil, errors.New("store unavailable")
	}
	return s.Store.Update(ctx, id, update)
}

// recordingNotifier captures surfaced messages.
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	failures  []string
	warnings  []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, msg)
}

func (n *recordingNotifier) Warning(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.warnings = append(n.warnings, msg)
}

func (n *recordingNotifier) warningCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.warnings)
}

func (n *recordingNotifier) errorCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.failures)
}

// recordingNavigator captures navigation side effects.
type recordingNavigator struct {
	mu        sync.Mutex
	paths     []string
	redirects []string
}

func (n *recordingNavigator) NavigateTo(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *recordingNavigator) Redirect(url string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.redirects = append(n.redirects, url)
}

func (n *recordingNavigator) lastPath() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.paths) == 0 {
		return ""
	}
	return n.paths[len(n.paths)-1]
}

func (n *recordingNavigator) lastRedirect() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.redirects) == 0 {
		return ""
	}
	return n.redirects[len(n.redirects)-1]
}
