package authflow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/localkaam/localkaam/core/analytics"
	"github.com/localkaam/localkaam/core/logger"
	"github.com/localkaam/localkaam/core/profile"
	"github.com/localkaam/localkaam/pkg/redirect"
)

// DefaultRedirectKey is the stash key used when the consumer does not
// scope redirect paths per visitor.
const DefaultRedirectKey = "default"

// Flow owns the in-memory session state for one client and reconciles it
// with the remote auth gateway: once on startup and again on every auth
// event the gateway pushes.
//
// A Flow must be constructed with New and started with Start; the zero
// value is unusable and every operation on it reports ErrNotInitialized.
type Flow struct {
	gateway   Gateway
	store     profile.Store
	upserter  *profile.Upserter
	recorder  *analytics.Recorder
	detector  *analytics.Detector
	redirects redirect.Store

	redirectKey string
	nav         Navigator
	notify      Notifier
	log         *slog.Logger

	mu   sync.RWMutex
	snap Snapshot
	// generation invalidates in-flight reconciliations across Stop/Start
	// cycles: work captured under an older generation is discarded instead
	// of applied. A plain boolean would misbehave on rapid stop/start.
	generation uint64
	running    bool
	stop       chan struct{}

	subs    map[int]chan Snapshot
	nextSub int
}

// Option is a functional option for configuring the Flow.
type Option func(*Flow)

// WithLogger configures structured logging for the flow.
func WithLogger(log *slog.Logger) Option {
	return func(f *Flow) {
		if log != nil {
			f.log = log
		}
	}
}

// WithNavigator sets the receiver of navigation side effects.
func WithNavigator(nav Navigator) Option {
	return func(f *Flow) {
		if nav != nil {
			f.nav = nav
		}
	}
}

// WithNotifier sets the receiver of user-facing notifications.
func WithNotifier(n Notifier) Option {
	return func(f *Flow) {
		if n != nil {
			f.notify = n
		}
	}
}

// WithRecorder replaces the default login analytics recorder.
func WithRecorder(r *analytics.Recorder) Option {
	return func(f *Flow) {
		if r != nil {
			f.recorder = r
		}
	}
}

// WithDetector enables the suspicious login check on sign-in
// reconciliations. Without it the check is skipped.
func WithDetector(d *analytics.Detector) Option {
	return func(f *Flow) {
		f.detector = d
	}
}

// WithRedirectStore replaces the default in-memory post-auth redirect stash.
func WithRedirectStore(s redirect.Store) Option {
	return func(f *Flow) {
		if s != nil {
			f.redirects = s
		}
	}
}

// WithRedirectKey scopes the redirect stash to a visitor key.
func WithRedirectKey(key string) Option {
	return func(f *Flow) {
		if key != "" {
			f.redirectKey = key
		}
	}
}

// WithUpserter replaces the default upserter built on the profile store.
func WithUpserter(u *profile.Upserter) Option {
	return func(f *Flow) {
		if u != nil {
			f.upserter = u
		}
	}
}

// New creates a session flow on top of the given gateway and profile store.
// The flow starts in the loading state; call Start to reconcile.
func New(gateway Gateway, store profile.Store, opts ...Option) (*Flow, error) {
	if gateway == nil {
		return nil, ErrNoGateway
	}
	if store == nil {
		return nil, ErrNoProfileStore
	}

	f := &Flow{
		gateway:     gateway,
		store:       store,
		redirectKey: DefaultRedirectKey,
		nav:         NopNavigator{},
		notify:      NopNotifier{},
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		snap:        Snapshot{Loading: true},
		subs:        make(map[int]chan Snapshot),
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.upserter == nil {
		f.upserter = profile.NewUpserter(store)
	}
	if f.recorder == nil {
		f.recorder = analytics.NewRecorder(store)
	}
	if f.redirects == nil {
		f.redirects = redirect.NewMemoryStore()
	}

	return f, nil
}

// Start runs the startup reconciliation and begins consuming gateway auth
// events. The loading state resolves before Start returns, to Authenticated
// when an active remote session with a resolvable profile exists and to
// Anonymous otherwise; a reconciliation failure also resolves to Anonymous
// rather than leaving the flow stuck loading.
func (f *Flow) Start(ctx context.Context) error {
	if err := f.ready(); err != nil {
		return err
	}

	f.mu.Lock()
	if f.running {
		f.mu.Unlock()
		return nil
	}
	f.running = true
	f.generation++
	gen := f.generation
	stop := make(chan struct{})
	f.stop = stop
	f.mu.Unlock()

	f.initialize(ctx, gen)

	go f.consume(ctx, gen, stop)
	return nil
}

// Stop releases the event subscription. Safe to call more than once; only
// the first call takes effect. In-flight reconciliations that complete
// after Stop are discarded by the generation guard instead of applied.
func (f *Flow) Stop() {
	if f == nil {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.running {
		return
	}
	f.running = false
	f.generation++
	close(f.stop)
	f.stop = nil
}

// Current returns a copy of the published session state.
func (f *Flow) Current() Snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return copySnapshot(f.snap)
}

// User returns the signed-in user, or nil when anonymous or still loading.
func (f *Flow) User() *profile.User {
	return f.Current().User
}

// IsLoading reports whether the startup reconciliation has not resolved yet.
func (f *Flow) IsLoading() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snap.Loading
}

// Subscribe registers a consumer for session state changes. Each published
// snapshot is delivered non-blocking; slow consumers miss intermediate
// states but always receive the latest on the next change. The returned
// cancel function releases the subscription and closes the channel.
func (f *Flow) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	f.mu.Lock()
	id := f.nextSub
	f.nextSub++
	f.subs[id] = ch
	f.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			close(ch)
			f.mu.Unlock()
		})
	}
	return ch, cancel
}

// initialize is the startup half of reconciliation.
func (f *Flow) initialize(ctx context.Context, gen uint64) {
	sess, err := f.gateway.CurrentSession(ctx)
	if err != nil {
		f.log.ErrorContext(ctx, "failed to read current session", logger.Error(err))
		f.notify.Error("Failed to initialize authentication")
		f.apply(gen, nil)
		return
	}
	if sess == nil {
		f.apply(gen, nil)
		return
	}

	// Startup skips the suspicion check; only fresh sign-ins run it.
	user, err := f.reconcile(ctx, sess, false)
	if err != nil {
		// Passive path: swallow so a transient backend hiccup never
		// strands the UI in a stuck loading state.
		f.log.ErrorContext(ctx, "startup reconciliation failed",
			logger.UserID(sess.UserID), logger.Error(err))
		f.notify.Error("Failed to initialize authentication")
		f.apply(gen, nil)
		return
	}

	f.apply(gen, user)
}

// consume is the single consumer loop over gateway auth events.
func (f *Flow) consume(ctx context.Context, gen uint64, stop <-chan struct{}) {
	events := f.gateway.Events()
	for {
		select {
		case <-stop:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			select {
			case <-stop:
				return
			default:
			}
			f.handleEvent(ctx, gen, ev)
		}
	}
}

func (f *Flow) handleEvent(ctx context.Context, gen uint64, ev Event) {
	if !f.live(gen) {
		return
	}

	switch ev.Type {
	case EventSignedIn, EventTokenRefreshed:
		if ev.Session == nil {
			return
		}
		user, err := f.reconcile(ctx, ev.Session, true)
		if err != nil {
			// Passive path: log only, drop to anonymous.
			f.log.ErrorContext(ctx, "auth event reconciliation failed",
				logger.Event(string(ev.Type)),
				logger.UserID(ev.Session.UserID),
				logger.Error(err))
			f.apply(gen, nil)
			return
		}
		f.apply(gen, user)

	case EventSignedOut:
		f.apply(gen, nil)
	}
}

// reconcile synchronizes the local profile with an observed remote session:
// upsert, then login analytics, then (for fresh sign-ins) the suspicious
// login check. Analytics and suspicion failures never fail reconciliation.
func (f *Flow) reconcile(ctx context.Context, sess *Session, freshSignIn bool) (*profile.User, error) {
	user, err := f.upserter.Upsert(ctx, profile.UpsertParams{
		ID:        sess.UserID,
		Email:     sess.Email,
		Role:      sess.Role,
		FullName:  sess.FullName,
		AvatarURL: sess.AvatarURL,
	})
	if err != nil {
		return nil, errors.Join(ErrProfileSync, err)
	}

	f.recorder.RecordLogin(ctx, user.ID, nil)

	if freshSignIn && f.detector != nil && f.detector.Check(ctx, user.ID) {
		f.notify.Warning("Unusual login location detected! Please verify your identity.")
	}

	return user, nil
}

// apply publishes a reconciliation result unless it belongs to a stale
// generation, in which case it is discarded.
func (f *Flow) apply(gen uint64, user *profile.User) {
	f.mu.Lock()
	if gen != f.generation {
		f.mu.Unlock()
		f.log.Debug("discarding stale reconciliation result", logger.Key("generation", gen))
		return
	}

	f.snap = Snapshot{User: user, Loading: false}
	published := copySnapshot(f.snap)
	for _, ch := range f.subs {
		select {
		case ch <- published:
		default:
		}
	}
	f.mu.Unlock()
}

// live reports whether the given generation is still current.
func (f *Flow) live(gen uint64) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return gen == f.generation
}

// gen returns the current generation for a later apply.
func (f *Flow) gen() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.generation
}

func (f *Flow) ready() error {
	if f == nil || f.gateway == nil {
		return ErrNotInitialized
	}
	return nil
}

func copySnapshot(s Snapshot) Snapshot {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
