package analytics

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/localkaam/localkaam/core/logger"
	"github.com/localkaam/localkaam/core/profile"
	"github.com/localkaam/localkaam/pkg/geoip"
)

// Recorder persists login analytics: last login time, an atomically
// incremented login counter, and the last resolved location.
//
// Recording is best-effort by contract. Every failure is logged and
// swallowed so analytics can never block or fail a sign-in flow.
type Recorder struct {
	store profile.Store
	log   *slog.Logger
	now   func() time.Time
}

// RecorderOption is a functional option for configuring the Recorder.
type RecorderOption func(*Recorder)

// WithRecorderLogger configures structured logging for the recorder.
func WithRecorderLogger(log *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		if log != nil {
			r.log = log
		}
	}
}

// WithRecorderClock overrides the time source. Used in tests.
func WithRecorderClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRecorder creates a Recorder on top of the given store.
func NewRecorder(store profile.Store, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		store: store,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RecordLogin marks a successful login: last_login is set to now and
// login_count is incremented server-side in the same statement, never via a
// client read-modify-write. The location is written only when supplied.
func (r *Recorder) RecordLogin(ctx context.Context, userID uuid.UUID, loc *geoip.Location) {
	var location *string
	if loc != nil {
		formatted := loc.String()
		location = &formatted
	}

	if err := r.store.TouchLogin(ctx, userID, r.now(), location); err != nil {
		r.log.WarnContext(ctx, "failed to update login analytics",
			logger.UserID(userID), logger.Error(err))
		return
	}

	r.log.DebugContext(ctx, "login analytics updated", logger.UserID(userID))
}

// RecordLocation persists only the last known location. Used by the
// suspicious login detector after a non-suspicious check.
func (r *Recorder) RecordLocation(ctx context.Context, userID uuid.UUID, loc geoip.Location) {
	if err := r.store.SetLastLocation(ctx, userID, loc.String()); err != nil {
		r.log.WarnContext(ctx, "failed to record login location",
			logger.UserID(userID), logger.Location(loc.String()), logger.Error(err))
		return
	}

	r.log.DebugContext(ctx, "login location recorded",
		logger.UserID(userID), logger.Location(loc.String()))
}
