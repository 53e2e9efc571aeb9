package analytics

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/localkaam/localkaam/core/logger"
	"github.com/localkaam/localkaam/core/profile"
	"github.com/localkaam/localkaam/pkg/geoip"
)

// LocationResolver resolves the caller's current location. Satisfied by
// *geoip.Client.
type LocationResolver interface {
	Lookup(ctx context.Context) (geoip.Location, error)
}

// Detector flags sign-ins whose resolved location differs from the last
// persisted location for the account.
//
// Like the Recorder, the Detector is best-effort by contract: resolution
// failures degrade to an Unknown location and store failures degrade to
// "not suspicious". Nothing here may affect the authentication outcome.
type Detector struct {
	resolver LocationResolver
	store    profile.Store
	recorder *Recorder
	log      *slog.Logger
}

// DetectorOption is a functional option for configuring the Detector.
type DetectorOption func(*Detector)

// WithDetectorLogger configures structured logging for the detector.
func WithDetectorLogger(log *slog.Logger) DetectorOption {
	return func(d *Detector) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDetector creates a Detector. The recorder is used to persist the newly
// observed location on the non-suspicious path.
func NewDetector(resolver LocationResolver, store profile.Store, recorder *Recorder, opts ...DetectorOption) *Detector {
	d := &Detector{
		resolver: resolver,
		store:    store,
		recorder: recorder,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Check resolves the current location and compares it, by exact string
// equality, against the account's persisted last location.
//
// When a prior location exists and differs, Check reports suspicious and
// leaves the stored location untouched; overwriting it is the Recorder's
// job on its own pass. When no prior location exists or it matches, Check
// records the newly observed location as a side effect and reports not
// suspicious.
func (d *Detector) Check(ctx context.Context, userID uuid.UUID) bool {
	loc, err := d.resolver.Lookup(ctx)
	if err != nil {
		// loc is fully Unknown here; the comparison still proceeds.
		d.log.DebugContext(ctx, "location lookup failed",
			logger.UserID(userID), logger.Error(err))
	}

	last, err := d.store.LastLocation(ctx, userID)
	if err != nil {
		d.log.WarnContext(ctx, "failed to read last login location",
			logger.UserID(userID), logger.Error(err))
		return false
	}

	current := loc.String()
	if last != "" && last != current {
		d.log.WarnContext(ctx, "suspicious login detected",
			logger.UserID(userID),
			slog.String("last_location", last),
			slog.String("new_location", current))
		return true
	}

	d.recorder.RecordLocation(ctx, userID, loc)
	return false
}
