package analytics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localkaam/localkaam/core/analytics"
	"github.com/localkaam/localkaam/core/profile"
	"github.com/localkaam/localkaam/pkg/geoip"
)

// stubResolver returns a scripted location, optionally with an error.
type stubResolver struct {
	loc geoip.Location
	err error
}

func (s *stubResolver) Lookup(context.Context) (geoip.Location, error) {
	if s.err != nil {
		return geoip.Location{City: geoip.Unknown, Country: geoip.Unknown, IP: geoip.Unknown}, s.err
	}
	return s.loc, nil
}

func TestDetector_Check(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	newDetector := func(store *profile.MemoryStore, loc geoip.Location, lookupErr error) *analytics.Detector {
		recorder := analytics.NewRecorder(store)
		return analytics.NewDetector(&stubResolver{loc: loc, err: lookupErr}, store, recorder)
	}

	t.Run("first login records location and is not suspicious", func(t *testing.T) {
		t.Parallel()

		store := profile.NewMemoryStore()
		user := newTestUser(t, store)
		detector := newDetector(store, geoip.Location{City: "Pune", Country: "India"}, nil)

		suspicious := detector.Check(ctx, user.ID)

		assert.False(t, suspicious)
		got, err := store.Get(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastLocation)
		assert.Equal(t, "Pune, India", *got.LastLocation)
	})

	t.Run("matching location is not suspicious and leaves value unchanged", func(t *testing.T) {
		t.Parallel()

		store := profile.NewMemoryStore()
		user := newTestUser(t, store)
		require.NoError(t, store.SetLastLocation(ctx, user.ID, "Pune, India"))

		detector := newDetector(store, geoip.Location{City: "Pune", Country: "India"}, nil)
		suspicious := detector.Check(ctx, user.ID)

		assert.False(t, suspicious)
		got, err := store.Get(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastLocation)
		assert.Equal(t, "Pune, India", *got.LastLocation)
	})

	t.Run("changed location is suspicious and is not overwritten", func(t *testing.T) {
		t.Parallel()

		store := profile.NewMemoryStore()
		user := newTestUser(t, store)
		require.NoError(t, store.SetLastLocation(ctx, user.ID, "Pune, India"))

		detector := newDetector(store, geoip.Location{City: "Berlin", Country: "Germany"}, nil)
		suspicious := detector.Check(ctx, user.ID)

		assert.True(t, suspicious)

		// The stored location stays as-is; persisting the new one is the
		// recorder's pass, not the detector's.
		got, err := store.Get(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastLocation)
		assert.Equal(t, "Pune, India", *got.LastLocation)
	})

	t.Run("comparison is exact string equality", func(t *testing.T) {
		t.Parallel()

		store := profile.NewMemoryStore()
		user := newTestUser(t, store)
		require.NoError(t, store.SetLastLocation(ctx, user.ID, "pune, india"))

		// Case differs, so the strings differ.
		detector := newDetector(store, geoip.Location{City: "Pune", Country: "India"}, nil)
		assert.True(t, detector.Check(ctx, user.ID))
	})

	t.Run("failed lookup degrades to Unknown location", func(t *testing.T) {
		t.Parallel()

		store := profile.NewMemoryStore()
		user := newTestUser(t, store)
		detector := newDetector(store, geoip.Location{}, errors.New("rate limited"))

		suspicious := detector.Check(ctx, user.ID)

		// No prior location, so the Unknown placeholder is recorded.
		assert.False(t, suspicious)
		got, err := store.Get(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastLocation)
		assert.Equal(t, "Unknown, Unknown", *got.LastLocation)
	})

	t.Run("failed lookup against a known location reads as suspicious", func(t *testing.T) {
		t.Parallel()

		store := profile.NewMemoryStore()
		user := newTestUser(t, store)
		require.NoError(t, store.SetLastLocation(ctx, user.ID, "Pune, India"))

		detector := newDetector(store, geoip.Location{}, errors.New("timeout"))

		// "Unknown, Unknown" differs from the stored string.
		assert.True(t, detector.Check(ctx, user.ID))
	})

	t.Run("store read failure degrades to not suspicious", func(t *testing.T) {
		t.Parallel()

		store := profile.NewMemoryStore()
		detector := newDetector(store, geoip.Location{City: "Pune", Country: "India"}, nil)

		// Unknown user id: LastLocation fails, detector must stay quiet.
		assert.False(t, detector.Check(ctx, newTestUser(t, profile.NewMemoryStore()).ID))
	})
}
