package authflow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localkaam/localkaam/core/analytics"
	"github.com/localkaam/localkaam/core/authflow"
	"github.com/localkaam/localkaam/core/profile"
	"github.com/localkaam/localkaam/pkg/geoip"
)

// scriptedResolver returns a fixed location.
type scriptedResolver struct {
	loc geoip.Location
}

func (r *scriptedResolver) Lookup(context.Context) (geoip.Location, error) {
	return r.loc, nil
}

func TestFlow_SuspiciousLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("first login records location without warning", func(t *testing.T) {
		t.Parallel()

		gateway := newFakeGateway()
		store := profile.NewMemoryStore()
		resolver := &scriptedResolver{loc: geoip.Location{City: "Pune", Country: "IN"}}
		recorder := analytics.NewRecorder(store)
		detector := analytics.NewDetector(resolver, store, recorder)

		flow, notifier, _ := started(t, gateway, store, authflow.WithDetector(detector))

		require.NoError(t, flow.SignUp(ctx, "geo@example.com", "Abcd1234", "Abcd1234", profile.RoleCustomer))
		require.NoError(t, flow.SignIn(ctx, "geo@example.com", "Abcd1234"))

		assert.Zero(t, notifier.warningCount())

		last, err := store.LastLocation(ctx, flow.User().ID)
		require.NoError(t, err)
		assert.Equal(t, "Pune, IN", last)
	})

	t.Run("location change warns and keeps the stored location", func(t *testing.T) {
		t.Parallel()

		gateway := newFakeGateway()
		store := profile.NewMemoryStore()
		resolver := &scriptedResolver{loc: geoip.Location{City: "Pune", Country: "IN"}}
		recorder := analytics.NewRecorder(store)
		detector := analytics.NewDetector(resolver, store, recorder)

		flow, notifier, _ := started(t, gateway, store, authflow.WithDetector(detector))

		require.NoError(t, flow.SignUp(ctx, "move@example.com", "Abcd1234", "Abcd1234", profile.RoleCustomer))
		require.NoError(t, flow.SignIn(ctx, "move@example.com", "Abcd1234"))
		require.Zero(t, notifier.warningCount())

		resolver.loc = geoip.Location{City: "Berlin", Country: "DE"}
		require.NoError(t, flow.SignIn(ctx, "move@example.com", "Abcd1234"))

		assert.Equal(t, 1, notifier.warningCount())
		assert.Contains(t, notifier.warnings, "Unusual login location detected! Please verify your identity.")

		// The suspicious path never overwrites the stored location.
		last, err := store.LastLocation(ctx, flow.User().ID)
		require.NoError(t, err)
		assert.Equal(t, "Pune, IN", last)

		// Sign-in itself still succeeds.
		assert.NotNil(t, flow.User())
	})

	t.Run("same location stays quiet across logins", func(t *testing.T) {
		t.Parallel()

		gateway := newFakeGateway()
		store := profile.NewMemoryStore()
		resolver := &scriptedResolver{loc: geoip.Location{City: "Pune", Country: "IN"}}
		recorder := analytics.NewRecorder(store)
		detector := analytics.NewDetector(resolver, store, recorder)

		flow, notifier, _ := started(t, gateway, store, authflow.WithDetector(detector))

		require.NoError(t, flow.SignUp(ctx, "same@example.com", "Abcd1234", "Abcd1234", profile.RoleCustomer))
		for i := 0; i < 3; i++ {
			require.NoError(t, flow.SignIn(ctx, "same@example.com", "Abcd1234"))
		}

		assert.Zero(t, notifier.warningCount())
	})
}
