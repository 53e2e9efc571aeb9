// Package authflow owns the client-side session lifecycle for the
// marketplace: who is signed in, how that state is reconciled with the
// hosted auth gateway, and the side effects a sign-in carries (profile
// upsert, login analytics, the suspicious login check, navigation).
//
// # State Machine
//
// A Flow moves between three observable states published as a Snapshot:
//
//   - Loading: initial state, held only until the startup reconciliation
//     resolves; never entered again
//   - Authenticated: an active remote session with a resolvable profile
//   - Anonymous: no remote session, after sign-out, or after a failed
//     reconciliation (the flow never stays stuck loading)
//
// Reconciliation runs in two independent paths that share the same logic:
// once synchronously inside Start, and once per auth event pushed by the
// gateway (SIGNED_IN, TOKEN_REFRESHED, SIGNED_OUT) consumed by a single
// loop. The event loop applies each event through a generation-guarded
// publish step, so reconciliations still in flight when Stop is called are
// discarded instead of mutating torn-down state. The guard also holds across
// rapid Stop/Start cycles, which a simple liveness boolean would get wrong.
//
// # Usage
//
//	flow, err := authflow.New(gateway, store,
//		authflow.WithDetector(detector),
//		authflow.WithNotifier(toasts),
//		authflow.WithNavigator(router),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := flow.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer flow.Stop()
//
//	if err := flow.SignIn(ctx, email, password); err != nil {
//		var verr *authflow.ValidationError
//		if errors.As(err, &verr) {
//			// already surfaced via the notifier; stop here
//		}
//	}
//
// # Error Contract
//
// Operations that can block a user from reaching a usable state surface a
// notification and return the error: ErrAuthFailed for gateway rejections,
// ErrProfileSync for upsert failures on the explicit sign-in/sign-up path.
// The same upsert failure during passive reconciliation (startup or event)
// is logged and swallowed. Analytics and geolocation are best-effort and
// never influence the authentication outcome. UpdateProfile is the one
// deliberate exception to error returns: it reports a bare boolean and
// callers must check it.
package authflow
