// Package supabase implements the auth gateway against a GoTrue-compatible
// hosted auth service.
//
// The client speaks the service's REST surface: password grant, signup with
// role metadata, provider authorization URLs, logout, and refresh token
// exchange. The token pair is persisted through a TokenStore (in-memory by
// default) and the access token is refreshed lazily when CurrentSession
// observes it near expiry, or proactively by running AutoRefresh in a
// goroutine.
//
//	var cfg supabase.Config
//	config.MustLoad(&cfg)
//
//	client, err := supabase.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	go client.AutoRefresh(ctx)
//
//	flow, err := authflow.New(client, store)
//
// Out-of-band auth state changes (TOKEN_REFRESHED, SIGNED_OUT) are pushed on
// the Events channel the session flow consumes; sign-in results are returned
// to the caller directly. Identity is read from the
// access token claims; signature verification belongs to the service issuing
// the token, not to this client.
package supabase
