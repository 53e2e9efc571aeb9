// Package geoip provides a best-effort IP geolocation client for an
// ipinfo.io-style JSON endpoint.
//
// The client resolves the caller's own public address to a coarse
// "City, Country" location used by login analytics and the suspicious
// login detector. Every field of the response is optional; unresolved
// fields are normalized to the Unknown placeholder so downstream string
// comparisons stay well-defined.
//
// Failures never matter more than the flows that call this package:
// lookups are timeout-bounded and return an Unknown location alongside the
// error, letting callers degrade silently.
//
// Usage:
//
//	client := geoip.New("", geoip.WithToken(token))
//	loc, err := client.Lookup(ctx)
//	if err != nil {
//		// loc is fully Unknown here; safe to use either way
//	}
//	fmt.Println(loc.String()) // "Pune, India"
package geoip
