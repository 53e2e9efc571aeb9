package geoip

import "errors"

// ErrLookupFailed is returned when the geolocation endpoint cannot be
// reached or returns an unusable response.
var ErrLookupFailed = errors.New("geoip lookup failed")
