// Package analytics records login activity and flags logins from unusual
// locations.
//
// # Components
//
//   - Recorder: sets last_login, increments the login counter through the
//     store's atomic server-side primitive, and stores the last resolved
//     "city, country" location
//   - Detector: compares the freshly resolved location against the
//     persisted one and reports a suspicious login on exact string mismatch
//
// Both components are auxiliary by contract: their failures are logged and
// swallowed, and must never change the outcome of the sign-in that
// triggered them.
//
// The detector writes the new location itself on the non-suspicious path,
// so a sign-in that also runs a Recorder pass may store the same value
// twice. Both writes carry identical data.
package analytics
