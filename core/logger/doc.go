// Package logger provides structured logging helpers built on Go's standard
// slog package. It ships a set of pre-built attribute constructors for the
// identifiers this codebase logs most: users, emails, locations, auth
// providers, and navigation targets.
//
// All helpers follow the empty Attr pattern for nil safety, so they can be
// passed unconditionally:
//
//	import "github.com/localkaam/localkaam/core/logger"
//
//	log.Info("profile reconciled",
//		logger.UserID(user.ID),
//		logger.Email(user.Email),
//		logger.Error(err), // no-op attribute when err is nil
//	)
//
// The package intentionally does not wrap slog.Logger itself; construct
// loggers with slog.New and whatever handler suits the environment.
package logger
