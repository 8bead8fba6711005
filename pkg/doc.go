// Package pkg provides shared utilities for the usbfs device controller.
//
// This package contains functionality used across the controller core and
// its tooling:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Sentinel error values for configuration and protocol conditions
//   - Component identifiers for log filtering
//
// # Logging
//
// The logging subsystem wraps [log/slog] with controller-specific context:
//
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogInfo(pkg.ComponentController, "device enabled", "endpoints", 3)
//
// The interrupt-handler paths of the controller only log at debug level, so
// the default warn-level filter keeps them silent in production builds.
//
// # Errors
//
// Configuration errors are defined as sentinel values:
//
//	if errors.Is(err, pkg.ErrNoMemory) {
//	    // Packet memory overcommitted by the static endpoint set.
//	}
package pkg
