// Package logging builds the logr.Logger used across tfslot.
//
// Key/value pairs are rendered by logr's funcr formatter and each record is
// written through the standard log package as
//
//	2026/10/18 09:30:05	[INFO] -- lifecycle: message "key"="value"
//
// The LOG_LEVEL environment variable (DEBUG, INFO, WARN, ERROR) selects the
// minimum severity. logr has no warning level, so warnings are Info records
// carrying the reserved severity key; use Warn to emit them.
package logging
