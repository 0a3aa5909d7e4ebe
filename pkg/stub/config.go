// Package stub implements the interaction selection engine: it picks, for
// every incoming request, the best-matching recorded interaction and serves
// its response.
package stub

import (
	"errors"
	"regexp"
)

// Sentinel errors surfaced by the selection engine.
var (
	// ErrNoMatchFound is returned when no qualified interaction exists for a
	// request and the CORS fallback does not apply.
	ErrNoMatchFound = errors.New("no matching interaction found")

	// ErrInvalidStateFilter is returned when a per-request provider state
	// header carries a malformed regular expression. It fails only the
	// request that supplied it.
	ErrInvalidStateFilter = errors.New("invalid provider state filter")
)

// Config is the startup configuration shared by every request handler. It is
// constructed once and treated as read-only afterwards; per-request overrides
// are resolved locally and threaded through the call chain instead of
// mutating this struct.
type Config struct {
	// Port is the HTTP listen port.
	Port int

	// AutoCORS enables the synthetic permissive preflight response for
	// unmatched OPTIONS requests, and attaches an allow-origin header to
	// not-found responses.
	AutoCORS bool

	// ProviderState restricts candidate interactions to those with at least
	// one provider state name matching this pattern. Nil admits everything.
	ProviderState *regexp.Regexp

	// ProviderStateHeader names a request header whose value, when present,
	// replaces ProviderState for that single request. Empty disables the
	// override.
	ProviderStateHeader string

	// VerboseMismatchBodies includes full payload text in body mismatch
	// diagnostics.
	VerboseMismatchBodies bool
}
