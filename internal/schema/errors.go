// internal/schema/errors.go
package schema

import "errors"

// Failure taxonomy for a profiling or submission run. Every condition except
// browser construction is scoped to the current directory; the batch always
// continues.
var (
	// ErrNavigationFailed terminates the current directory only.
	ErrNavigationFailed = errors.New("navigation failed")

	// ErrRevealControlNotFound means no resolution tier matched. Callers log
	// it and proceed as if no reveal step were configured.
	ErrRevealControlNotFound = errors.New("reveal control not found")

	// ErrSubmitButtonNotFound yields a Failed result with no retry.
	ErrSubmitButtonNotFound = errors.New("submit button not found")

	// ErrProfileMissing means no SiteConfig exists for a directory name. The
	// orchestrator falls back to a plain visit-and-record behavior.
	ErrProfileMissing = errors.New("no site profile for directory")
)
