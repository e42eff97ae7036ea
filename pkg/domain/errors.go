package domain

import "errors"

// ErrPackageManagerMissing is returned when the platform's required package manager is absent.
// Only the Windows branch treats this as terminal.
var ErrPackageManagerMissing = errors.New("package manager not found")

// ErrManifestMissing is returned when the Node project manifest (package.json) is absent.
var ErrManifestMissing = errors.New("project manifest not found")

// ErrCommandFailed is returned in strict mode when an external command exits non-zero.
var ErrCommandFailed = errors.New("command failed")

// ErrReportNotFound is returned when a report ID cannot be found in the store.
var ErrReportNotFound = errors.New("report not found")

// IsTerminal reports whether err stops the bootstrap sequence.
func IsTerminal(err error) bool {
	return errors.Is(err, ErrPackageManagerMissing) ||
		errors.Is(err, ErrManifestMissing) ||
		errors.Is(err, ErrCommandFailed)
}
