// Package platform maps the host operating system to a domain.Platform.
package platform

import (
	"runtime"

	"github.com/aretw0/sprout/pkg/domain"
)

// goos is replaced in tests.
var goos = func() string { return runtime.GOOS }

// Detect returns the platform of the running host.
func Detect() domain.Platform {
	return FromGOOS(goos())
}

// FromGOOS maps a GOOS value to a Platform. Unrecognized values map to PlatformUnknown.
func FromGOOS(s string) domain.Platform {
	switch s {
	case "linux":
		return domain.PlatformLinux
	case "darwin":
		return domain.PlatformDarwin
	case "windows":
		return domain.PlatformWindows
	default:
		return domain.PlatformUnknown
	}
}
