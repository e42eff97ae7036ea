package domain

// Platform identifies the host operating system family.
type Platform string

const (
	PlatformLinux   Platform = "linux"
	PlatformDarwin  Platform = "darwin"
	PlatformWindows Platform = "windows"
	// PlatformUnknown is reported for every other host. Package installation is skipped.
	PlatformUnknown Platform = "unknown"
)

// Supported reports whether the bootstrapper knows a package-manager branch for p.
func (p Platform) Supported() bool {
	switch p {
	case PlatformLinux, PlatformDarwin, PlatformWindows:
		return true
	}
	return false
}

func (p Platform) String() string {
	return string(p)
}
