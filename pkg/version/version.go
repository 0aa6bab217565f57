package version

import "runtime/debug"

// Version represents the current version of setsearch
const Version = "0.4.0"

// BuildVersion returns the version string for display, including the VCS
// revision when the binary was built from a checkout.
func BuildVersion() string {
	v := "setsearch version " + Version
	if rev := Revision(); rev != "" {
		v += " (" + rev + ")"
	}
	return v
}

// APIVersion returns just the version number for API responses
func APIVersion() string {
	return Version
}

// Revision returns the short VCS revision embedded by the Go toolchain,
// or "" when unavailable.
func Revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 12 {
			return s.Value[:12]
		}
	}
	return ""
}
