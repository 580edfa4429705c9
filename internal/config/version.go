package config

import "runtime/debug"

// Version is overridden at release time via
// -ldflags "-X github.com/sidelith/side/internal/config.Version=...".
var Version = "dev"

// Commit returns the VCS revision baked into the binary, or "unknown"
// for builds outside a checkout.
func Commit() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			return setting.Value
		}
	}
	return "unknown"
}
