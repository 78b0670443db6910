// Package version exposes the build version string.
package version

// Version is the application version, overridable at build time via
// -ldflags "-X github.com/Chiawei92/WW1-Skies/pkg/version.Version=...".
var Version = "0.3.0"
