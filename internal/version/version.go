// Package version carries the build version stamped at link time.
package version

// Version is the designer build version, overridden via
// -ldflags "-X .../internal/version.Version=v1.2.3". It stays "main"
// for development builds.
var Version = "main"
