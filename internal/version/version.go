// Package version holds the application version reported by /api/system/version.
package version

// Version is overridden at build time with -ldflags "-X .../internal/version.Version=x.y.z".
var Version = "0.1.0-dev"
