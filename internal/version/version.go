package version

// Version is the release version, overridden at build time via
// -ldflags "-X .../internal/version.Version=v1.2.3".
var Version = "dev"
