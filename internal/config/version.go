package config

// Version is the pdihub binary version.
// Set at build time via: -ldflags "-X github.com/pdihub/pdihub/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
