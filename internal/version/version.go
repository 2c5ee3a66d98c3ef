package version

// Version is the medialoc version, overridden at build time with
// -ldflags "-X github.com/hashicorp-forge/medialoc/internal/version.Version=...".
var Version = "0.1.0-dev"
