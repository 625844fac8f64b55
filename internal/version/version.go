// internal/version/version.go
package version

// Version is the release tag stamped into --version output and the run
// report. Overridden at build time via -ldflags "-X ...".
var Version = "0.9.0"
