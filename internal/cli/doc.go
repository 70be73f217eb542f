// Package cli turns the scriptui command line into an app.Config: one
// positional script path plus flags for frames, simulated clicks, extra
// manifests and the optional frame sink and health endpoint. Usage and
// validation failures come back as ExitError with the exit code to use.
package cli
