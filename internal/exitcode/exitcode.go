// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, empty title, unknown id).
	UserError = 1

	// ConfigError indicates invalid configuration (e.g. a malformed base URL).
	ConfigError = 2

	// BackendError indicates a backend/network error.
	BackendError = 3
)
