package config

import "errors"

// Configuration validation errors.
//
// Design decision: We use package-level sentinel errors rather than creating
// new error instances in Validate(). This allows callers to use errors.Is()
// for programmatic error handling while still providing human-readable
// messages.
var (
	// ErrNoOutput is returned when no output directory is specified.
	ErrNoOutput = errors.New("no output directory specified: use --output")

	// ErrNoUser is returned when no account name is available from flags
	// or the config file.
	ErrNoUser = errors.New("no account name specified: use --user or the config file")

	// ErrInvalidJobs is returned when the job limit is not positive.
	// A limit of zero would mean no task ever runs.
	ErrInvalidJobs = errors.New("invalid job limit: must be positive")

	// ErrNoServiceURL is returned when the service root URL is empty.
	ErrNoServiceURL = errors.New("no service URL specified")

	// ErrConfigNotFound is returned when an explicitly given configuration
	// file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
