package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultServiceURL is the service root of the KIT instance, the
	// deployment this tool grew up against. Other instances are reachable
	// via --service or the config file.
	DefaultServiceURL = "https://ilias.studium.kit.edu/"

	// DefaultJobs is the default number of parallel download jobs. One job
	// keeps the crawl strictly sequential, which is the polite default.
	DefaultJobs = 1

	// AppName is the application name used for XDG directory paths.
	AppName = "iliasdl"
)

// Config is the read-only configuration snapshot of one sync run.
//
// Design decision: We use a single flat struct instead of nested sub-structs.
// The number of options is manageable, and nesting would add complexity
// without significant benefit.
type Config struct {
	// SkipFiles disables file downloads.
	SkipFiles bool

	// NoVideos disables Opencast video downloads.
	NoVideos bool

	// Forum enables forum and thread mirroring.
	Forum bool

	// Force re-downloads artifacts that already exist locally.
	Force bool

	// ContentTree uses the hierarchical content tree instead of the flat
	// course listing. Slower but more complete.
	ContentTree bool

	// Verbose is the logging verbosity: 0 warnings, 1 progress, 2 debug.
	Verbose int

	// OutputRoot is the local mirror directory.
	OutputRoot string

	// Jobs bounds concurrently running crawl tasks.
	Jobs int

	// User is the account name for the login handshake.
	User string

	// Password is the account password. Empty means prompt.
	Password string

	// ServiceURL is the service root of the remote platform.
	ServiceURL string

	// ReportPath, when set, is where the end-of-run Markdown summary is
	// written.
	ReportPath string

	// ConfigFilePath is the explicitly requested config file, if any.
	ConfigFilePath string
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		ServiceURL: DefaultServiceURL,
		Jobs:       DefaultJobs,
	}
}

// Validate checks the configuration for consistency.
// It returns a sentinel error describing the first problem found.
func (c *Config) Validate() error {
	if c.OutputRoot == "" {
		return ErrNoOutput
	}
	if c.User == "" {
		return ErrNoUser
	}
	if c.Jobs < 1 {
		return ErrInvalidJobs
	}
	if c.ServiceURL == "" {
		return ErrNoServiceURL
	}
	return nil
}

// StateDir returns the XDG state directory where the journal database
// lives.
func StateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}
