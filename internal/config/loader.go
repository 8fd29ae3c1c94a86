package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".iliasdl.yaml"

// File is the YAML configuration file contents. Every field is optional;
// file values fill in what flags leave unset.
type File struct {
	// ServiceURL overrides the default service root.
	ServiceURL string `yaml:"service_url"`

	// User is the account name.
	User string `yaml:"user"`

	// Output is the default mirror directory.
	Output string `yaml:"output"`

	// Jobs is the default job limit.
	Jobs int `yaml:"jobs"`
}

// LoadConfigFile reads a YAML configuration file.
// A missing file yields ErrConfigNotFound so callers can distinguish
// "explicitly requested but absent" from parse failures.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .iliasdl.yaml in the current directory
// 3. Look for .iliasdl.yaml in the user's home directory
//
// Returns the path if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}

// Apply fills c's unset fields from the file. Flags always win: only zero
// values are replaced.
func (c *Config) Apply(f *File) {
	if f == nil {
		return
	}
	if f.ServiceURL != "" && (c.ServiceURL == "" || c.ServiceURL == DefaultServiceURL) {
		c.ServiceURL = f.ServiceURL
	}
	if c.User == "" {
		c.User = f.User
	}
	if c.OutputRoot == "" {
		c.OutputRoot = f.Output
	}
	if c.Jobs == DefaultJobs && f.Jobs > 0 {
		c.Jobs = f.Jobs
	}
}
