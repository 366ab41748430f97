package types

import (
	"errors"
	"time"
)

// Config holds the engine and reference-host settings.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// TempDir is where transfer temp files are written.
	TempDir string `json:"temp_dir" yaml:"temp_dir"`

	// ExternalDeleteDelay is how long temp files of a drop that left the
	// application outlive the transfer. External targets may hold only the
	// path and read the bytes later.
	ExternalDeleteDelay time.Duration `json:"external_delete_delay" yaml:"external_delete_delay"`

	// DragThreshold is the pointer travel, in either axis, that turns a
	// press into a drag.
	DragThreshold int `json:"drag_threshold" yaml:"drag_threshold"`

	LogLevel string `json:"log_level" yaml:"log_level"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Defaults.
const (
	DefaultExternalDeleteDelay = 20 * time.Second
	DefaultDragThreshold       = 4
	DefaultLogLevel            = "info"
)

// Config validation errors.
var (
	ErrBackendEmpty     = errors.New("backend must not be empty")
	ErrBackendUnknown   = errors.New("unknown backend")
	ErrTempDirEmpty     = errors.New("temp dir must not be empty")
	ErrDelayInvalid     = errors.New("external delete delay must not be negative")
	ErrThresholdInvalid = errors.New("drag threshold must be positive")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// WithDefaults returns a copy of c with zero-valued engine settings replaced
// by their defaults.
func (c Config) WithDefaults() Config {
	if c.Backend == "" {
		c.Backend = BackendSQLite
	}
	if c.ExternalDeleteDelay == 0 {
		c.ExternalDeleteDelay = DefaultExternalDeleteDelay
	}
	if c.DragThreshold == 0 {
		c.DragThreshold = DefaultDragThreshold
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	return c
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.TempDir == "" {
		return ErrTempDirEmpty
	}
	if c.ExternalDeleteDelay < 0 {
		return ErrDelayInvalid
	}
	if c.DragThreshold <= 0 {
		return ErrThresholdInvalid
	}
	return nil
}
