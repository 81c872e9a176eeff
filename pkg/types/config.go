package types

import "errors"

// Config holds backend selection and parameters for Backend.Attach.
type Config struct {
	Backend  string `json:"backend" yaml:"backend"`
	DataDir  string `json:"data_dir" yaml:"data_dir"`
	MaxDepth int    `json:"max_depth" yaml:"max_depth"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// DefaultMaxDepth bounds hierarchy traversal when Config.MaxDepth is unset.
const DefaultMaxDepth = 10

// Config validation errors.
var (
	ErrBackendEmpty    = errors.New("backend must not be empty")
	ErrBackendUnknown  = errors.New("unknown backend")
	ErrMaxDepthInvalid = errors.New("max depth must not be negative")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.MaxDepth < 0 {
		return ErrMaxDepthInvalid
	}
	return nil
}

// GetMaxDepth returns the configured hierarchy traversal bound, falling back
// to DefaultMaxDepth when unset.
func (c Config) GetMaxDepth() int {
	if c.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return c.MaxDepth
}
