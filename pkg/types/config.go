package types

import "errors"

// Config holds backend selection and the location of the persisted catalog.
type Config struct {
	Backend  string `json:"backend" yaml:"backend"`
	DataFile string `json:"data_file" yaml:"data_file"`
}

// Supported backend names.
const (
	BackendText   = "text"
	BackendSQLite = "sqlite"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

var knownBackends = map[string]bool{
	BackendText:   true,
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return nil
}
