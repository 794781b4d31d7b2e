package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/shelf/internal/paths"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend  = "backend"
	cfgKeyDataFile = "data_file"
	cfgKeyLogLevel = "log_level"

	defaultBackend  = types.BackendText
	defaultLogLevel = "warn"
)

// loadConfig reads config.yaml from configDir using Viper. A missing
// directory or file is not an error; defaults apply. SHELF_BACKEND and
// SHELF_LOG_LEVEL override the file.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix("SHELF")
	if err := v.BindEnv(cfgKeyBackend); err != nil {
		return nil, err
	}
	if err := v.BindEnv(cfgKeyLogLevel); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// storeConfig resolves backend and data file from flags, config.yaml,
// environment and defaults.
func (o *options) storeConfig() (types.Config, error) {
	backend := o.backend
	if backend == "" {
		backend = o.config.GetString(cfgKeyBackend)
	}

	defaultName := paths.DefaultDataFileName
	if backend == types.BackendSQLite {
		defaultName = paths.DefaultSQLiteFileName
	}
	dataFile, err := paths.ResolveDataFile(o.dataFile, o.config.GetString(cfgKeyDataFile), defaultName)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data file: %w", err)
	}

	cfg := types.Config{Backend: backend, DataFile: dataFile}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("backend %q: %w", backend, err)
	}
	return cfg, nil
}
