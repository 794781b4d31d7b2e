package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/shelf/internal/paths"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend  string `yaml:"backend"`
	DataFile string `yaml:"data_file,omitempty"`
	LogLevel string `yaml:"log_level"`
}

func newInitCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config.yaml",
		Long:  "Create the configuration directory and a config.yaml holding the resolved backend and data file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := paths.ResolveConfigDir(o.configDir)
			if err != nil {
				return sysError("init: %s", err)
			}
			cfg, err := o.storeConfig()
			if err != nil {
				return userError("init: %s", err)
			}

			if err := os.MkdirAll(configDir, 0o755); err != nil {
				return sysError("create config directory: %s", err)
			}
			configPath := filepath.Join(configDir, configFileExt)
			written, err := writeConfigIfMissing(configPath, configFile{
				Backend:  cfg.Backend,
				DataFile: cfg.DataFile,
				LogLevel: o.config.GetString(cfgKeyLogLevel),
			})
			if err != nil {
				return sysError("write config: %s", err)
			}

			out := cmd.OutOrStdout()
			if written {
				fmt.Fprintln(out, "Shelf initialized successfully")
			} else {
				fmt.Fprintln(out, "Shelf already initialized")
			}
			fmt.Fprintln(out, "  config:", configPath)
			fmt.Fprintln(out, "  data:  ", cfg.DataFile)
			return nil
		},
	}
}

// writeConfigIfMissing creates config.yaml from cfg unless the file
// already exists. It reports whether a file was written.
func writeConfigIfMissing(path string, cfg configFile) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
