package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/slotshift/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend     = "backend"
	cfgKeyDataDir     = "data_dir"
	cfgKeyTempDir     = "temp_dir"
	cfgKeyDeleteDelay = "external_delete_delay"
	cfgKeyThreshold   = "drag_threshold"
	cfgKeyLogLevel    = "log_level"
)

// fileConfig is the content of config.yaml.
type fileConfig struct {
	Backend             string        `yaml:"backend"`
	DataDir             string        `yaml:"data_dir,omitempty"`
	TempDir             string        `yaml:"temp_dir,omitempty"`
	ExternalDeleteDelay time.Duration `yaml:"external_delete_delay"`
	DragThreshold       int           `yaml:"drag_threshold"`
	LogLevel            string        `yaml:"log_level"`
}

const configHeader = `# slotshift configuration
# data_dir and temp_dir are optional; flags and SLOTSHIFT_* variables override them.
`

// loadConfig reads config.yaml from the resolved config directory using Viper.
// It creates the config directory and a default config.yaml on first run.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (fileConfig, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return fileConfig{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return fileConfig{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyDeleteDelay, types.DefaultExternalDeleteDelay)
	v.SetDefault(cfgKeyThreshold, types.DefaultDragThreshold)
	v.SetDefault(cfgKeyLogLevel, types.DefaultLogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fileConfig{}, fmt.Errorf("read config: %w", err)
		}
	}

	return fileConfig{
		Backend:             v.GetString(cfgKeyBackend),
		DataDir:             v.GetString(cfgKeyDataDir),
		TempDir:             v.GetString(cfgKeyTempDir),
		ExternalDeleteDelay: v.GetDuration(cfgKeyDeleteDelay),
		DragThreshold:       v.GetInt(cfgKeyThreshold),
		LogLevel:            v.GetString(cfgKeyLogLevel),
	}, nil
}

// engineConfig resolves directories and returns the engine configuration.
func engineConfig() (types.Config, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	tempDir, err := resolveTempDir()
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve temp dir: %w", err)
	}
	cfg := types.Config{
		Backend:             fileCfg.Backend,
		DataDir:             dataDir,
		TempDir:             tempDir,
		ExternalDeleteDelay: fileCfg.ExternalDeleteDelay,
		DragThreshold:       fileCfg.DragThreshold,
		LogLevel:            fileCfg.LogLevel,
	}.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	body, err := yaml.Marshal(fileConfig{
		Backend:             types.BackendSQLite,
		ExternalDeleteDelay: types.DefaultExternalDeleteDelay,
		DragThreshold:       types.DefaultDragThreshold,
		LogLevel:            types.DefaultLogLevel,
	})
	if err != nil {
		return fmt.Errorf("encode default config: %w", err)
	}
	return os.WriteFile(path, append([]byte(configHeader), body...), 0o644)
}
