package config

import (
	"os"
	"path/filepath"

	"github.com/rileyhilliard/hostmon/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".hostmon.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/hostmon"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'hostmon config init' to create one, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .hostmon.yaml in current directory
// 3. ~/.config/hostmon/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		explicit = ExpandTilde(explicit)
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	if global := GlobalPath(); global != "" {
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// GlobalPath returns ~/.config/hostmon/config.yaml, or empty if the home
// directory is unknown.
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
}

// LoadOrDefault finds and loads config, returning defaults when no file
// exists. The returned path is empty in that case.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	if path == "" {
		return DefaultConfig(), "", nil
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	setDefaults(v, cfg)

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	cfg.DiskPath = Expand(cfg.DiskPath)
	cfg.ProcfsRoot = Expand(cfg.ProcfsRoot)
	cfg.SysfsRoot = Expand(cfg.SysfsRoot)

	return cfg, nil
}

// setDefaults registers defaults so keys missing from the file keep their
// built-in values after Unmarshal.
func setDefaults(v *viper.Viper, def *Config) {
	v.SetDefault("version", def.Version)
	v.SetDefault("source", def.Source)
	v.SetDefault("fps", def.FPS)
	v.SetDefault("history_size", def.HistorySize)
	v.SetDefault("process_interval", def.ProcessInterval.String())
	v.SetDefault("paused", def.Paused)
	v.SetDefault("disk_path", def.DiskPath)
	v.SetDefault("process_sort", def.ProcessSort)
	v.SetDefault("thresholds.cpu.warning", def.Thresholds.CPU.Warning)
	v.SetDefault("thresholds.cpu.critical", def.Thresholds.CPU.Critical)
	v.SetDefault("thresholds.memory.warning", def.Thresholds.Memory.Warning)
	v.SetDefault("thresholds.memory.critical", def.Thresholds.Memory.Critical)
	v.SetDefault("thresholds.thermal.warning", def.Thresholds.Thermal.Warning)
	v.SetDefault("thresholds.thermal.critical", def.Thresholds.Thermal.Critical)
}
