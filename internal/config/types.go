package config

import (
	"time"

	"github.com/rileyhilliard/hostmon/internal/history"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .hostmon.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Source picks the counter backend: auto, procfs or psutil.
	Source string `yaml:"source" mapstructure:"source"`

	// FPS is the poll and redraw rate for the dashboard.
	FPS int `yaml:"fps" mapstructure:"fps"`

	// HistorySize is how many samples each graph keeps.
	HistorySize int `yaml:"history_size" mapstructure:"history_size"`

	// ProcessInterval is the minimum gap between process CPU recomputes.
	ProcessInterval time.Duration `yaml:"process_interval" mapstructure:"process_interval"`

	// Paused starts the dashboard with sampling paused.
	Paused bool `yaml:"paused" mapstructure:"paused"`

	// DiskPath is the filesystem reported on the memory tab.
	DiskPath string `yaml:"disk_path" mapstructure:"disk_path"`

	// ProcfsRoot and SysfsRoot point the procfs source at a different mount.
	ProcfsRoot string `yaml:"procfs_root" mapstructure:"procfs_root"`
	SysfsRoot  string `yaml:"sysfs_root" mapstructure:"sysfs_root"`

	// ProcessSort is the initial process table order: cpu, mem, pid or name.
	ProcessSort string `yaml:"process_sort" mapstructure:"process_sort"`

	Scales     ScalesConfig     `yaml:"scales" mapstructure:"scales"`
	Thresholds ThresholdsConfig `yaml:"thresholds" mapstructure:"thresholds"`
}

// ScalesConfig holds the starting Y-scale for each graph.
// Zero means use the built-in default.
type ScalesConfig struct {
	CPU     float64 `yaml:"cpu" mapstructure:"cpu"`
	Memory  float64 `yaml:"memory" mapstructure:"memory"`
	Swap    float64 `yaml:"swap" mapstructure:"swap"`
	Thermal float64 `yaml:"thermal" mapstructure:"thermal"`
	Fan     float64 `yaml:"fan" mapstructure:"fan"`
	NetRX   float64 `yaml:"net_rx" mapstructure:"net_rx"`
	NetTX   float64 `yaml:"net_tx" mapstructure:"net_tx"`
}

// ByStream returns the configured scales keyed by stream, skipping zeros.
func (s ScalesConfig) ByStream() map[history.Stream]float64 {
	all := map[history.Stream]float64{
		history.CPU:     s.CPU,
		history.Memory:  s.Memory,
		history.Swap:    s.Swap,
		history.Thermal: s.Thermal,
		history.Fan:     s.Fan,
		history.NetRX:   s.NetRX,
		history.NetTX:   s.NetTX,
	}
	out := make(map[history.Stream]float64, len(all))
	for k, v := range all {
		if v != 0 {
			out[k] = v
		}
	}
	return out
}

// ThresholdsConfig configures when the dashboard colors a value as a warning or critical.
type ThresholdsConfig struct {
	CPU     ThresholdValues `yaml:"cpu" mapstructure:"cpu"`
	Memory  ThresholdValues `yaml:"memory" mapstructure:"memory"`
	Thermal ThresholdValues `yaml:"thermal" mapstructure:"thermal"`
}

// ThresholdValues defines warning and critical levels. Percent for cpu and
// memory, degrees Celsius for thermal.
type ThresholdValues struct {
	Warning  int `yaml:"warning" mapstructure:"warning"`
	Critical int `yaml:"critical" mapstructure:"critical"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:         CurrentConfigVersion,
		Source:          "auto",
		FPS:             10,
		HistorySize:     history.DefaultCapacity,
		ProcessInterval: 500 * time.Millisecond,
		DiskPath:        "/",
		ProcessSort:     "cpu",
		Thresholds: ThresholdsConfig{
			CPU:     ThresholdValues{Warning: 70, Critical: 90},
			Memory:  ThresholdValues{Warning: 70, Critical: 90},
			Thermal: ThresholdValues{Warning: 70, Critical: 85},
		},
	}
}
