package config

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/hostmon/internal/errors"
	"github.com/rileyhilliard/hostmon/internal/history"
	"github.com/rileyhilliard/hostmon/internal/process"
	"github.com/rileyhilliard/hostmon/internal/scheduler"
	"github.com/rileyhilliard/hostmon/internal/source/platform"
)

const (
	minHistorySize = 2
	maxHistorySize = 10000
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try running the command again.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but hostmon only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest hostmon, or lower 'version' in your config.")
	}

	if err := validateSource(cfg.Source); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Use one of: "+strings.Join(platform.Names, ", "))
	}

	if err := validateSampling(cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Check fps, history_size and process_interval in your .hostmon.yaml.")
	}

	if _, ok := process.ParseSortOrder(cfg.ProcessSort); !ok && cfg.ProcessSort != "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("process_sort '%s' isn't valid", cfg.ProcessSort),
			"Use one of: cpu, mem, pid, name")
	}

	if err := validateScales(cfg.Scales); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Check the 'scales' section in your .hostmon.yaml, or remove a key to use its default.")
	}

	if err := validateThresholdsConfig(cfg.Thresholds); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Check the 'thresholds' section in your .hostmon.yaml.")
	}

	return nil
}

func validateSource(name string) error {
	if name == "" {
		return nil
	}
	for _, n := range platform.Names {
		if strings.EqualFold(n, name) {
			return nil
		}
	}
	return fmt.Errorf("source '%s' isn't a known counter source", name)
}

// validateSampling checks the rate settings.
func validateSampling(cfg *Config) error {
	if cfg.FPS < scheduler.MinFPS || cfg.FPS > scheduler.MaxFPS {
		return fmt.Errorf("fps needs to be %d-%d (got %d)", scheduler.MinFPS, scheduler.MaxFPS, cfg.FPS)
	}
	if cfg.HistorySize < minHistorySize || cfg.HistorySize > maxHistorySize {
		return fmt.Errorf("history_size needs to be %d-%d (got %d)", minHistorySize, maxHistorySize, cfg.HistorySize)
	}
	if cfg.ProcessInterval < scheduler.MinProcessInterval {
		return fmt.Errorf("process_interval can't be shorter than %v (got %v)", scheduler.MinProcessInterval, cfg.ProcessInterval)
	}
	return nil
}

// validateScales checks every non-zero scale lies inside its stream's range.
func validateScales(s ScalesConfig) error {
	defaults := scheduler.DefaultScales()
	for _, name := range history.Streams {
		v, ok := s.ByStream()[name]
		if !ok {
			continue
		}
		rng := defaults[name].Range
		if v < rng.Min || v > rng.Max {
			return fmt.Errorf("scales.%s needs to be %g-%g (got %g)", name, rng.Min, rng.Max, v)
		}
	}
	return nil
}

func validateThresholdsConfig(t ThresholdsConfig) error {
	if err := validateThresholds("cpu", t.CPU, 100); err != nil {
		return err
	}
	if err := validateThresholds("memory", t.Memory, 100); err != nil {
		return err
	}
	return validateThresholds("thermal", t.Thermal, 150)
}

// validateThresholds checks a threshold configuration for a single metric.
func validateThresholds(name string, thresh ThresholdValues, max int) error {
	if thresh.Warning < 0 || thresh.Warning > max {
		return fmt.Errorf("thresholds.%s.warning needs to be 0-%d (got %d)", name, max, thresh.Warning)
	}
	if thresh.Critical < 0 || thresh.Critical > max {
		return fmt.Errorf("thresholds.%s.critical needs to be 0-%d (got %d)", name, max, thresh.Critical)
	}
	// 0 means disabled, so only compare when both are set.
	if thresh.Warning > 0 && thresh.Critical > 0 && thresh.Warning >= thresh.Critical {
		return fmt.Errorf("thresholds.%s.warning (%d) is higher than critical (%d) - should be the other way around", name, thresh.Warning, thresh.Critical)
	}
	return nil
}
