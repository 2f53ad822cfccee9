package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/rileyhilliard/hostmon/internal/config"
	"github.com/rileyhilliard/hostmon/internal/errors"
	"github.com/rileyhilliard/hostmon/internal/scheduler"
	"github.com/spf13/cobra"
)

// flagValues holds the global flags shared by every command.
type flagValues struct {
	ConfigPath string
	Source     string
	FPS        int
	LogFile    string
	Filter     string
}

// addRootFlags registers the global flags as persistent flags on cmd.
func addRootFlags(cmd *cobra.Command, f *flagValues) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.ConfigPath, "config", "", "config file (default ./.hostmon.yaml or ~/.config/hostmon/config.yaml)")
	pf.StringVar(&f.Source, "source", "", "counter source: auto, procfs or psutil")
	pf.IntVar(&f.FPS, "fps", 0, fmt.Sprintf("samples per second (%d-%d)", scheduler.MinFPS, scheduler.MaxFPS))
	pf.StringVar(&f.LogFile, "log-file", "", "write logs here while the dashboard is open (default: discard)")
	pf.StringVar(&f.Filter, "filter", "", "initial process filter (name or pid substring)")
}

// applyFlags overlays the flags the user actually set onto cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config, f *flagValues) {
	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Source = strings.TrimSpace(f.Source)
	}
	if flags.Changed("fps") {
		cfg.FPS = f.FPS
	}
}

// ParseInterval parses a sampling interval flag. Anything shorter than
// the process recompute floor is rejected, since the second sample would
// carry no process CPU figures.
func ParseInterval(flag string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(flag))
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid interval", flag),
			"Try something like 1s, 2s, or 500ms.")
	}
	if d < scheduler.MinProcessInterval {
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("Interval %s is too short", d),
			fmt.Sprintf("Use at least %s so process CPU can be measured.", scheduler.MinProcessInterval))
	}
	return d, nil
}
