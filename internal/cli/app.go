package cli

import (
	"github.com/rileyhilliard/hostmon/internal/config"
	"github.com/rileyhilliard/hostmon/internal/logger"
	"github.com/rileyhilliard/hostmon/internal/process"
	"github.com/rileyhilliard/hostmon/internal/scheduler"
	"github.com/rileyhilliard/hostmon/internal/session"
	"github.com/rileyhilliard/hostmon/internal/source"
	"github.com/rileyhilliard/hostmon/internal/source/platform"
	"github.com/spf13/cobra"
)

// loadConfig finds and loads the config file, overlays the command-line
// flags, and validates the result. It returns the file path used, or ""
// when running on defaults.
func loadConfig(cmd *cobra.Command, f *flagValues) (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(f.ConfigPath)
	if err != nil {
		return nil, "", err
	}
	applyFlags(cmd, cfg, f)
	if err := config.Validate(cfg); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// openSource opens the counter source named in cfg.
func openSource(cfg *config.Config, log logger.Logger) (source.CounterSource, string, error) {
	return platform.Open(platform.Options{
		Name:     cfg.Source,
		ProcRoot: cfg.ProcfsRoot,
		SysRoot:  cfg.SysfsRoot,
		Logger:   log,
	})
}

// newSession builds a session over src with the scheduler seeded from cfg.
// A nil clock means the system clock.
func newSession(cfg *config.Config, src source.CounterSource, name, filter string, log logger.Logger, clock scheduler.Clock) *session.Session {
	sched := scheduler.New(clock)
	sched.SetFPS(cfg.FPS)
	sched.SetProcessInterval(cfg.ProcessInterval)
	sched.SetPaused(cfg.Paused)
	for stream, v := range cfg.Scales.ByStream() {
		sched.SetYScale(stream, v)
	}

	order, _ := process.ParseSortOrder(cfg.ProcessSort)
	return session.New(session.Options{
		Source:      src,
		SourceName:  name,
		Scheduler:   sched,
		HistorySize: cfg.HistorySize,
		DiskPath:    cfg.DiskPath,
		Sort:        order,
		SortDesc:    order.DefaultDesc(),
		Filter:      filter,
		Logger:      log,
	})
}
