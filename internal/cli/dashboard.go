package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/hostmon/internal/errors"
	"github.com/rileyhilliard/hostmon/internal/logger"
	"github.com/rileyhilliard/hostmon/internal/monitor"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// dashboardCommand runs the full-screen dashboard until the user quits or
// the command's context is cancelled.
func dashboardCommand(cmd *cobra.Command, f *flagValues) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrUI,
			"hostmon needs a terminal to draw the dashboard",
			"Use 'hostmon snapshot' for output you can pipe or redirect.")
	}

	cfg, _, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}

	// The dashboard owns the screen, so log lines go to a file or nowhere.
	restore, err := logger.RedirectStd(f.LogFile)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Can't open log file %s", f.LogFile),
			"Pick a writable path for --log-file.")
	}
	defer restore()

	log := logger.NewEnvLogger("[hostmon]")
	src, name, err := openSource(cfg, log)
	if err != nil {
		return err
	}
	log.Info("dashboard starting: source=%s fps=%d", name, cfg.FPS)

	ctx := cmd.Context()
	sess := newSession(cfg, src, name, f.Filter, log, nil)
	model := monitor.NewModel(monitor.Options{
		Session:    sess,
		Thresholds: cfg.Thresholds,
		Context:    ctx,
		Logger:     log,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return errors.WrapWithCode(err, errors.ErrUI,
			"The dashboard stopped unexpectedly",
			"Check that your terminal supports full-screen programs, or try 'hostmon snapshot'.")
	}
	return nil
}
