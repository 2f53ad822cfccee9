package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rileyhilliard/hostmon/internal/errors"
	"github.com/spf13/cobra"
)

var rootFlags flagValues

var rootCmd = &cobra.Command{
	Use:   "hostmon",
	Short: "Live terminal dashboard for this machine",
	Long: `hostmon samples kernel counters and draws CPU, memory, swap, disk,
fan, temperature, network and per-process usage in a full-screen dashboard.

Keyboard shortcuts:
  tab / shift+tab  Switch tabs (or 1-6)
  p                Pause sampling
  + / -            Faster / slower refresh
  ] / [            Raise / lower the graph Y-scale
  c                Clear the graphs
  R                Rescan fan and thermal sensors
  /                Filter processes
  space            Select the process under the cursor
  x                Clear the selection
  s / r            Cycle sort order / reverse it
  ?                Show help
  q                Quit

Examples:
  hostmon
  hostmon --fps 30 --filter postgres
  hostmon --source psutil --log-file /tmp/hostmon.log`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd, &rootFlags)
	},
}

func init() {
	addRootFlags(rootCmd, &rootFlags)
}

// Exit codes by error code. Anything without a structured code exits 1.
const (
	exitFailure = 1
	exitConfig  = 2
	exitSource  = 3
	exitUI      = 4
)

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}
	if isUnknownCommandError(err) {
		err = unknownCommandError(err)
	}
	var reported *reportedError
	if !stderrors.As(err, &reported) {
		fmt.Fprint(os.Stderr, err.Error())
	}
	os.Exit(exitCode(err))
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.IsCode(err, errors.ErrConfig):
		return exitConfig
	case errors.IsCode(err, errors.ErrSource):
		return exitSource
	case errors.IsCode(err, errors.ErrUI):
		return exitUI
	default:
		return exitFailure
	}
}

// reportedError marks a failure the command already wrote out (as JSON).
// Execute only sets the exit code for it.
type reportedError struct {
	cause error
}

func (e *reportedError) Error() string { return "error already reported" }

func (e *reportedError) Unwrap() error { return e.cause }

func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// extractUnknownCommand pulls the command name out of cobra's
// `unknown command "foo" for "hostmon"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}

func unknownCommandError(err error) error {
	if name := extractUnknownCommand(err); name != "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' isn't a hostmon command", name),
			"Run 'hostmon --help' to see what's available.")
	}
	return errors.WrapWithCode(err, errors.ErrConfig,
		"Unrecognized flag",
		"Run 'hostmon --help' to see what's available.")
}
