package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rileyhilliard/hostmon/internal/errors"
	"github.com/rileyhilliard/hostmon/internal/logger"
	"github.com/rileyhilliard/hostmon/internal/metrics"
	"github.com/rileyhilliard/hostmon/internal/session"
	"github.com/rileyhilliard/hostmon/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Output formats for the snapshot command.
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

var (
	snapshotInterval string
	snapshotFormat   string
	snapshotTop      int
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Sample twice and print a report",
	Long: `Take two samples --interval apart and print every metric once.

Rates and CPU percentages need two samples, so the command always waits
one interval before printing. Text output is colored only when stdout is a
terminal.

Examples:
  hostmon snapshot
  hostmon snapshot --interval 2s --top 20
  hostmon snapshot --format json | jq .data.cpu`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := parseFormat(snapshotFormat)
		if err != nil {
			return err
		}
		err = snapshotCommand(cmd, format)
		if err != nil && format == FormatJSON {
			if werr := WriteJSONFromError(cmd.OutOrStdout(), err); werr == nil {
				return &reportedError{cause: err}
			}
		}
		return err
	},
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotInterval, "interval", "1s", "time between the two samples (at least 500ms)")
	snapshotCmd.Flags().StringVar(&snapshotFormat, "format", FormatText, "output format: text, yaml or json")
	snapshotCmd.Flags().IntVar(&snapshotTop, "top", 10, "processes to list (0 for all)")
	rootCmd.AddCommand(snapshotCmd)
}

func snapshotCommand(cmd *cobra.Command, format string) error {
	interval, err := ParseInterval(snapshotInterval)
	if err != nil {
		return err
	}
	cfg, _, err := loadConfig(cmd, &rootFlags)
	if err != nil {
		return err
	}

	log := logger.NewEnvLogger("[hostmon]")
	src, name, err := openSource(cfg, log)
	if err != nil {
		return err
	}
	sess := newSession(cfg, src, name, rootFlags.Filter, log, nil)

	st, err := sampleTwice(cmd.Context(), sess, interval, sleepContext)
	if err != nil {
		return err
	}

	if format == FormatText && !isTerminal(cmd.OutOrStdout()) {
		ui.DisableColors()
	}
	return writeReport(cmd.OutOrStdout(), buildReport(st, snapshotTop), format, interval)
}

// sampleTwice polls, waits one interval, and polls again. The session is
// unpaused and its process interval lowered to the wait so the second
// poll always recomputes process CPU.
func sampleTwice(ctx context.Context, sess *session.Session, interval time.Duration, wait func(context.Context, time.Duration) error) (*session.State, error) {
	sched := sess.Scheduler()
	sched.SetPaused(false)
	sched.SetProcessInterval(interval)

	if _, err := sess.Poll(ctx); err != nil {
		return nil, errors.Wrap(err, "Sampling was interrupted")
	}
	if err := wait(ctx, interval); err != nil {
		return nil, errors.Wrap(err, "Sampling was interrupted")
	}
	st, err := sess.Poll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "Sampling was interrupted")
	}
	return st, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func parseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case FormatText, FormatYAML, FormatJSON:
		return f, nil
	}
	return "", errors.New(errors.ErrConfig,
		fmt.Sprintf("'%s' isn't a snapshot format", s),
		"Use --format text, yaml or json.")
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func writeReport(w io.Writer, r Report, format string, interval time.Duration) error {
	switch format {
	case FormatJSON:
		return WriteJSONSuccess(w, r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := io.WriteString(w, renderText(r, interval))
		return err
	}
}

// renderText renders the human-readable report.
func renderText(r Report, interval time.Duration) string {
	var b strings.Builder

	detail := fmt.Sprintf("%s · %s source · %s interval", orDash(r.Host.Hostname), r.Source, interval)
	b.WriteString(ui.RenderHeader(ui.HeaderInfo{
		Version: formatVersion(version),
		Tagline: "snapshot at " + r.Time.Format(time.RFC3339),
		Detail:  detail,
	}))
	b.WriteString("\n")

	h := r.Host
	uptime := "-"
	if h.UptimeSeconds > 0 {
		up := time.Duration(h.UptimeSeconds * float64(time.Second))
		uptime = strings.TrimSpace(humanize.RelTime(r.Time.Add(-up), r.Time, "", ""))
	}
	b.WriteString(ui.RenderSection("System", ui.RenderKeyValues([]ui.KeyValue{
		{Key: "Hostname", Value: orDash(h.Hostname)},
		{Key: "OS", Value: orDash(strings.TrimSpace(h.Platform + " " + h.OS))},
		{Key: "Kernel", Value: orDash(h.KernelVersion)},
		{Key: "CPU", Value: orDash(h.CPUModel)},
		{Key: "User", Value: orDash(h.User)},
		{Key: "Uptime", Value: uptime},
	})))
	b.WriteString("\n")

	b.WriteString(ui.RenderSection("Usage", ui.RenderKeyValues(usageRows(r))))
	b.WriteString("\n")

	if r.Network != nil && len(r.Network.Interfaces) > 0 {
		rows := make([][]string, 0, len(r.Network.Interfaces))
		for _, n := range r.Network.Interfaces {
			rows = append(rows, []string{
				n.Name,
				metrics.FormatBytes(uint64(n.RxBytesPerSec)) + "/s",
				metrics.FormatBytes(uint64(n.TxBytesPerSec)) + "/s",
				metrics.FormatBytes(n.RxBytes),
				metrics.FormatBytes(n.TxBytes),
				ui.Count(n.RxErrors + n.TxErrors),
			})
		}
		b.WriteString(ui.RenderSection("Network", ui.RenderSimpleTable([]ui.TableColumn{
			{Title: "Iface", Width: 10}, {Title: "RX/s", Width: 13}, {Title: "TX/s", Width: 13},
			{Title: "RX total", Width: 12}, {Title: "TX total", Width: 12}, {Title: "Errors", Width: 8},
		}, rows)))
		b.WriteString("\n\n")
	}

	if len(r.Processes) > 0 {
		rows := make([][]string, 0, len(r.Processes))
		for _, p := range r.Processes {
			rows = append(rows, []string{
				fmt.Sprintf("%d", p.PID),
				p.Name,
				p.State,
				fmt.Sprintf("%.1f", p.CPUPercent),
				fmt.Sprintf("%.1f", p.MemPercent),
				humanize.IBytes(p.RSSBytes),
			})
		}
		b.WriteString(ui.RenderSection("Processes", ui.RenderSimpleTable([]ui.TableColumn{
			{Title: "PID", Width: 8}, {Title: "Name", Width: 24}, {Title: "State", Width: 9},
			{Title: "CPU%", Width: 7}, {Title: "MEM%", Width: 6}, {Title: "RSS", Width: 10},
		}, rows)))
		b.WriteString("\n")
	}

	return b.String()
}

func usageRows(r Report) []ui.KeyValue {
	unavailable := "unavailable"
	rows := make([]ui.KeyValue, 0, 8)

	cpu := unavailable
	if r.CPU != nil {
		cpu = fmt.Sprintf("%.1f%% (%d logical)", r.CPU.Percent, r.CPU.LogicalCPUs)
	}
	rows = append(rows, ui.KeyValue{Key: "CPU", Value: cpu})

	mem := unavailable
	if m := r.Memory; m != nil {
		if m.Percent == nil {
			mem = "unsupported"
		} else {
			mem = fmt.Sprintf("%.1f%% (%s of %s)", *m.Percent, humanize.IBytes(m.UsedBytes), humanize.IBytes(m.TotalBytes))
		}
	}
	rows = append(rows, ui.KeyValue{Key: "Memory", Value: mem})

	swap := unavailable
	if s := r.Swap; s != nil {
		switch {
		case s.TotalBytes == nil:
			swap = fmt.Sprintf("%s used, total unknown", humanize.IBytes(s.UsedBytes))
		case *s.TotalBytes == 0:
			swap = "none"
		default:
			swap = fmt.Sprintf("%.1f%% (%s of %s)", *s.Percent, humanize.IBytes(s.UsedBytes), humanize.IBytes(*s.TotalBytes))
		}
	}
	rows = append(rows, ui.KeyValue{Key: "Swap", Value: swap})

	if d := r.Disk; d != nil && d.Percent != nil {
		rows = append(rows, ui.KeyValue{Key: "Disk " + d.Path,
			Value: fmt.Sprintf("%.1f%% (%s of %s)", *d.Percent, humanize.IBytes(d.UsedBytes), humanize.IBytes(d.TotalBytes))})
	} else {
		rows = append(rows, ui.KeyValue{Key: "Disk", Value: unavailable})
	}

	if n := r.Network; n != nil {
		rows = append(rows, ui.KeyValue{Key: "Network",
			Value: fmt.Sprintf("rx %s/s, tx %s/s", metrics.FormatBytes(uint64(n.RxBytesPerSec)), metrics.FormatBytes(uint64(n.TxBytesPerSec)))})
	}

	fan := unavailable
	if f := r.Fan; f != nil {
		state := "inactive"
		if f.Active {
			state = "active"
		}
		fan = fmt.Sprintf("%s RPM, %s", humanize.Comma(int64(f.RPM)), state)
	}
	rows = append(rows, ui.KeyValue{Key: "Fan", Value: fan})

	temp := unavailable
	if r.Temperature != nil {
		temp = fmt.Sprintf("%.1f°C", r.Temperature.Celsius)
	}
	rows = append(rows, ui.KeyValue{Key: "Temperature", Value: temp})

	t := r.Tasks
	rows = append(rows, ui.KeyValue{Key: "Tasks",
		Value: fmt.Sprintf("%d total, %d running, %d sleeping, %d stopped, %d zombie", t.Total, t.Running, t.Sleeping, t.Stopped, t.Zombie)})
	return rows
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
