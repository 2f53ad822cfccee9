package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/rileyhilliard/hostmon/internal/history"
	"github.com/rileyhilliard/hostmon/internal/metrics"
	"github.com/rileyhilliard/hostmon/internal/process"
	"github.com/rileyhilliard/hostmon/internal/ui"
)

// netBarCap is the cumulative byte count that fills an interface's total bar.
const netBarCap = 2 << 30

const unavailable = "unavailable"

func (m Model) renderSystem() string {
	st := m.state
	w := m.contentWidth()
	h := st.Host

	model := h.CPUModel
	if model == "" {
		model = "unknown"
	}
	uptime := "unknown"
	if h.Uptime > 0 {
		uptime = formatUptime(st.Time, h.Uptime)
	}
	osName := strings.TrimSpace(h.Platform + " " + h.OS)
	if osName == "" {
		osName = "unknown"
	}

	info := []string{
		kv("Hostname", orUnknown(h.Hostname)),
		kv("OS", osName),
		kv("Kernel", orUnknown(h.KernelVersion)),
		kv("CPU", fmt.Sprintf("%s (%d logical)", model, st.LogicalCPUs)),
		kv("User", orUnknown(h.User)),
		kv("Uptime", uptime),
	}

	t := st.Tasks
	tasks := []string{
		fmt.Sprintf("%s %d   %s %d   %s %d   %s %d",
			LabelStyle.Render("running"), t.Running,
			LabelStyle.Render("sleeping"), t.Sleeping,
			LabelStyle.Render("stopped"), t.Stopped,
			LabelStyle.Render("zombie"), t.Zombie),
	}

	sections := []string{
		Section("System", st.Source, info, w),
		Section("Tasks", fmt.Sprintf("%d total", t.Total), tasks, w),
		m.cpuSection(),
	}
	return strings.Join(sections, "\n")
}

func (m Model) cpuSection() string {
	st := m.state
	w := m.contentWidth()

	if !st.HasCPU {
		return Section("CPU", unavailable, []string{MutedStyle.Render("no CPU counters this poll")}, w)
	}

	value := MetricStyleWithThresholds(st.CPUPercent, m.thresholds.CPU).Render(fmt.Sprintf("%.1f%%", st.CPUPercent))
	lines := []string{
		ProgressBar(m.graphWidth(), st.CPUPercent, m.thresholds.CPU),
	}
	lines = append(lines, m.trend(history.CPU, func(v float64) lipgloss.Color { return ThresholdColor(v, m.thresholds.CPU) }, percent)...)
	return Section("CPU", value, lines, w)
}

func (m Model) renderFan() string {
	st := m.state
	w := m.contentWidth()
	f := st.Fan

	if !f.Present {
		return Section("Fan", unavailable, []string{MutedStyle.Render("no readable fan sensor on this host")}, w)
	}

	status := "inactive"
	if f.Active {
		status = "active"
	}
	level := "n/a"
	if f.Level >= 0 {
		level = fmt.Sprintf("%d", f.Level)
	}

	lines := []string{
		kv("Status", status),
		kv("Speed", fmt.Sprintf("%s RPM", humanize.Comma(int64(f.RPM)))),
		kv("Level", level),
	}
	lines = append(lines, m.trend(history.Fan, FixedColor(ColorGraph), rpm)...)
	return Section("Fan", fmt.Sprintf("%d RPM", f.RPM), lines, w)
}

func (m Model) renderThermal() string {
	st := m.state
	w := m.contentWidth()
	th := st.Thermal

	if !th.Present {
		return Section("Thermal", unavailable, []string{MutedStyle.Render("no CPU temperature sensor found")}, w)
	}

	value := MetricStyleWithThresholds(th.Celsius, m.thresholds.Thermal).Render(fmt.Sprintf("%.1f°C", th.Celsius))
	lines := []string{kv("CPU", value)}
	lines = append(lines, m.trend(history.Thermal, func(v float64) lipgloss.Color { return ThresholdColor(v, m.thresholds.Thermal) }, celsius)...)
	return Section("Thermal", fmt.Sprintf("%.1f°C", th.Celsius), lines, w)
}

func (m Model) renderMemory() string {
	st := m.state
	w := m.contentWidth()
	var sections []string

	// Memory
	switch {
	case !st.HasMemory:
		sections = append(sections, Section("Memory", unavailable, nil, w))
	case !metrics.IsKnown(st.Memory.Percent):
		sections = append(sections, Section("Memory", "unsupported", nil, w))
	default:
		mem := st.Memory
		lines := []string{
			ProgressBar(m.graphWidth(), mem.Percent, m.thresholds.Memory),
			fmt.Sprintf("%s used of %s, %s available",
				humanize.IBytes(mem.UsedKB*1024), humanize.IBytes(mem.TotalKB*1024), humanize.IBytes(mem.AvailableKB*1024)),
		}
		lines = append(lines, m.trend(history.Memory, func(v float64) lipgloss.Color { return ThresholdColor(v, m.thresholds.Memory) }, percent)...)
		sections = append(sections, Section("Memory", fmt.Sprintf("%.1f%%", mem.Percent), lines, w))
	}

	// Swap
	switch {
	case !st.HasSwap:
		sections = append(sections, Section("Swap", unavailable, nil, w))
	case !st.Swap.TotalKnown:
		sections = append(sections, Section("Swap", "total unknown",
			[]string{fmt.Sprintf("%s used", humanize.IBytes(st.Swap.UsedKB*1024))}, w))
	case st.Swap.TotalKB == 0:
		sections = append(sections, Section("Swap", "none", []string{MutedStyle.Render("no swap configured")}, w))
	default:
		sw := st.Swap
		lines := []string{
			ProgressBar(m.graphWidth(), sw.Percent, m.thresholds.Memory),
			fmt.Sprintf("%s used of %s", humanize.IBytes(sw.UsedKB*1024), humanize.IBytes(sw.TotalKB*1024)),
		}
		lines = append(lines, m.trend(history.Swap, FixedColor(ColorAccentDim), percent)...)
		sections = append(sections, Section("Swap", fmt.Sprintf("%.1f%%", sw.Percent), lines, w))
	}

	// Disk
	title := "Disk " + st.DiskPath
	if !st.HasDisk || !metrics.IsKnown(st.Disk.Percent) {
		sections = append(sections, Section(title, unavailable, nil, w))
	} else {
		d := st.Disk
		lines := []string{
			ProgressBar(m.graphWidth(), d.Percent, m.thresholds.Memory),
			fmt.Sprintf("%s used of %s, %s available",
				humanize.IBytes(d.UsedBytes), humanize.IBytes(d.TotalBytes), humanize.IBytes(d.AvailBytes)),
		}
		sections = append(sections, Section(title, fmt.Sprintf("%.1f%%", d.Percent), lines, w))
	}

	return strings.Join(sections, "\n")
}

func (m Model) renderNetwork() string {
	st := m.state
	w := m.contentWidth()

	if !st.HasNetwork {
		return Section("Network", unavailable, nil, w)
	}

	rates := fmt.Sprintf("rx %s/s  tx %s/s", metrics.FormatBytes(uint64(st.RxRate)), metrics.FormatBytes(uint64(st.TxRate)))
	lines := []string{LabelStyle.Render("receive")}
	lines = append(lines, m.trend(history.NetRX, FixedColor(ColorGraph), byteRate)...)
	lines = append(lines, LabelStyle.Render("transmit"))
	lines = append(lines, m.trend(history.NetTX, FixedColor(ColorGraphTx), byteRate)...)

	rateRows := make([][]string, 0, len(st.Network))
	counterRows := make([][]string, 0, len(st.Network)*2)
	var totals []string
	for _, n := range st.Network {
		rx, tx := "-", "-"
		if n.HasRate {
			rx = metrics.FormatBytes(uint64(n.RxRate)) + "/s"
			tx = metrics.FormatBytes(uint64(n.TxRate)) + "/s"
		}
		rateRows = append(rateRows, []string{n.Name, rx, tx, metrics.FormatBytes(n.RxBytes), metrics.FormatBytes(n.TxBytes)})

		counterRows = append(counterRows,
			[]string{n.Name, "rx", ui.Count(n.RxPackets), ui.Count(n.RxErrors), ui.Count(n.RxDropped),
				ui.Count(n.RxFIFO), ui.Count(n.RxFrame), ui.Count(n.RxCompressed), ui.Count(n.RxMulticast)},
			[]string{"", "tx", ui.Count(n.TxPackets), ui.Count(n.TxErrors), ui.Count(n.TxDropped),
				ui.Count(n.TxFIFO), ui.Count(n.TxCollisions), ui.Count(n.TxCompressed), ui.Count(n.TxCarrier)},
		)

		barWidth := m.graphWidth() - 24
		if barWidth < 4 {
			barWidth = 4
		}
		totals = append(totals,
			fmt.Sprintf("%-8s rx %s %s", n.Name, ProgressBar(barWidth, totalPercent(n.RxBytes), m.thresholds.Memory), metrics.FormatBytes(n.RxBytes)),
			fmt.Sprintf("%-8s tx %s %s", "", ProgressBar(barWidth, totalPercent(n.TxBytes), m.thresholds.Memory), metrics.FormatBytes(n.TxBytes)))
	}

	rateTable := ui.RenderSimpleTable([]ui.TableColumn{
		{Title: "Iface", Width: 10}, {Title: "RX/s", Width: 13}, {Title: "TX/s", Width: 13},
		{Title: "RX total", Width: 12}, {Title: "TX total", Width: 12},
	}, rateRows)
	counterTable := ui.RenderSimpleTable([]ui.TableColumn{
		{Title: "Iface", Width: 10}, {Title: "Dir", Width: 3}, {Title: "Packets", Width: 12}, {Title: "Errs", Width: 6},
		{Title: "Drop", Width: 6}, {Title: "FIFO", Width: 6}, {Title: "Frame/Coll", Width: 10}, {Title: "Compr", Width: 6}, {Title: "Mcast/Carr", Width: 10},
	}, counterRows)

	sections := []string{
		Section("Network", rates, lines, w),
		Section("Interfaces", fmt.Sprintf("%d", len(st.Network)), []string{rateTable}, w),
		Section("Totals", "2 GB scale", totals, w),
		Section("Counters", "", []string{counterTable}, w),
	}
	return strings.Join(sections, "\n")
}

func (m Model) renderProcesses() string {
	st := m.state
	w := m.contentWidth()

	filterLine := LabelStyle.Render("filter: ") + orNone(st.Filter)
	if m.filtering {
		filterLine = m.filter.View()
	}

	dir := "↑"
	if st.SortDesc {
		dir = "↓"
	}
	status := fmt.Sprintf("%d shown · %d selected · sort %s %s", len(st.Processes), len(st.Selected), st.Sort, dir)

	header := LabelStyle.Render(processRow(" ", "PID", "NAME", "S", "CPU%", "MEM%", "RSS"))

	rows := make([]string, 0, len(st.Processes))
	for i, p := range st.Processes {
		rows = append(rows, m.renderProcessRow(i, p))
	}

	vp := m.procViewport
	if !m.viewportReady {
		vp = viewport.New(w, m.processListHeight())
	}
	vp.SetContent(strings.Join(rows, "\n"))
	vp.SetYOffset(m.procOffset)

	lines := []string{filterLine, header, vp.View()}
	return Section("Processes", status, lines, w)
}

func (m Model) renderProcessRow(i int, p process.Record) string {
	mark := MarkUnselected
	if p.Selected {
		mark = MarkSelected
	}
	row := processRow(mark,
		fmt.Sprintf("%d", p.PID),
		p.Name,
		p.State.Letter(),
		fmt.Sprintf("%.1f", p.CPUPercent),
		fmt.Sprintf("%.1f", p.MemPercent),
		humanize.IBytes(p.RSSKB*1024))

	switch {
	case i == m.cursor:
		return CursorRowStyle.Render(row)
	case p.Selected:
		return SelectedRowStyle.Render(row)
	}
	return row
}

func processRow(mark, pid, name, state, cpu, mem, rss string) string {
	if r := []rune(name); len(r) > 24 {
		name = string(r[:23]) + "…"
	}
	return fmt.Sprintf("%s %7s  %-24s %1s %7s %6s %10s", mark, pid, name, state, cpu, mem, rss)
}

// trend draws a stream's history on its current Y-scale: a braille graph
// and scale line in the standard layout, a one-row sparkline in the minimal
// one.
func (m Model) trend(s history.Stream, colorOf ColorFunc, format func(float64) string) []string {
	data := m.state.History[s]
	yMax := m.state.YScales[s]
	if m.LayoutMode() == LayoutStandard {
		return []string{
			RenderBrailleGraph(data, m.graphWidth(), graphHeight, yMax, colorOf),
			m.scaleLabel(s, format),
		}
	}

	spark := RenderMiniSparkline(data, m.graphWidth(), yMax)
	if spark == "" {
		return nil
	}
	return []string{lipgloss.NewStyle().Foreground(colorOf(data[len(data)-1])).Render(spark)}
}

// scaleLabel shows a stream's Y-scale and the range [ and ] move it within.
func (m Model) scaleLabel(s history.Stream, format func(float64) string) string {
	label := "y-scale " + format(m.state.YScales[s])
	if rng, ok := m.sess.Scheduler().ScaleRange(s); ok {
		label += fmt.Sprintf(" (%s to %s)", format(rng.Min), format(rng.Max))
	}
	return MutedStyle.Render(label)
}

func percent(v float64) string { return fmt.Sprintf("%.0f%%", v) }

func rpm(v float64) string { return fmt.Sprintf("%.0f RPM", v) }

func celsius(v float64) string { return fmt.Sprintf("%.0f°C", v) }

func byteRate(v float64) string { return metrics.FormatBytes(uint64(v)) + "/s" }

func totalPercent(bytes uint64) float64 {
	return float64(bytes) / float64(netBarCap) * 100
}

func formatUptime(now time.Time, up time.Duration) string {
	if now.IsZero() {
		now = time.Now()
	}
	return strings.TrimSpace(humanize.RelTime(now.Add(-up), now, "", ""))
}

func kv(k, v string) string {
	return LabelStyle.Render(fmt.Sprintf("%-9s", k)) + " " + ValueStyle.Render(v)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func orNone(s string) string {
	if s == "" {
		return MutedStyle.Render("none")
	}
	return s
}
