package cli

import (
	"time"

	"github.com/rileyhilliard/hostmon/internal/metrics"
	"github.com/rileyhilliard/hostmon/internal/session"
)

// Report is the snapshot command's output. Absent sections are left nil so
// YAML and JSON consumers can tell "not measured" from zero.
type Report struct {
	Time        time.Time          `json:"time" yaml:"time"`
	Source      string             `json:"source" yaml:"source"`
	Host        HostReport         `json:"host" yaml:"host"`
	CPU         *CPUReport         `json:"cpu,omitempty" yaml:"cpu,omitempty"`
	Memory      *MemoryReport      `json:"memory,omitempty" yaml:"memory,omitempty"`
	Swap        *SwapReport        `json:"swap,omitempty" yaml:"swap,omitempty"`
	Disk        *DiskReport        `json:"disk,omitempty" yaml:"disk,omitempty"`
	Network     *NetworkReport     `json:"network,omitempty" yaml:"network,omitempty"`
	Fan         *FanReport         `json:"fan,omitempty" yaml:"fan,omitempty"`
	Temperature *TemperatureReport `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	Tasks       TasksReport        `json:"tasks" yaml:"tasks"`
	Processes   []ProcessReport    `json:"processes" yaml:"processes"`
}

type HostReport struct {
	Hostname      string  `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	OS            string  `json:"os,omitempty" yaml:"os,omitempty"`
	Platform      string  `json:"platform,omitempty" yaml:"platform,omitempty"`
	KernelVersion string  `json:"kernel_version,omitempty" yaml:"kernel_version,omitempty"`
	CPUModel      string  `json:"cpu_model,omitempty" yaml:"cpu_model,omitempty"`
	User          string  `json:"user,omitempty" yaml:"user,omitempty"`
	UptimeSeconds float64 `json:"uptime_seconds,omitempty" yaml:"uptime_seconds,omitempty"`
}

type CPUReport struct {
	Percent     float64 `json:"percent" yaml:"percent"`
	LogicalCPUs int     `json:"logical_cpus" yaml:"logical_cpus"`
}

// MemoryReport has a nil Percent when the platform gave no usable totals.
type MemoryReport struct {
	TotalBytes     uint64   `json:"total_bytes" yaml:"total_bytes"`
	UsedBytes      uint64   `json:"used_bytes" yaml:"used_bytes"`
	AvailableBytes uint64   `json:"available_bytes" yaml:"available_bytes"`
	Percent        *float64 `json:"percent,omitempty" yaml:"percent,omitempty"`
}

// SwapReport has a nil TotalBytes and Percent when only the used amount is
// known.
type SwapReport struct {
	TotalBytes *uint64  `json:"total_bytes,omitempty" yaml:"total_bytes,omitempty"`
	UsedBytes  uint64   `json:"used_bytes" yaml:"used_bytes"`
	Percent    *float64 `json:"percent,omitempty" yaml:"percent,omitempty"`
}

type DiskReport struct {
	Path           string   `json:"path" yaml:"path"`
	TotalBytes     uint64   `json:"total_bytes" yaml:"total_bytes"`
	UsedBytes      uint64   `json:"used_bytes" yaml:"used_bytes"`
	AvailableBytes uint64   `json:"available_bytes" yaml:"available_bytes"`
	Percent        *float64 `json:"percent,omitempty" yaml:"percent,omitempty"`
}

type NetworkReport struct {
	RxBytesPerSec float64           `json:"rx_bytes_per_sec" yaml:"rx_bytes_per_sec"`
	TxBytesPerSec float64           `json:"tx_bytes_per_sec" yaml:"tx_bytes_per_sec"`
	Interfaces    []InterfaceReport `json:"interfaces" yaml:"interfaces"`
}

type InterfaceReport struct {
	Name          string  `json:"name" yaml:"name"`
	RxBytes       uint64  `json:"rx_bytes" yaml:"rx_bytes"`
	TxBytes       uint64  `json:"tx_bytes" yaml:"tx_bytes"`
	RxPackets     uint64  `json:"rx_packets" yaml:"rx_packets"`
	TxPackets     uint64  `json:"tx_packets" yaml:"tx_packets"`
	RxErrors      uint64  `json:"rx_errors" yaml:"rx_errors"`
	TxErrors      uint64  `json:"tx_errors" yaml:"tx_errors"`
	RxDropped     uint64  `json:"rx_dropped" yaml:"rx_dropped"`
	TxDropped     uint64  `json:"tx_dropped" yaml:"tx_dropped"`
	RxBytesPerSec float64 `json:"rx_bytes_per_sec" yaml:"rx_bytes_per_sec"`
	TxBytesPerSec float64 `json:"tx_bytes_per_sec" yaml:"tx_bytes_per_sec"`
}

// FanReport has a nil Level when the driver exposes no level file.
type FanReport struct {
	Active bool `json:"active" yaml:"active"`
	RPM    int  `json:"rpm" yaml:"rpm"`
	Level  *int `json:"level,omitempty" yaml:"level,omitempty"`
}

type TemperatureReport struct {
	Celsius float64 `json:"celsius" yaml:"celsius"`
}

type TasksReport struct {
	Total    int `json:"total" yaml:"total"`
	Running  int `json:"running" yaml:"running"`
	Sleeping int `json:"sleeping" yaml:"sleeping"`
	Stopped  int `json:"stopped" yaml:"stopped"`
	Zombie   int `json:"zombie" yaml:"zombie"`
}

type ProcessReport struct {
	PID        int     `json:"pid" yaml:"pid"`
	Name       string  `json:"name" yaml:"name"`
	State      string  `json:"state" yaml:"state"`
	CPUPercent float64 `json:"cpu_percent" yaml:"cpu_percent"`
	MemPercent float64 `json:"mem_percent" yaml:"mem_percent"`
	RSSBytes   uint64  `json:"rss_bytes" yaml:"rss_bytes"`
}

// buildReport converts a published state. top limits the process list;
// 0 keeps every row.
func buildReport(st *session.State, top int) Report {
	h := st.Host
	r := Report{
		Time:   st.Time,
		Source: st.Source,
		Host: HostReport{
			Hostname:      h.Hostname,
			OS:            h.OS,
			Platform:      h.Platform,
			KernelVersion: h.KernelVersion,
			CPUModel:      h.CPUModel,
			User:          h.User,
			UptimeSeconds: h.Uptime.Seconds(),
		},
		Tasks: TasksReport{
			Total:    st.Tasks.Total,
			Running:  st.Tasks.Running,
			Sleeping: st.Tasks.Sleeping,
			Stopped:  st.Tasks.Stopped,
			Zombie:   st.Tasks.Zombie,
		},
	}

	if st.HasCPU {
		r.CPU = &CPUReport{Percent: st.CPUPercent, LogicalCPUs: st.LogicalCPUs}
	}
	if st.HasMemory {
		m := st.Memory
		r.Memory = &MemoryReport{
			TotalBytes:     m.TotalKB * 1024,
			UsedBytes:      m.UsedKB * 1024,
			AvailableBytes: m.AvailableKB * 1024,
			Percent:        knownPercent(m.Percent),
		}
	}
	if st.HasSwap {
		sw := st.Swap
		r.Swap = &SwapReport{UsedBytes: sw.UsedKB * 1024, Percent: knownPercent(sw.Percent)}
		if sw.TotalKnown {
			total := sw.TotalKB * 1024
			r.Swap.TotalBytes = &total
		}
	}
	if st.HasDisk {
		d := st.Disk
		r.Disk = &DiskReport{
			Path:           st.DiskPath,
			TotalBytes:     d.TotalBytes,
			UsedBytes:      d.UsedBytes,
			AvailableBytes: d.AvailBytes,
			Percent:        knownPercent(d.Percent),
		}
	}
	if st.HasNetwork {
		n := &NetworkReport{RxBytesPerSec: st.RxRate, TxBytesPerSec: st.TxRate}
		for _, ir := range st.Network {
			n.Interfaces = append(n.Interfaces, InterfaceReport{
				Name:          ir.Name,
				RxBytes:       ir.RxBytes,
				TxBytes:       ir.TxBytes,
				RxPackets:     ir.RxPackets,
				TxPackets:     ir.TxPackets,
				RxErrors:      ir.RxErrors,
				TxErrors:      ir.TxErrors,
				RxDropped:     ir.RxDropped,
				TxDropped:     ir.TxDropped,
				RxBytesPerSec: ir.RxRate,
				TxBytesPerSec: ir.TxRate,
			})
		}
		r.Network = n
	}
	if st.Fan.Present {
		f := &FanReport{Active: st.Fan.Active, RPM: st.Fan.RPM}
		if st.Fan.Level >= 0 {
			level := st.Fan.Level
			f.Level = &level
		}
		r.Fan = f
	}
	if st.Thermal.Present {
		r.Temperature = &TemperatureReport{Celsius: st.Thermal.Celsius}
	}

	procs := st.Processes
	if top > 0 && len(procs) > top {
		procs = procs[:top]
	}
	r.Processes = make([]ProcessReport, 0, len(procs))
	for _, p := range procs {
		r.Processes = append(r.Processes, ProcessReport{
			PID:        p.PID,
			Name:       p.Name,
			State:      p.State.String(),
			CPUPercent: p.CPUPercent,
			MemPercent: p.MemPercent,
			RSSBytes:   p.RSSKB * 1024,
		})
	}
	return r
}

func knownPercent(v float64) *float64 {
	if !metrics.IsKnown(v) {
		return nil
	}
	return &v
}
