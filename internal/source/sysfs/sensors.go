// Package sysfs reads the optional fan and CPU temperature sensors Linux
// exposes under /sys. Sensor locations are discovered lazily on first use
// and remembered for the lifetime of the Sensors value.
package sysfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	psysfs "github.com/prometheus/procfs/sysfs"

	"github.com/rileyhilliard/hostmon/internal/logger"
	"github.com/rileyhilliard/hostmon/internal/source"
)

// DefaultRoot is where sysfs is normally mounted.
const DefaultRoot = "/sys"

// discovery tracks whether a sensor lookup has run and what it found.
type discovery int

const (
	unresolved discovery = iota
	resolved
	none
)

func (d discovery) String() string {
	switch d {
	case resolved:
		return "resolved"
	case none:
		return "none"
	default:
		return "unresolved"
	}
}

// thermalZoneTypes are substrings of /sys/class/thermal/*/type that identify
// the CPU package sensor.
var thermalZoneTypes = []string{"cpu", "x86_pkg_temp", "k10temp"}

// hwmonTempChips are hwmon chip names whose temp1_input is the CPU sensor.
var hwmonTempChips = []string{"k10temp", "coretemp", "zenpower"}

type fanFiles struct {
	input  string
	enable string
	level  string
}

type thermalTarget struct {
	zone      string // thermal zone name, when found through the thermal class
	hwmonPath string // temp1_input path, when found through hwmon
}

// Sensors is safe for concurrent use.
type Sensors struct {
	root string
	fs   psysfs.FS
	fsOK bool
	log  logger.Logger

	mu           sync.Mutex
	fanState     discovery
	fan          fanFiles
	thermalState discovery
	thermal      thermalTarget
}

// New creates a Sensors reader rooted at root (DefaultRoot when empty).
func New(root string, log logger.Logger) *Sensors {
	if root == "" {
		root = DefaultRoot
	}
	if log == nil {
		log = logger.Noop()
	}
	s := &Sensors{root: root, log: log}
	if fs, err := psysfs.NewFS(root); err == nil {
		s.fs = fs
		s.fsOK = true
	} else {
		log.Debug("sysfs unavailable at %s: %v", root, err)
	}
	return s
}

// Rescan forgets previous discovery results so the next read searches again.
func (s *Sensors) Rescan() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fanState = unresolved
	s.fan = fanFiles{}
	s.thermalState = unresolved
	s.thermal = thermalTarget{}
}

// Fan reads the first hwmon fan. It reports false when no fan exists.
func (s *Sensors) Fan(ctx context.Context) (source.FanReading, bool, error) {
	if err := ctx.Err(); err != nil {
		return source.FanReading{}, false, err
	}

	s.mu.Lock()
	if s.fanState == unresolved {
		s.fan, s.fanState = s.discoverFan()
		s.log.Debug("fan discovery: %s %s", s.fanState, s.fan.input)
	}
	state, files := s.fanState, s.fan
	s.mu.Unlock()

	if state == none {
		return source.FanReading{}, false, nil
	}

	rpm, err := readInt(files.input)
	if err != nil {
		return source.FanReading{}, true, fmt.Errorf("read fan speed: %w", err)
	}

	reading := source.FanReading{Level: -1}
	if rpm > 0 {
		reading.RPM = rpm
		reading.Active = true
	}
	// An explicit enable/status file overrides the speed-based guess.
	if files.enable != "" {
		enabled, err := readInt(files.enable)
		reading.Active = err == nil && enabled == 1
	}
	if files.level != "" {
		if level, err := readInt(files.level); err == nil && level >= 0 {
			reading.Level = level
		}
	}
	return reading, true, nil
}

// Temperature reads the CPU temperature in Celsius. It reports false when no
// CPU sensor exists.
func (s *Sensors) Temperature(ctx context.Context) (float64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}

	s.mu.Lock()
	if s.thermalState == unresolved {
		s.thermal, s.thermalState = s.discoverThermal()
		s.log.Debug("thermal discovery: %s zone=%q hwmon=%q", s.thermalState, s.thermal.zone, s.thermal.hwmonPath)
	}
	state, target := s.thermalState, s.thermal
	s.mu.Unlock()

	if state == none {
		return 0, false, nil
	}

	if target.zone != "" {
		zones, err := s.fs.ClassThermalZoneStats()
		if err != nil {
			return 0, true, fmt.Errorf("read thermal zones: %w", err)
		}
		for _, z := range zones {
			if z.Name == target.zone {
				return float64(z.Temp) / 1000, true, nil
			}
		}
		return 0, true, fmt.Errorf("thermal zone %s disappeared", target.zone)
	}

	milli, err := readInt(target.hwmonPath)
	if err != nil {
		return 0, true, fmt.Errorf("read hwmon temperature: %w", err)
	}
	return float64(milli) / 1000, true, nil
}

func (s *Sensors) discoverFan() (fanFiles, discovery) {
	dirs := s.hwmonDirs()
	for _, dir := range dirs {
		input := filepath.Join(dir, "fan1_input")
		if !exists(input) {
			continue
		}
		return fanFiles{
			input:  input,
			enable: firstExisting(dir, "fan1_enable", "fan1_status"),
			level:  firstExisting(dir, "fan1_level", "pwm1", "pwm1_enable"),
		}, resolved
	}
	return fanFiles{}, none
}

func (s *Sensors) discoverThermal() (thermalTarget, discovery) {
	if s.fsOK {
		zones, err := s.fs.ClassThermalZoneStats()
		if err != nil {
			s.log.Debug("thermal zones unreadable: %v", err)
		}
		sort.Slice(zones, func(i, j int) bool { return zones[i].Name < zones[j].Name })
		for _, z := range zones {
			if matchesAny(z.Type, thermalZoneTypes) {
				return thermalTarget{zone: z.Name}, resolved
			}
		}
	}

	for _, dir := range s.hwmonDirs() {
		name, err := os.ReadFile(filepath.Join(dir, "name"))
		if err != nil {
			continue
		}
		chip := strings.TrimSpace(string(name))
		for _, want := range hwmonTempChips {
			if chip != want {
				continue
			}
			if p := filepath.Join(dir, "temp1_input"); exists(p) {
				return thermalTarget{hwmonPath: p}, resolved
			}
		}
	}
	return thermalTarget{}, none
}

// hwmonDirs lists /sys/class/hwmon/* in name order. Some drivers put their
// attribute files under a device/ subdirectory, so those are listed too.
func (s *Sensors) hwmonDirs() []string {
	base := filepath.Join(s.root, "class", "hwmon")
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil
	}
	var dirs []string
	for _, e := range entries {
		dir := filepath.Join(base, e.Name())
		dirs = append(dirs, dir)
		if sub := filepath.Join(dir, "device"); exists(sub) {
			dirs = append(dirs, sub)
		}
	}
	return dirs
}

func matchesAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func firstExisting(dir string, names ...string) string {
	for _, n := range names {
		if p := filepath.Join(dir, n); exists(p) {
			return p
		}
	}
	return ""
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func readInt(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}
