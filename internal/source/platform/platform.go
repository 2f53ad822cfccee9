// Package platform chooses a CounterSource implementation at runtime.
package platform

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/rileyhilliard/hostmon/internal/errors"
	"github.com/rileyhilliard/hostmon/internal/logger"
	"github.com/rileyhilliard/hostmon/internal/source"
	"github.com/rileyhilliard/hostmon/internal/source/procfs"
	"github.com/rileyhilliard/hostmon/internal/source/psutil"
	"github.com/rileyhilliard/hostmon/internal/source/sysfs"
)

// Source names accepted by Open.
const (
	Auto   = "auto"
	Procfs = "procfs"
	Psutil = "psutil"
)

// Names lists the valid source names.
var Names = []string{Auto, Procfs, Psutil}

// Options configures Open.
type Options struct {
	// Name is one of Names. Empty means Auto.
	Name     string
	ProcRoot string
	SysRoot  string
	Logger   logger.Logger
	// GOOS overrides runtime.GOOS when resolving Auto.
	GOOS string
}

// Resolve maps Auto to the concrete source name for goos.
func Resolve(name, goos string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "", Auto:
		if goos == "linux" {
			return Procfs, nil
		}
		return Psutil, nil
	case Procfs, Psutil:
		return name, nil
	}
	return "", errors.New(errors.ErrSource,
		fmt.Sprintf("Unknown counter source '%s'", name),
		"Use one of: "+strings.Join(Names, ", "))
}

// Open resolves opts.Name and constructs the source.
func Open(opts Options) (source.CounterSource, string, error) {
	goos := opts.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}

	name, err := Resolve(opts.Name, goos)
	if err != nil {
		return nil, "", err
	}

	switch name {
	case Procfs:
		if goos != "linux" {
			return nil, "", errors.New(errors.ErrSource,
				"The procfs source only works on Linux",
				"Use --source psutil or --source auto on "+goos)
		}
		src, err := procfs.New(procfs.Options{ProcRoot: opts.ProcRoot, SysRoot: opts.SysRoot, Logger: log})
		if err != nil {
			return nil, "", errors.WrapWithCode(err, errors.ErrSource,
				"Can't open the procfs counter source",
				"Check that /proc is mounted, or set procfs_root in your config")
		}
		return src, name, nil
	default:
		var fans psutil.FanReader
		if goos == "linux" {
			fans = sysfs.New(opts.SysRoot, log)
		}
		return psutil.New(psutil.Options{Fans: fans, Logger: log}), name, nil
	}
}
