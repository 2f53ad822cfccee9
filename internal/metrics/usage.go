package metrics

const (
	// Unsupported marks a metric the platform cannot report at all.
	Unsupported = -1.0
	// Unknown marks a percentage whose denominator is not known.
	Unknown = -2.0
)

// IsKnown reports whether p is a real percentage rather than a sentinel.
func IsKnown(p float64) bool {
	return p >= 0
}

// Usage is memory usage in kilobytes.
type Usage struct {
	TotalKB     uint64
	AvailableKB uint64
	UsedKB      uint64
	Percent     float64
}

// MemoryUsage computes used = total - available. A zero total means the
// platform gave us nothing to work with and yields Percent = Unsupported.
func MemoryUsage(totalKB, availableKB uint64) Usage {
	if totalKB == 0 {
		return Usage{Percent: Unsupported}
	}
	if availableKB > totalKB {
		availableKB = totalKB
	}
	used := totalKB - availableKB
	return Usage{
		TotalKB:     totalKB,
		AvailableKB: availableKB,
		UsedKB:      used,
		Percent:     float64(used) / float64(totalKB) * 100,
	}
}

// SwapStat is swap usage in kilobytes. When TotalKnown is false only UsedKB
// carries meaning and Percent is Unknown.
type SwapStat struct {
	TotalKB    uint64
	UsedKB     uint64
	TotalKnown bool
	Percent    float64
}

// SwapUsage builds a SwapStat. A known total of 0 means no swap is configured
// and reads as 0%.
func SwapUsage(totalKB, usedKB uint64, totalKnown bool) SwapStat {
	if !totalKnown {
		return SwapStat{UsedKB: usedKB, Percent: Unknown}
	}
	if totalKB == 0 {
		return SwapStat{TotalKnown: true}
	}
	if usedKB > totalKB {
		usedKB = totalKB
	}
	return SwapStat{
		TotalKB:    totalKB,
		UsedKB:     usedKB,
		TotalKnown: true,
		Percent:    float64(usedKB) / float64(totalKB) * 100,
	}
}

// SwapFromFree derives swap usage from total and free, as /proc/meminfo reports it.
func SwapFromFree(totalKB, freeKB uint64) SwapStat {
	if freeKB > totalKB {
		freeKB = totalKB
	}
	return SwapUsage(totalKB, totalKB-freeKB, true)
}

// DiskStat is filesystem usage in bytes.
type DiskStat struct {
	TotalBytes uint64
	UsedBytes  uint64
	AvailBytes uint64
	Percent    float64
}

// DiskUsage computes used = total - free and reports it against the space
// visible to unprivileged users (used + avail), the way df does.
func DiskUsage(totalBytes, freeBytes, availBytes uint64) DiskStat {
	if freeBytes > totalBytes {
		freeBytes = totalBytes
	}
	used := totalBytes - freeBytes
	st := DiskStat{TotalBytes: totalBytes, UsedBytes: used, AvailBytes: availBytes}
	if denom := used + availBytes; denom > 0 {
		st.Percent = float64(used) / float64(denom) * 100
	}
	return st
}
