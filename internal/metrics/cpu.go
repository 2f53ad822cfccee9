package metrics

// SystemCPUPercent returns the share of non-idle time between two cumulative
// system tick samples, as a percentage.
//
// idle is expected to include iowait. A zero total delta yields 0, and so does
// a total counter that moved backwards (a reset or wrap).
func SystemCPUPercent(prevIdle, prevTotal, currIdle, currTotal uint64) float64 {
	if currTotal <= prevTotal {
		return 0
	}
	deltaTotal := currTotal - prevTotal

	// Idle can only move backwards if the counters were reset between reads.
	var deltaIdle uint64
	if currIdle > prevIdle {
		deltaIdle = currIdle - prevIdle
	}
	if deltaIdle > deltaTotal {
		deltaIdle = deltaTotal
	}

	return float64(deltaTotal-deltaIdle) / float64(deltaTotal) * 100
}

// ProcessCPUPercent returns a process's CPU share between two samples.
// The result is scaled by the logical CPU count, so a process saturating two
// cores on a four-core host reads 200 rather than 50.
func ProcessCPUPercent(deltaProc, deltaSystem uint64, logicalCPUs int) float64 {
	if deltaSystem == 0 {
		return 0
	}
	if logicalCPUs < 1 {
		logicalCPUs = 1
	}
	return float64(deltaProc) / float64(deltaSystem) * 100 * float64(logicalCPUs)
}
