package source

import "strings"

// ProcessState is a coarse scheduler state.
type ProcessState int

const (
	StateUnknown ProcessState = iota
	StateRunning
	StateSleeping
	StateWaiting
	StateStopped
	StateZombie
)

func (s ProcessState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateSleeping:
		return "sleeping"
	case StateWaiting:
		return "waiting"
	case StateStopped:
		return "stopped"
	case StateZombie:
		return "zombie"
	default:
		return "unknown"
	}
}

// Letter is the single-character code top-style tools show.
func (s ProcessState) Letter() string {
	switch s {
	case StateRunning:
		return "R"
	case StateSleeping:
		return "S"
	case StateWaiting:
		return "D"
	case StateStopped:
		return "T"
	case StateZombie:
		return "Z"
	default:
		return "?"
	}
}

// ParseProcessState accepts both /proc/<pid>/stat state letters and the
// status words gopsutil returns ("running", "sleep", "idle", ...).
func ParseProcessState(s string) ProcessState {
	s = strings.TrimSpace(s)
	if s == "" {
		return StateUnknown
	}
	if len(s) == 1 {
		switch s {
		case "R":
			return StateRunning
		case "S", "I":
			return StateSleeping
		case "D", "W":
			return StateWaiting
		case "T", "t":
			return StateStopped
		case "Z", "X", "x":
			return StateZombie
		}
		return StateUnknown
	}

	switch strings.ToLower(s) {
	case "running", "run", "runnable":
		return StateRunning
	case "sleep", "sleeping", "idle":
		return StateSleeping
	case "wait", "waiting", "disk-sleep", "lock", "blocked":
		return StateWaiting
	case "stop", "stopped", "tracing-stop":
		return StateStopped
	case "zombie", "dead":
		return StateZombie
	}
	return StateUnknown
}

// ProcessCounters is one process as listed by a CounterSource. Err is set
// when the process vanished or couldn't be read between listing and reading
// its counters; the other fields are then unreliable.
type ProcessCounters struct {
	PID      int
	Name     string
	State    ProcessState
	CPUTicks uint64
	RSSKB    uint64
	Err      error
}
