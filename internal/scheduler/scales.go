package scheduler

import "github.com/rileyhilliard/hostmon/internal/history"

// ScaleDefault is a stream's Y-scale range and starting value.
type ScaleDefault struct {
	Range Range
	Value float64
	// Step is the increment one keypress applies.
	Step float64
}

// DefaultScales returns the built-in Y-scale settings. Network streams are
// in bytes per second.
func DefaultScales() map[history.Stream]ScaleDefault {
	return map[history.Stream]ScaleDefault{
		history.CPU:     {Range: Range{Min: 10, Max: 200}, Value: 100, Step: 10},
		history.Memory:  {Range: Range{Min: 10, Max: 100}, Value: 100, Step: 10},
		history.Swap:    {Range: Range{Min: 10, Max: 100}, Value: 100, Step: 10},
		history.Thermal: {Range: Range{Min: 30, Max: 120}, Value: 100, Step: 5},
		history.Fan:     {Range: Range{Min: 100, Max: 16000}, Value: 8000, Step: 500},
		history.NetRX:   {Range: Range{Min: 1 << 10, Max: 1 << 30}, Value: 10 << 20, Step: 1 << 20},
		history.NetTX:   {Range: Range{Min: 1 << 10, Max: 1 << 30}, Value: 10 << 20, Step: 1 << 20},
	}
}

// ScaleStep returns the per-keypress increment for a stream.
func ScaleStep(name history.Stream) float64 {
	if d, ok := DefaultScales()[name]; ok {
		return d.Step
	}
	return 1
}
