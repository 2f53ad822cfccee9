package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille character rendering for high-resolution terminal graphs.
//
// Braille patterns use a 2x4 dot matrix per character:
//
//	  Col 0  Col 1
//	Row 0:   ⠁      ⠈     (dots 1, 4)
//	Row 1:   ⠂      ⠐     (dots 2, 5)
//	Row 2:   ⠄      ⠠     (dots 3, 6)
//	Row 3:   ⡀      ⢀     (dots 7, 8)
//
// Unicode braille starts at U+2800 (empty) and uses bit patterns:
// bit 0 = dot 1, bit 1 = dot 2, bit 2 = dot 3, bit 3 = dot 4,
// bit 4 = dot 5, bit 5 = dot 6, bit 6 = dot 7, bit 7 = dot 8

const brailleBase = '\u2800'

// sparklineBlocks are block characters for 8-level vertical resolution (lowest to highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// normalizeValue converts a value to 0-1 given the scale maximum. Values
// above the scale are clipped to the top.
func normalizeValue(val, yMax float64) float64 {
	if yMax <= 0 || val <= 0 {
		return 0
	}
	if val >= yMax {
		return 1
	}
	return val / yMax
}

// clampInt clamps an integer to a range [0, maxVal].
func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// brailleDots maps row/column to the bit offset for braille pattern
// [row][col] where row is 0-3 (top to bottom) and col is 0-1 (left to right)
var brailleDots = [4][2]uint8{
	{0, 3}, // Row 0: dots 1 and 4
	{1, 4}, // Row 1: dots 2 and 5
	{2, 5}, // Row 2: dots 3 and 6
	{6, 7}, // Row 3: dots 7 and 8
}

// ColorFunc picks a color for a column from its highest value.
type ColorFunc func(v float64) lipgloss.Color

// FixedColor returns a ColorFunc that ignores the value.
func FixedColor(c lipgloss.Color) ColorFunc {
	return func(float64) lipgloss.Color { return c }
}

// RenderBrailleGraph renders a line graph of data on a fixed [0, yMax]
// scale. Each character holds 2 samples horizontally and 4 levels
// vertically. Newest samples are on the right; a short history leaves the
// left side blank.
//
// Parameters:
//   - data: values to plot, oldest first
//   - width: number of braille characters (each represents 2 data points)
//   - height: number of rows (each row represents 4 vertical levels)
//   - yMax: value drawn at the top row
//   - colorOf: color for each column, from the column's highest value
func RenderBrailleGraph(data []float64, width, height int, yMax float64, colorOf ColorFunc) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if colorOf == nil {
		colorOf = FixedColor(ColorGraph)
	}

	totalDots := height * 4
	targetPoints := width * 2

	// Only downsample if we have more data than display width.
	resampled := data
	if len(data) > targetPoints {
		resampled = resampleData(data, targetPoints)
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = brailleBase
		}
	}

	colMaxValues := make([]float64, width)

	// Right-align data when we have less than full width
	horizOffset := targetPoints - len(resampled)
	if horizOffset < 0 {
		horizOffset = 0
	}

	for i, val := range resampled {
		dotHeight := clampInt(int(normalizeValue(val, yMax)*float64(totalDots)+0.5), totalDots)

		charCol := (i + horizOffset) / 2
		if charCol >= width {
			continue
		}

		if val > colMaxValues[charCol] {
			colMaxValues[charCol] = val
		}

		subCol := (i + horizOffset) % 2

		// Fill dots from bottom up
		for dot := 0; dot < dotHeight; dot++ {
			row := height - 1 - (dot / 4)
			if row < 0 {
				continue
			}
			subRow := 3 - (dot % 4)
			bitOffset := brailleDots[subRow][subCol]
			grid[row][charCol] |= rune(1 << bitOffset)
		}
	}

	lines := make([]string, 0, height)
	for _, row := range grid {
		var lineBuilder strings.Builder
		for colIdx, char := range row {
			style := lipgloss.NewStyle().Foreground(colorOf(colMaxValues[colIdx]))
			lineBuilder.WriteString(style.Render(string(char)))
		}
		lines = append(lines, lineBuilder.String())
	}

	return strings.Join(lines, "\n")
}

// RenderMiniSparkline renders a single-row sparkline using block characters
// on a fixed [0, yMax] scale.
func RenderMiniSparkline(data []float64, width int, yMax float64) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	resampled := data
	if len(data) > width {
		resampled = resampleData(data, width)
	}

	var result strings.Builder
	for _, val := range resampled {
		idx := clampInt(int(normalizeValue(val, yMax)*float64(len(sparklineBlocks)-1)), len(sparklineBlocks)-1)
		result.WriteRune(sparklineBlocks[idx])
	}

	return result.String()
}

// resampleData resamples data to the target size.
// When downsampling (compressing), uses max-based sampling to preserve peaks/spikes.
// When upsampling (expanding), uses linear interpolation.
func resampleData(data []float64, targetSize int) []float64 {
	if len(data) == 0 || targetSize <= 0 {
		return nil
	}

	if len(data) == targetSize {
		return data
	}

	result := make([]float64, targetSize)

	if len(data) == 1 {
		for i := range result {
			result[i] = data[0]
		}
		return result
	}

	// Downsampling: use max within each bucket to preserve peaks
	if len(data) > targetSize {
		bucketSize := float64(len(data)) / float64(targetSize)
		for i := 0; i < targetSize; i++ {
			start := int(float64(i) * bucketSize)
			end := int(float64(i+1) * bucketSize)
			if end > len(data) {
				end = len(data)
			}
			if start >= end {
				start = end - 1
			}
			if start < 0 {
				start = 0
			}

			maxVal := data[start]
			for j := start + 1; j < end; j++ {
				if data[j] > maxVal {
					maxVal = data[j]
				}
			}
			result[i] = maxVal
		}
		return result
	}

	// Upsampling: linear interpolation
	scale := float64(len(data)-1) / float64(targetSize-1)
	for i := 0; i < targetSize; i++ {
		pos := float64(i) * scale
		idx := int(pos)
		frac := pos - float64(idx)

		if idx >= len(data)-1 {
			result[i] = data[len(data)-1]
		} else {
			result[i] = data[idx]*(1-frac) + data[idx+1]*frac
		}
	}

	return result
}
