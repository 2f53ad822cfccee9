// Package monitor implements the hostmon terminal dashboard.
//
// The dashboard shows the local machine's CPU, fan, temperature, memory,
// swap, disk, network and process activity on six tabs, with braille graphs
// (one-row sparklines on narrow terminals) scaled by per-graph Y-scales.
//
// # Architecture
//
// The package uses the Bubble Tea framework (Model-Update-View):
//
//   - Model: the latest published session.State plus UI state (tab, cursor, filter)
//   - Update: processes keystrokes, ticks and poll results
//   - View: renders the current state to a string for display
//
// The model never samples anything itself. Every tick runs session.Poll in
// a command and the resulting State arrives as a stateMsg. Key handlers call
// the session's mutators (pause, FPS, sort, filter, selection, Y-scale,
// history) and adopt the State each returns.
//
// # Keyboard Shortcuts
//
//	tab / shift+tab   - Switch tab
//	p                 - Pause or resume sampling
//	+ / -             - Raise or lower the refresh rate
//	] / [             - Raise or lower the Y-scale of this tab's graphs
//	c                 - Clear every graph
//	R                 - Search for fan and thermal sensors again
//	/                 - Filter processes by name or pid
//	esc               - Clear the filter
//	up/down, pgup/pgdn- Move the process cursor
//	space / enter     - Select or deselect the process under the cursor
//	x                 - Clear the selection
//	s / r             - Cycle sort column / reverse direction
//	?                 - Toggle help overlay
//	q, Ctrl+C         - Quit
package monitor
