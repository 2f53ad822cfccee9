// Package ui provides styled terminal output for hostmon's non-interactive
// commands: the palette, status symbols, report headers, key/value blocks
// and bubbles tables.
//
// # Color Scheme
//
//	ColorSuccess  (green)  - Healthy values
//	ColorError    (red)    - Failures and critical values
//	ColorWarning  (amber)  - Warnings
//	ColorInfo     (cyan)   - Informational values
//	ColorMuted    (gray)   - Secondary text
//
// Use DisableColors() when output is not a terminal.
package ui
