// Package display renders tables and progress indicators for the cmd/
// layer: Unicode-aware column widths, schema-driven tables for versions,
// plans, and cleanup reports, and a byte-progress indicator for fetches.
package display

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// DisplayWidth returns the terminal display width of val, accounting for
// wide (e.g. CJK) and zero-width runes.
func DisplayWidth(val string) int {
	return runewidth.StringWidth(val)
}

// ToWidth pads val with trailing spaces until it reaches the given
// display width. Values already at or beyond width are returned unchanged.
func ToWidth(val string, width int) string {
	w := DisplayWidth(val)
	if w >= width {
		return val
	}
	return val + strings.Repeat(" ", width-w)
}

// Max returns the largest of the given integers, or 0 if values is empty.
func Max(values ...int) int {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
