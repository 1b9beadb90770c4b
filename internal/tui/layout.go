package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane makes s exactly width columns (ANSI-aware) by height lines so
// lipgloss.JoinHorizontal keeps the split stable.
func normalizePane(s string, width, height int) string {
	width = max(width, 0)
	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i, ln := range lines {
		lines[i] = fitLine(ln, width)
	}
	return strings.Join(lines, "\n")
}

func fitLine(ln string, width int) string {
	w := xansi.StringWidth(ln)
	switch {
	case w > width && width <= 1:
		ln = xansi.Truncate(ln, width, "")
	case w > width:
		ln = xansi.Truncate(ln, width, "…")
	}
	if w = xansi.StringWidth(ln); w < width {
		ln += strings.Repeat(" ", width-w)
	}
	return ln
}

func splitWidths(total int) (left, right int) {
	if total < 20 {
		return total, 0
	}
	left = total * 11 / 20
	return left, total - left - 1
}
