package tui

import (
	"strings"

	"smeta/internal/estimate"
	"smeta/internal/model"

	"github.com/charmbracelet/lipgloss"
)

type outlineRow struct {
	ref         model.NodeRef
	depth       int
	label       string
	displayKind model.Kind
	hasChildren bool
	collapsed   bool
}

// flattenTree lists visible nodes in pre-order; children of collapsed nodes are skipped.
func flattenTree(t *estimate.Tree, collapsed map[model.NodeRef]bool, lang estimate.Lang) []outlineRow {
	if t == nil {
		return nil
	}
	out := make([]outlineRow, 0, t.Len())
	hiddenBelow := -1
	t.Walk(func(_ int, n *estimate.Node, depth int) bool {
		if hiddenBelow >= 0 {
			if depth > hiddenBelow {
				return true
			}
			hiddenBelow = -1
		}
		row := outlineRow{
			ref:         n.Ref,
			depth:       depth,
			label:       estimate.Label(n, lang),
			displayKind: n.DisplayKind,
			hasChildren: len(n.Children) > 0,
			collapsed:   collapsed[n.Ref],
		}
		out = append(out, row)
		if row.hasChildren && row.collapsed {
			hiddenBelow = depth
		}
		return true
	})
	return out
}

func renderOutline(rows []outlineRow, selected, width, height int, lang estimate.Lang) string {
	if len(rows) == 0 {
		return styleMuted().Render("(пусто)")
	}
	// Keep the selection in view.
	start := 0
	if height > 0 && selected >= height {
		start = selected - height + 1
	}
	end := len(rows)
	if height > 0 && end > start+height {
		end = start + height
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		r := rows[i]
		glyph := "  "
		if r.hasChildren {
			glyph = "▾ "
			if r.collapsed {
				glyph = "▸ "
			}
		}
		badge := kindBadge(r.displayKind).Render(badgeLetter(r.displayKind, lang))
		text := strings.Repeat("  ", r.depth) + glyph + badge + " " + r.label
		if i == selected {
			text = fitLine(text, width)
			text = lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg).Bold(true).Render(text)
		}
		lines = append(lines, text)
	}
	return strings.Join(lines, "\n")
}

func badgeLetter(k model.Kind, lang estimate.Lang) string {
	w := []rune(estimate.KindWord(k, lang))
	if len(w) == 0 {
		return "?"
	}
	return string(w[0])
}
