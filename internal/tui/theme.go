package tui

import (
	"os"
	"strconv"
	"strings"

	"smeta/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted      = ac("240", "243")
	colorSurfaceFg  = ac("235", "252")
	colorAccent     = ac("27", "62")
	colorAccentFg   = ac("255", "235")
	colorSelectedBg = ac("#e9e9e9", "#262626")
	colorSelectedFg = ac("235", "255")
	colorErrorBg    = ac("196", "160")
	colorErrorFg    = ac("255", "255")

	// Box fills per display type; containers without a type use a neutral gray.
	kindFill = map[model.Kind]lipgloss.Color{
		model.KindChapter:  lipgloss.Color("#C8DCFF"),
		model.KindWork:     lipgloss.Color("#DCFFC8"),
		model.KindResource: lipgloss.Color("#FFF0C8"),
	}
	containerFill = lipgloss.Color("#F0F0F0")
	badgeFg       = lipgloss.Color("#1A1A1A")
)

func styleMuted() lipgloss.Style {
	st := lipgloss.NewStyle().Foreground(colorMuted)
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

func kindBadge(k model.Kind) lipgloss.Style {
	fill, ok := kindFill[k]
	if !ok {
		fill = containerFill
	}
	return lipgloss.NewStyle().Background(fill).Foreground(badgeFg).Padding(0, 1)
}

// applyColorProfilePreference honors NO_COLOR and otherwise trusts TERM/COLORTERM
// over termenv's probe, which under-reports on some terminals.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	term := strings.ToLower(os.Getenv("TERM"))
	colorterm := strings.ToLower(os.Getenv("COLORTERM"))
	switch {
	case strings.Contains(colorterm, "truecolor"), strings.Contains(colorterm, "24bit"):
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	case strings.Contains(term, "256color"):
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference: SMETA_TUI_THEME=light|dark, then the COLORFGBG heuristic.
func applyThemePreference() {
	switch themeOverride() {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}
	if bg, ok := colorFGBGBackground(); ok {
		lipgloss.SetHasDarkBackground(bg < 7)
	}
}

func themeOverride() string {
	switch v := strings.ToLower(strings.TrimSpace(os.Getenv("SMETA_TUI_THEME"))); v {
	case "light", "dark":
		return v
	}
	return ""
}

// colorFGBGBackground parses COLORFGBG ("fg;bg", last segment is the background).
func colorFGBGBackground() (int, bool) {
	v := strings.TrimSpace(os.Getenv("COLORFGBG"))
	if v == "" {
		return 0, false
	}
	parts := strings.Split(v, ";")
	bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil || bg < 0 {
		return 0, false
	}
	return bg, true
}
