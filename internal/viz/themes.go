package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the colour scheme of the canvas and side panel.
type Theme struct {
	Name     string
	Dynamic  lipgloss.Color
	Static   lipgloss.Color
	Selected lipgloss.Color
	Trail    lipgloss.Color
	Contact  lipgloss.Color
	Cursor   lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:     "cyberpunk",
		Dynamic:  lipgloss.Color("#00ffff"),
		Static:   lipgloss.Color("#ff00ff"),
		Selected: lipgloss.Color("#ffff00"),
		Trail:    lipgloss.Color("#444466"),
		Contact:  lipgloss.Color("#ff4444"),
		Cursor:   lipgloss.Color("#ffffff"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#666666"),
	}

	ThemeRetroGreen = Theme{
		Name:     "retro",
		Dynamic:  lipgloss.Color("#00ff00"),
		Static:   lipgloss.Color("#00cc00"),
		Selected: lipgloss.Color("#88ff88"),
		Trail:    lipgloss.Color("#005500"),
		Contact:  lipgloss.Color("#ffff00"),
		Cursor:   lipgloss.Color("#88ff88"),
		Text:     lipgloss.Color("#00ff00"),
		Muted:    lipgloss.Color("#005500"),
	}

	ThemeMinimal = Theme{
		Name:     "minimal",
		Dynamic:  lipgloss.Color("#ffffff"),
		Static:   lipgloss.Color("#cccccc"),
		Selected: lipgloss.Color("#0088ff"),
		Trail:    lipgloss.Color("#555555"),
		Contact:  lipgloss.Color("#ffaa00"),
		Cursor:   lipgloss.Color("#0088ff"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#888888"),
	}

	ThemeOcean = Theme{
		Name:     "ocean",
		Dynamic:  lipgloss.Color("#00a8cc"),
		Static:   lipgloss.Color("#0077be"),
		Selected: lipgloss.Color("#ffd700"),
		Trail:    lipgloss.Color("#4488aa"),
		Contact:  lipgloss.Color("#ff4444"),
		Cursor:   lipgloss.Color("#e0f0ff"),
		Text:     lipgloss.Color("#e0f0ff"),
		Muted:    lipgloss.Color("#4488aa"),
	}

	ThemeSunset = Theme{
		Name:     "sunset",
		Dynamic:  lipgloss.Color("#feca57"),
		Static:   lipgloss.Color("#ff6b6b"),
		Selected: lipgloss.Color("#ff9ff3"),
		Trail:    lipgloss.Color("#8b6b8c"),
		Contact:  lipgloss.Color("#ff4757"),
		Cursor:   lipgloss.Color("#fff5f5"),
		Text:     lipgloss.Color("#fff5f5"),
		Muted:    lipgloss.Color("#8b6b8c"),
	}

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
		ThemeSunset,
	}
)

// Color returns the foreground used for cells of the given layer.
func (t Theme) Color(l Layer) lipgloss.Color {
	switch l {
	case LayerTrail:
		return t.Trail
	case LayerStatic:
		return t.Static
	case LayerDynamic:
		return t.Dynamic
	case LayerSelected:
		return t.Selected
	case LayerContact:
		return t.Contact
	case LayerCursor:
		return t.Cursor
	default:
		return t.Muted
	}
}

// GetTheme returns a theme by name, falling back to cyberpunk.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

// NextTheme returns the theme after t in Themes.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
