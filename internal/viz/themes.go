package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the viewer
type Theme struct {
	Name        string
	Primary     lipgloss.Color
	Text        lipgloss.Color
	Muted       lipgloss.Color
	Tension     lipgloss.Color
	Compression lipgloss.Color
	Zero        lipgloss.Color
	Load        lipgloss.Color
	Flag        lipgloss.Color
	Select      lipgloss.Color
	Success     lipgloss.Color
	Error       lipgloss.Color
}

var (
	ThemeDark = Theme{
		Name:        "dark",
		Primary:     lipgloss.Color("#00ffff"),
		Text:        lipgloss.Color("#ffffff"),
		Muted:       lipgloss.Color("#666688"),
		Tension:     lipgloss.Color("#4488ff"),
		Compression: lipgloss.Color("#ff4444"),
		Zero:        lipgloss.Color("#888888"),
		Load:        lipgloss.Color("#00ff88"),
		Flag:        lipgloss.Color("#ffaa00"),
		Select:      lipgloss.Color("#ff00ff"),
		Success:     lipgloss.Color("#00ff88"),
		Error:       lipgloss.Color("#ff4444"),
	}

	ThemeRetroGreen = Theme{
		Name:        "retro",
		Primary:     lipgloss.Color("#00ff00"), // Green phosphor
		Text:        lipgloss.Color("#00ff00"),
		Muted:       lipgloss.Color("#005500"),
		Tension:     lipgloss.Color("#88ff88"),
		Compression: lipgloss.Color("#ffff00"),
		Zero:        lipgloss.Color("#007700"),
		Load:        lipgloss.Color("#00cc00"),
		Flag:        lipgloss.Color("#ff0000"),
		Select:      lipgloss.Color("#ffffff"),
		Success:     lipgloss.Color("#88ff88"),
		Error:       lipgloss.Color("#ff0000"),
	}

	ThemeMinimal = Theme{
		Name:        "minimal",
		Primary:     lipgloss.Color("#ffffff"),
		Text:        lipgloss.Color("#ffffff"),
		Muted:       lipgloss.Color("#888888"),
		Tension:     lipgloss.Color("#0088ff"),
		Compression: lipgloss.Color("#ff0000"),
		Zero:        lipgloss.Color("#cccccc"),
		Load:        lipgloss.Color("#00aa00"),
		Flag:        lipgloss.Color("#ffaa00"),
		Select:      lipgloss.Color("#ffff00"),
		Success:     lipgloss.Color("#00ff00"),
		Error:       lipgloss.Color("#ff0000"),
	}

	Themes = []Theme{
		ThemeDark,
		ThemeRetroGreen,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name, falling back to the dark theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDark
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func nextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return ThemeDark
}
