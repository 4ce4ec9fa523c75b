package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the presenter's color scheme.
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Motor      lipgloss.Color
	Background lipgloss.Color
	Panel      lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Running    lipgloss.Color
	Reverse    lipgloss.Color
	Stopped    lipgloss.Color
}

var (
	ThemeTeal = Theme{
		Name:       "teal",
		Primary:    lipgloss.Color("#ffffff"),
		Motor:      lipgloss.Color("#4a9c82"),
		Background: lipgloss.Color("#2b2b2b"),
		Panel:      lipgloss.Color("#3c3f41"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#555555"),
		Running:    lipgloss.Color("#4a9c82"),
		Reverse:    lipgloss.Color("#4a6b9c"),
		Stopped:    lipgloss.Color("#c74e4e"),
	}

	ThemeCyberpunk = Theme{
		Name:       "cyberpunk",
		Primary:    lipgloss.Color("#ff00ff"),
		Motor:      lipgloss.Color("#00ffff"),
		Background: lipgloss.Color("#0a0a0a"),
		Panel:      lipgloss.Color("#1a001a"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#666666"),
		Running:    lipgloss.Color("#00ff00"),
		Reverse:    lipgloss.Color("#ffff00"),
		Stopped:    lipgloss.Color("#ff0000"),
	}

	ThemeRetroGreen = Theme{
		Name:       "retro",
		Primary:    lipgloss.Color("#00ff00"),
		Motor:      lipgloss.Color("#88ff88"),
		Background: lipgloss.Color("#001100"),
		Panel:      lipgloss.Color("#002200"),
		Text:       lipgloss.Color("#00ff00"),
		Muted:      lipgloss.Color("#005500"),
		Running:    lipgloss.Color("#88ff88"),
		Reverse:    lipgloss.Color("#ffff00"),
		Stopped:    lipgloss.Color("#ff0000"),
	}

	ThemeMinimal = Theme{
		Name:       "minimal",
		Primary:    lipgloss.Color("#ffffff"),
		Motor:      lipgloss.Color("#0088ff"),
		Background: lipgloss.Color("#000000"),
		Panel:      lipgloss.Color("#111111"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#888888"),
		Running:    lipgloss.Color("#00ff00"),
		Reverse:    lipgloss.Color("#0088ff"),
		Stopped:    lipgloss.Color("#ff0000"),
	}

	Themes = []Theme{ThemeTeal, ThemeCyberpunk, ThemeRetroGreen, ThemeMinimal}
)

// GetTheme returns a theme by name, falling back to teal.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeTeal
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
	return ThemeTeal
}

type styles struct {
	title, label, value, muted, panel, chart, err lipgloss.Style
}

func (t Theme) styles() styles {
	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		label: lipgloss.NewStyle().Foreground(t.Muted).Width(11),
		value: lipgloss.NewStyle().Foreground(t.Text),
		muted: lipgloss.NewStyle().Foreground(t.Muted),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Panel).
			Padding(0, 1),
		chart: lipgloss.NewStyle().Foreground(t.Motor),
		err:   lipgloss.NewStyle().Bold(true).Foreground(t.Stopped),
	}
}

// indicatorColor mirrors the direction lamp: stopped, forward or reverse.
func (t Theme) indicatorColor(running bool, forward bool) lipgloss.Color {
	switch {
	case !running:
		return t.Stopped
	case forward:
		return t.Running
	default:
		return t.Reverse
	}
}
