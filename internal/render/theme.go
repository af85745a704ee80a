package render

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Indigo    = lipgloss.Color("#6366F1")
	White     = lipgloss.Color("#FFFFFF")
	LightGray = lipgloss.Color("#9CA3AF")
	DimGray   = lipgloss.Color("#6B7280")
	DarkGray  = lipgloss.Color("#374151")
	Red       = lipgloss.Color("#EF4444")
	Green     = lipgloss.Color("#22C55E")
)

// Styles contains the styles used by the dashboard layout.
type Styles struct {
	Title      lipgloss.Style
	Section    lipgloss.Style
	Card       lipgloss.Style
	CardTitle  lipgloss.Style
	CardValue  lipgloss.Style
	Muted      lipgloss.Style
	Error      lipgloss.Style
	StatusName lipgloss.Style
	StatusNum  lipgloss.Style
	Spark      lipgloss.Style
	Help       lipgloss.Style
}

// DefaultStyles returns the dashboard styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(White).
			MarginBottom(1),

		Section: lipgloss.NewStyle().
			Bold(true).
			Foreground(Indigo),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DarkGray).
			Padding(0, 1),

		CardTitle: lipgloss.NewStyle().
			Foreground(LightGray),

		CardValue: lipgloss.NewStyle().
			Bold(true).
			Foreground(White),

		Muted: lipgloss.NewStyle().
			Foreground(DimGray),

		Error: lipgloss.NewStyle().
			Foreground(Red).
			Bold(true),

		StatusName: lipgloss.NewStyle().
			Foreground(LightGray),

		StatusNum: lipgloss.NewStyle().
			Bold(true).
			Foreground(White).
			Align(lipgloss.Right),

		Spark: lipgloss.NewStyle().
			Foreground(Green),

		Help: lipgloss.NewStyle().
			Foreground(DimGray),
	}
}
