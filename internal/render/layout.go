package render

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

const (
	// DefaultWidth is used until the terminal reports its size.
	DefaultWidth = 80
	minCardWidth = 32
	cardsPerRow  = 2
)

// Heading is the title line of the dashboard.
const Heading = "Job Application Metrics"

// Render draws the view as a card grid that fits in width columns.
func (v View) Render(width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	s := DefaultStyles()

	sections := []string{
		s.Title.Render(Heading),
		renderCardGrid(s, v.Headline, width),
		"",
		s.Section.Render("Recent Activity"),
		renderCardGrid(s, v.TimeWindows, width),
		"",
		s.Section.Render("Status Breakdown"),
		renderStatusBreakdown(s, v.StatusBreakdown, width),
	}

	if len(v.Trends) > 0 {
		sections = append(sections, "", s.Section.Render("Trends"))
		for _, t := range v.Trends {
			sections = append(sections, renderTrend(s, t))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Loading is the placeholder shown while the fetch is outstanding. The
// spinner frame is passed in by the caller.
func Loading(spinner string) string {
	s := DefaultStyles()
	return lipgloss.JoinHorizontal(lipgloss.Top, spinner, s.Muted.Render(" Loading metrics..."))
}

// Failed is the placeholder shown instead of the dashboard when loading failed.
func Failed(message string) string {
	return DefaultStyles().Error.Render(message)
}

func renderCard(s Styles, c Card, width int) string {
	lines := []string{
		s.CardTitle.Render(c.Title),
		s.CardValue.Render(c.Value),
	}
	if c.Subtitle != "" {
		lines = append(lines, s.Muted.Render(c.Subtitle))
	}
	return s.Card.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderCardGrid renders cards in rows of two, or one per row when the
// terminal is too narrow for two.
func renderCardGrid(s Styles, cards []Card, totalWidth int) string {
	if len(cards) == 0 {
		return ""
	}

	perRow := cardsPerRow
	cardWidth := (totalWidth - 4) / perRow
	if cardWidth < minCardWidth {
		perRow = 1
		cardWidth = totalWidth - 2
	}
	if cardWidth < minCardWidth {
		cardWidth = minCardWidth
	}

	var rows []string
	for i := 0; i < len(cards); i += perRow {
		var rowCards []string
		for j := i; j < i+perRow && j < len(cards); j++ {
			rowCards = append(rowCards, renderCard(s, cards[j], cardWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rowCards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderStatusBreakdown(s Styles, entries []StatusEntry, width int) string {
	if len(entries) == 0 {
		return s.Muted.Render("No applications yet")
	}

	nameWidth := 0
	numWidth := 0
	for _, e := range entries {
		nameWidth = max(nameWidth, lipgloss.Width(e.Status))
		numWidth = max(numWidth, len(strconv.Itoa(e.Count)))
	}
	nameWidth = min(nameWidth, max(width-numWidth-4, 8))

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		name := s.StatusName.Width(nameWidth).Render(e.Status)
		num := s.StatusNum.Width(numWidth).Render(strconv.Itoa(e.Count))
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, "  ", name, "  ", num))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderTrend(s Styles, t Trend) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		s.CardTitle.Render(t.Title),
		"  "+s.Spark.Render(t.Sparkline),
		"  "+s.Muted.Render(t.From+" … "+t.To),
	)
}
