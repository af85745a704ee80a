// Package render turns a metrics payload into the dashboard layout.
//
// Build is a pure function from payload to View. A View can then be drawn
// for the terminal with Render, or marshalled as JSON or YAML.
package render

import (
	"strconv"

	"github.com/naka-gawa/jobapp-metrics/internal/domain"
)

// NotAvailable is shown for the average time to response when it is unknown.
const NotAvailable = "N/A"

// Card is one metric with a title, a formatted value and an optional subtitle.
type Card struct {
	Title    string `json:"title" yaml:"title"`
	Value    string `json:"value" yaml:"value"`
	Subtitle string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
}

// StatusEntry is one line of the status breakdown.
type StatusEntry struct {
	Status string `json:"status" yaml:"status"`
	Count  int    `json:"count" yaml:"count"`
}

// Trend is a period series drawn as a sparkline.
type Trend struct {
	Title     string `json:"title" yaml:"title"`
	Sparkline string `json:"sparkline" yaml:"sparkline"`
	From      string `json:"from" yaml:"from"`
	To        string `json:"to" yaml:"to"`
	Counts    []int  `json:"counts" yaml:"counts"`
}

// View is the complete dashboard for one payload.
type View struct {
	Headline        []Card        `json:"headline" yaml:"headline"`
	TimeWindows     []Card        `json:"time_windows" yaml:"time_windows"`
	StatusBreakdown []StatusEntry `json:"status_breakdown" yaml:"status_breakdown"`
	Trends          []Trend       `json:"trends,omitempty" yaml:"trends,omitempty"`
}

// Options selects optional sections.
type Options struct {
	// Trends adds sparklines for the weekly and monthly series.
	Trends bool
}

// Build lays out the payload. It only formats values; it never derives new ones.
func Build(p *domain.MetricsPayload, opts Options) View {
	v := View{
		Headline: []Card{
			{Title: "Total Applications", Value: strconv.Itoa(p.TotalApplications), Subtitle: "All time"},
			{Title: "Interview Rate", Value: FormatPercent(p.InterviewRate), Subtitle: "Applications with an interview"},
			{Title: "Offer Rate", Value: FormatPercent(p.OfferRate), Subtitle: "Applications with an offer"},
			{Title: "Active Applications", Value: strconv.Itoa(p.ActiveApplications), Subtitle: "Still in progress"},
		},
		TimeWindows: []Card{
			{Title: "Last 7 Days", Value: strconv.Itoa(p.ApplicationsLast7Days), Subtitle: "Applications"},
			{Title: "Last 30 Days", Value: strconv.Itoa(p.ApplicationsLast30Days), Subtitle: "Applications"},
			{Title: "Avg. Time to Response", Value: FormatDays(p.AvgTimeToResponse), Subtitle: "From application"},
		},
		StatusBreakdown: []StatusEntry{},
	}

	for _, sc := range p.ApplicationsByStatus.SortedByCount() {
		v.StatusBreakdown = append(v.StatusBreakdown, StatusEntry{Status: sc.Status, Count: sc.Count})
	}

	if opts.Trends {
		v.Trends = buildTrends(p)
	}
	return v
}

// FormatPercent renders a rate as "<value>%".
func FormatPercent(v float64) string {
	return formatNumber(v) + "%"
}

// FormatDays renders a duration in days as "<value> days", or N/A when the
// value is zero or negative.
func FormatDays(v float64) string {
	if v <= 0 {
		return NotAvailable
	}
	return formatNumber(v) + " days"
}

// formatNumber uses the shortest representation: 3.5, 50, 12.25.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
