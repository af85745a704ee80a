package render

import (
	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/jobapp-metrics/internal/domain"
)

// Unicode block characters from lowest to highest
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

func buildTrends(p *domain.MetricsPayload) []Trend {
	var trends []Trend

	if len(p.ApplicationsPerWeek) > 0 {
		counts := make([]int, len(p.ApplicationsPerWeek))
		for i, w := range p.ApplicationsPerWeek {
			counts[i] = w.Count
		}
		trends = append(trends, Trend{
			Title:     "Applications per Week",
			Sparkline: Sparkline(counts),
			From:      p.ApplicationsPerWeek[0].Week,
			To:        p.ApplicationsPerWeek[len(p.ApplicationsPerWeek)-1].Week,
			Counts:    counts,
		})
	}

	if len(p.ApplicationsPerMonth) > 0 {
		counts := make([]int, len(p.ApplicationsPerMonth))
		for i, m := range p.ApplicationsPerMonth {
			counts[i] = m.Count
		}
		trends = append(trends, Trend{
			Title:     "Applications per Month",
			Sparkline: Sparkline(counts),
			From:      p.ApplicationsPerMonth[0].Month,
			To:        p.ApplicationsPerMonth[len(p.ApplicationsPerMonth)-1].Month,
			Counts:    counts,
		})
	}

	return trends
}

// Sparkline draws counts as block characters scaled between their minimum
// and maximum. A flat series is drawn at mid height.
func Sparkline(counts []int) string {
	if len(counts) == 0 {
		return ""
	}
	data := stats.LoadRawData(counts)
	lo, err := stats.Min(data)
	if err != nil {
		return ""
	}
	hi, err := stats.Max(data)
	if err != nil {
		return ""
	}

	result := make([]rune, len(data))
	if hi == lo {
		for i := range result {
			result[i] = sparkBlocks[len(sparkBlocks)/2]
		}
		return string(result)
	}

	top := len(sparkBlocks) - 1
	for i, v := range data {
		idx := int((v - lo) / (hi - lo) * float64(top))
		if idx > top {
			idx = top
		}
		result[i] = sparkBlocks[idx]
	}
	return string(result)
}
