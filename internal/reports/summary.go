package reports

import (
	"fmt"
	"strings"
	"time"

	"seastate/internal/merge"
	"seastate/internal/models"
	"seastate/internal/stats"
)

// ViewSummary holds the per-metric statistics of one view
type ViewSummary struct {
	ViewID  string          `json:"view" yaml:"view"`
	Title   string          `json:"title" yaml:"title"`
	Metrics []stats.Summary `json:"metrics" yaml:"metrics"`
}

// SummarizeViews computes statistics over the plotted observations of every view.
func SummarizeViews(views []merge.View) []ViewSummary {
	out := make([]ViewSummary, 0, len(views))
	for _, v := range views {
		out = append(out, ViewSummary{
			ViewID:  v.ID,
			Title:   v.Title,
			Metrics: stats.Summarize(v.Observations()),
		})
	}
	return out
}

// BuildMarkdownSummary writes the text part of a report.
func BuildMarkdownSummary(ds *merge.Dataset, summaries []ViewSummary) string {
	var b strings.Builder

	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "Merged **%d** timestamps from %d row records and %d map records.",
		len(ds.Records), ds.RowStats.Records, ds.MapStats.Records)
	if first, last, ok := recordSpan(ds.Records); ok {
		fmt.Fprintf(&b, " Data spans %s to %s UTC.", formatTime(first), formatTime(last))
	}
	if m, ok := findMetric(summaries, merge.ViewWaveHeight, merge.MetricMaximum.Name); ok && m.Count > 0 {
		fmt.Fprintf(&b, " Latest maximum wave height is **%.2f** at %s UTC.", m.Latest, formatTime(m.Last))
	}
	b.WriteString("\n\n")

	for _, vs := range summaries {
		fmt.Fprintf(&b, "### %s\n\n", vs.Title)
		if len(vs.Metrics) == 0 {
			b.WriteString("No readings available.\n\n")
			continue
		}
		b.WriteString("| Metric | Points | Min | Mean | Median | P90 | Max | Latest |\n")
		b.WriteString("|---|---:|---:|---:|---:|---:|---:|---:|\n")
		for _, m := range vs.Metrics {
			fmt.Fprintf(&b, "| %s | %d | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f (%s) |\n",
				m.Metric, m.Count, m.Min, m.Mean, m.P50, m.P90, m.Max, m.Latest, formatTime(m.Last))
		}
		b.WriteString("\n")
	}

	b.WriteString("### Source quality\n\n")
	b.WriteString("| Source | Records | Malformed fields | Malformed timestamps | Duplicate keys |\n")
	b.WriteString("|---|---:|---:|---:|---:|\n")
	writeStatsRow(&b, "Rows", ds.RowStats)
	writeStatsRow(&b, "Map", ds.MapStats)

	if ds.RowStats.MalformedTimestamps > 0 {
		fmt.Fprintf(&b, "\n%d row timestamps could not be parsed and are plotted at %s.\n",
			ds.RowStats.MalformedTimestamps, formatTime(models.Epoch))
	}

	return b.String()
}

func findMetric(summaries []ViewSummary, viewID, metric string) (stats.Summary, bool) {
	for _, vs := range summaries {
		if vs.ViewID == viewID {
			return stats.Find(vs.Metrics, metric)
		}
	}
	return stats.Summary{}, false
}

func writeStatsRow(b *strings.Builder, name string, s models.LoadStats) {
	fmt.Fprintf(b, "| %s | %d | %d | %d | %d |\n", name, s.Records, s.MalformedFields, s.MalformedTimestamps, s.DuplicateKeys)
}

func recordSpan(records []models.NormalizedRecord) (time.Time, time.Time, bool) {
	if len(records) == 0 {
		return time.Time{}, time.Time{}, false
	}
	// records are sorted by time
	return records[0].Time, records[len(records)-1].Time, true
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}
