package charts

import (
	"fmt"
	"html"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"seastate/internal/logger"
	"seastate/internal/merge"
)

// EChartsScriptURL is the ECharts build the snippets are initialised with.
const EChartsScriptURL = "https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/echarts.min.js"

// gapValue is how ECharts is told that a point is missing.
const gapValue = "-"

// ChartSnippet represents an embeddable go-echarts chart fragment.
// Div holds the single root <div id="..."> of the chart and Script the
// <script> block that initialises it. HTML combines both with a heading.
type ChartSnippet struct {
	ID     string
	Title  string
	Div    string
	Script string
	HTML   string
}

// SnippetID is the DOM id of the interactive chart of a view.
func SnippetID(viewID string) string {
	return "chart-" + viewID
}

// BuildLineChart converts a view into a go-echarts line chart with one series
// per metric. Undefined points are emitted as gaps.
func (cg *ChartGenerator) BuildLineChart(view merge.View) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: SnippetID(view.ID),
			Width:   "100%",
			Height:  "400px",
		}),
		charts.WithTitleOpts(opts.Title{Title: view.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(len(view.Series) > 1), Top: "30"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: "Time (UTC)"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: view.YLabel, Min: 0, Max: yAxisMax(view)}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)

	labels := make([]string, len(view.Records))
	for i, rec := range view.Records {
		labels[i] = rec.Time.UTC().Format(TimeLabelFormat)
	}
	line.SetXAxis(labels)

	for _, s := range view.Series {
		data := make([]opts.LineData, len(s.Points))
		for i, p := range s.Points {
			if p.Defined {
				data[i] = opts.LineData{Value: p.Value}
			} else {
				data[i] = opts.LineData{Value: gapValue}
			}
		}
		line.AddSeries(s.Metric.Name, data,
			charts.WithLineChartOpts(opts.LineChart{
				ShowSymbol:   opts.Bool(true),
				ConnectNulls: opts.Bool(false),
			}),
		)
	}

	if !view.Gapped && len(view.Series) == 1 {
		line.SetSeriesOptions(charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(0.2)}))
	}

	return line
}

// GenerateSnippet builds the embeddable chart of a view.
func (cg *ChartGenerator) GenerateSnippet(view merge.View) (ChartSnippet, error) {
	if len(view.Records) == 0 {
		return ChartSnippet{}, fmt.Errorf("%s: %w", view.ID, ErrNoData)
	}

	line := cg.BuildLineChart(view)
	line.Validate()
	option := line.JSONNotEscaped()

	id := SnippetID(view.ID)
	div := fmt.Sprintf("<div id=\"%s\" style=\"width:100%%;height:400px;\"></div>", id)
	script := fmt.Sprintf(`<script>(function(){var el=document.getElementById('%s');if(!el)return;var c=echarts.init(el);var option=%s;c.setOption(option);window.addEventListener('resize',function(){c.resize();});})();</script>`, id, option)

	completeHTML := fmt.Sprintf(`<div class="chart-container">
	<h3>%s</h3>
	%s
</div>
%s`, html.EscapeString(view.Title), div, script)

	return ChartSnippet{ID: id, Title: view.Title, Div: div, Script: script, HTML: completeHTML}, nil
}

// GenerateSnippets builds a snippet for every view that has records.
func (cg *ChartGenerator) GenerateSnippets(views []merge.View) []ChartSnippet {
	var snippets []ChartSnippet
	for _, view := range views {
		snippet, err := cg.GenerateSnippet(view)
		if err != nil {
			cg.log.Warn("Skipping interactive chart", logger.Fields{"view": view.ID, "error": err.Error()})
			continue
		}
		snippets = append(snippets, snippet)
	}
	return snippets
}

// RenderPage writes a standalone go-echarts page holding every view.
func (cg *ChartGenerator) RenderPage(w io.Writer, title string, views []merge.View) error {
	page := components.NewPage()
	page.PageTitle = title

	added := 0
	for _, view := range views {
		if len(view.Records) == 0 {
			continue
		}
		page.AddCharts(cg.BuildLineChart(view))
		added++
	}
	if added == 0 {
		return ErrNoData
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render chart page: %w", err)
	}
	return nil
}

// yAxisMax is the fixed upper bound of the value axis.
func yAxisMax(view merge.View) float64 {
	if view.YMax <= 0 {
		return 1
	}
	return view.YMax
}
