package charts

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"seastate/internal/logger"
	"seastate/internal/merge"
)

// ErrNoData is returned when a view has no defined point to draw.
var ErrNoData = errors.New("view has no data to plot")

// TimeLabelFormat is used for time axis labels of every chart.
const TimeLabelFormat = "2006-01-02 15:04"

// seriesColors are assigned to the series of a view in order
var seriesColors = []drawing.Color{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
}

// ChartImage is a rendered static chart
type ChartImage struct {
	ViewID   string
	Title    string
	Filename string
	Data     []byte
}

// ChartGenerator handles creation of chart images and embeddable chart snippets
type ChartGenerator struct {
	outputDir string
	log       *logger.Logger
}

// NewChartGenerator creates a new chart generator. Images are also written to
// outputDir unless it is empty.
func NewChartGenerator(outputDir string) *ChartGenerator {
	return &ChartGenerator{
		outputDir: outputDir,
		log:       logger.Component("charts"),
	}
}

// ImageFilename is the file name of the static chart of a view.
func ImageFilename(viewID string) string {
	return viewID + ".png"
}

// GenerateCharts renders a PNG for every view. Views with nothing to plot are skipped.
func (cg *ChartGenerator) GenerateCharts(views []merge.View) ([]ChartImage, error) {
	var images []ChartImage

	for _, view := range views {
		data, err := cg.RenderPNG(view)
		if errors.Is(err, ErrNoData) {
			cg.log.Warn("Skipping chart without data", logger.Fields{"view": view.ID})
			continue
		}
		if err != nil {
			return nil, err
		}

		img := ChartImage{
			ViewID:   view.ID,
			Title:    view.Title,
			Filename: ImageFilename(view.ID),
			Data:     data,
		}

		if cg.outputDir != "" {
			if err := os.MkdirAll(cg.outputDir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create chart directory: %w", err)
			}
			if err := os.WriteFile(filepath.Join(cg.outputDir, img.Filename), data, 0644); err != nil {
				return nil, fmt.Errorf("failed to write %s chart: %w", view.ID, err)
			}
		}

		cg.log.Debug("Rendered chart", logger.Fields{"view": view.ID, "bytes": len(data)})
		images = append(images, img)
	}

	return images, nil
}

// RenderPNG draws a view as a line chart. Undefined points break the line.
func (cg *ChartGenerator) RenderPNG(view merge.View) ([]byte, error) {
	graph, err := cg.buildGraph(view)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render %s chart: %w", view.ID, err)
	}
	return buf.Bytes(), nil
}

func (cg *ChartGenerator) buildGraph(view merge.View) (chart.Chart, error) {
	var lines []chart.Series
	var lo, hi time.Time
	haveExtent := false

	for i, s := range view.Series {
		if first, last, ok := s.TimeExtent(); ok {
			if !haveExtent || first.Before(lo) {
				lo = first
			}
			if !haveExtent || last.After(hi) {
				hi = last
			}
			haveExtent = true
		}

		color := seriesColors[i%len(seriesColors)]
		style := chart.Style{
			StrokeColor: color,
			StrokeWidth: 2,
			DotColor:    color,
			DotWidth:    2,
		}
		if !view.Gapped && len(view.Series) == 1 {
			style.FillColor = color.WithAlpha(64)
		}

		// one line per run of defined points; only the first one is named
		// so the legend lists each metric once
		for j, segment := range s.Segments() {
			ts := chart.TimeSeries{Style: style}
			if j == 0 {
				ts.Name = s.Metric.Name
			}
			for _, p := range segment {
				ts.XValues = append(ts.XValues, p.Time)
				ts.YValues = append(ts.YValues, p.Value)
			}
			lines = append(lines, ts)
		}
	}

	if len(lines) == 0 {
		return chart.Chart{}, fmt.Errorf("%s: %w", view.ID, ErrNoData)
	}

	if !hi.After(lo) {
		lo = lo.Add(-time.Hour)
		hi = hi.Add(time.Hour)
	}

	graph := chart.Chart{
		Title: view.Title,
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: drawing.ColorBlack,
		},
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Height: 400,
		Width:  900,
		XAxis: chart.XAxis{
			Name:           "Time (UTC)",
			ValueFormatter: utcTimeFormatter,
			Range: &chart.ContinuousRange{
				Min: chart.TimeToFloat64(lo),
				Max: chart.TimeToFloat64(hi),
			},
			Style: chart.Style{
				FontSize: 8,
			},
		},
		YAxis: chart.YAxis{
			Name: view.YLabel,
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: yAxisMax(view),
			},
			Style: chart.Style{
				FontSize: 9,
			},
		},
		Series: lines,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph, nil
}

// utcTimeFormatter labels the time axis in UTC regardless of the local zone.
func utcTimeFormatter(v interface{}) string {
	switch typed := v.(type) {
	case time.Time:
		return typed.UTC().Format(TimeLabelFormat)
	case float64:
		return chart.TimeFromFloat64(typed).UTC().Format(TimeLabelFormat)
	}
	return ""
}
