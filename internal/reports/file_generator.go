package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"seastate/internal/charts"
	"seastate/internal/config"
	"seastate/internal/export"
	"seastate/internal/logger"
	"seastate/internal/merge"
	"seastate/internal/storage"
)

// Report artifact names
const (
	DataFile                = "data.json"
	ObservationsFile        = "observations.json"
	AggregatedFile          = "aggregated.json"
	SummaryFile             = "summary.md"
	RecordsParquetFile      = "records.parquet"
	ObservationsParquetFile = "observations.parquet"
	ChartsPageFile          = "charts.html"
)

// CycleMeta identifies one render cycle
type CycleMeta struct {
	CycleID     string
	GeneratedAt time.Time
	FolderPath  string
}

// GeneratedFiles contains all files generated for a report
type GeneratedFiles struct {
	HTMLContent string
	JSONFiles   map[string][]byte
	AssetFiles  map[string][]byte // charts, parquet tables, pages
	FolderPath  string
	Manifest    *Manifest
}

// Names returns every file name of the report, index page included, sorted.
func (f *GeneratedFiles) Names() []string {
	names := []string{storage.ReportIndexFile}
	for name := range f.JSONFiles {
		names = append(names, name)
	}
	for name := range f.AssetFiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FileGenerator handles generation of all report files
type FileGenerator struct {
	chartGen    *charts.ChartGenerator
	htmlBuilder *HTMLBuilder
	log         *logger.Logger
}

// NewFileGenerator creates a new file generator
func NewFileGenerator(chartGen *charts.ChartGenerator, htmlBuilder *HTMLBuilder) *FileGenerator {
	return &FileGenerator{
		chartGen:    chartGen,
		htmlBuilder: htmlBuilder,
		log:         logger.Component("reports"),
	}
}

// GenerateAllFiles creates every report file from a dataset
func (fg *FileGenerator) GenerateAllFiles(ctx context.Context, ds *merge.Dataset, meta CycleMeta) (*GeneratedFiles, error) {
	files := &GeneratedFiles{
		JSONFiles:  make(map[string][]byte),
		AssetFiles: make(map[string][]byte),
		FolderPath: meta.FolderPath,
	}

	// 1. Data as JSON
	if err := fg.generateJSONFiles(ds, files); err != nil {
		return nil, err
	}

	// 2. Parquet exports
	if err := fg.generateParquetFiles(ds, files); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 3. Static charts
	images, err := fg.chartGen.GenerateCharts(ds.Views)
	if err != nil {
		return nil, fmt.Errorf("failed to generate charts: %w", err)
	}
	var imageRefs []ImageRef
	for _, img := range images {
		files.AssetFiles[img.Filename] = img.Data
		imageRefs = append(imageRefs, ImageRef{Src: img.Filename, Alt: img.Title})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 4. Standalone interactive page
	var page bytes.Buffer
	switch err := fg.chartGen.RenderPage(&page, ReportTitle, ds.Views); {
	case err == nil:
		files.AssetFiles[ChartsPageFile] = page.Bytes()
	case errors.Is(err, charts.ErrNoData):
		fg.log.Warn("No data for the interactive chart page")
	default:
		return nil, err
	}

	// 5. Summary
	summaries := SummarizeViews(ds.Views)
	markdown := BuildMarkdownSummary(ds, summaries)
	files.JSONFiles[SummaryFile] = []byte(markdown)

	// 6. Manifest, written before the index page so it can list it
	manifest := &Manifest{
		CycleID:       meta.CycleID,
		Version:       config.GetVersion(),
		GeneratedAt:   meta.GeneratedAt,
		FolderPath:    meta.FolderPath,
		MergedRecords: len(ds.Records),
		Observations:  len(ds.Observations),
		Views:         summaries,
	}
	if ds.Source != nil {
		manifest.Rows = SourceManifest{URI: ds.Source.RowURI, Stats: ds.RowStats}
		manifest.Map = SourceManifest{URI: ds.Source.MapURI, Stats: ds.MapStats}
	}
	manifest.Files = append(files.Names(), ManifestFile)
	sort.Strings(manifest.Files)
	manifestData, err := manifest.Marshal()
	if err != nil {
		return nil, err
	}
	files.JSONFiles[ManifestFile] = manifestData
	files.Manifest = manifest

	// 7. Index page
	htmlContent, err := fg.htmlBuilder.BuildCompleteHTML(markdown, meta, fg.chartGen.GenerateSnippets(ds.Views), imageRefs, downloads(files))
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}
	files.HTMLContent = htmlContent

	fg.log.Debug("Generated report files", logger.Fields{
		"cycle_id": meta.CycleID,
		"files":    len(manifest.Files),
		"html":     len(htmlContent),
	})
	return files, nil
}

// generateJSONFiles stores merged records, observations and aggregated records
func (fg *FileGenerator) generateJSONFiles(ds *merge.Dataset, files *GeneratedFiles) error {
	outputs := []struct {
		name  string
		value interface{}
	}{
		{DataFile, encodableRecords(ds.Records)},
		{ObservationsFile, ds.Observations},
		{AggregatedFile, encodableAggregated(ds.Aggregated)},
	}

	for _, o := range outputs {
		data, err := json.MarshalIndent(o.value, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", o.name, err)
		}
		files.JSONFiles[o.name] = data
	}
	return nil
}

// generateParquetFiles exports merged records and observations
func (fg *FileGenerator) generateParquetFiles(ds *merge.Dataset, files *GeneratedFiles) error {
	records, err := export.RecordsParquet(ds.Records)
	if err != nil {
		return err
	}
	files.AssetFiles[RecordsParquetFile] = records

	observations, err := export.ObservationsParquet(ds.Observations)
	if err != nil {
		return err
	}
	files.AssetFiles[ObservationsParquetFile] = observations
	return nil
}

// downloads lists the data artifacts linked from the index page
func downloads(files *GeneratedFiles) []Download {
	var out []Download
	for _, name := range files.Names() {
		if name == storage.ReportIndexFile {
			continue
		}
		if storage.GetContentType(name) == "image/png" {
			continue
		}
		out = append(out, Download{Name: name, Href: name})
	}
	return out
}
