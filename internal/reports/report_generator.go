package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"seastate/internal/charts"
	"seastate/internal/config"
	"seastate/internal/fetchers"
	"seastate/internal/logger"
	"seastate/internal/merge"
	"seastate/internal/mocks"
	"seastate/internal/models"
	"seastate/internal/storage"
)

// StorageInterface defines the interface for storage operations
type StorageInterface interface {
	StoreAllFiles(ctx context.Context, files *GeneratedFiles) error
}

// CycleResult describes a completed render cycle
type CycleResult struct {
	Status        string    `json:"status"`
	Message       string    `json:"message"`
	CycleID       string    `json:"cycleId"`
	ReportURL     string    `json:"reportURL"`
	Timestamp     time.Time `json:"timestamp"`
	FolderPath    string    `json:"folderPath"`
	MergedRecords int       `json:"mergedRecords"`
	Observations  int       `json:"observations"`
	Files         []string  `json:"files"`
}

// ReportURL is the path a stored report is served under
func ReportURL(folderPath string) string {
	return "/files/" + folderPath + "/" + storage.ReportIndexFile
}

// Generator runs render cycles: load both sources, build the views, write
// every artifact and store the report folder.
type Generator struct {
	cfg           *config.Config
	merger        *merge.TimeSeriesMerger
	mockService   *mocks.MockService
	fileGenerator *FileGenerator
	storage       StorageInterface
	now           func() time.Time
	log           *logger.Logger
}

// NewGenerator creates a report generator. mockService may be nil unless
// cfg.MockupMode is set.
func NewGenerator(cfg *config.Config, fetcher *fetchers.DataFetcher, mockService *mocks.MockService, store StorageInterface) *Generator {
	return &Generator{
		cfg:           cfg,
		merger:        merge.NewTimeSeriesMerger(fetcher),
		mockService:   mockService,
		fileGenerator: NewFileGenerator(charts.NewChartGenerator(""), NewHTMLBuilder()),
		storage:       store,
		now:           time.Now,
		log:           logger.Component("reports"),
	}
}

// GenerateCompleteReport handles the complete report generation pipeline.
// Nothing is stored when either source is unavailable.
func (g *Generator) GenerateCompleteReport(ctx context.Context) (*CycleResult, error) {
	meta := CycleMeta{
		CycleID:     uuid.NewString(),
		GeneratedAt: g.now().UTC(),
	}
	meta.FolderPath = storage.GenerateReportFolderPath(meta.GeneratedAt)
	log := g.log.With(logger.Fields{"cycle_id": meta.CycleID})

	// Step 1: Load and merge both sources
	ds, err := g.loadDataset(ctx, log)
	if err != nil {
		log.Error("Render cycle aborted", err)
		return nil, err
	}

	// Step 2: Generate files
	files, err := g.fileGenerator.GenerateAllFiles(ctx, ds, meta)
	if err != nil {
		return nil, fmt.Errorf("failed to generate files: %w", err)
	}

	// Step 3: Store files
	if err := g.storage.StoreAllFiles(ctx, files); err != nil {
		return nil, fmt.Errorf("failed to store files: %w", err)
	}

	log.Info("Render cycle completed", logger.Fields{
		"folder":         meta.FolderPath,
		"merged_records": len(ds.Records),
		"observations":   len(ds.Observations),
	})

	return &CycleResult{
		Status:        "success",
		Message:       "Report generated successfully",
		CycleID:       meta.CycleID,
		ReportURL:     ReportURL(meta.FolderPath),
		Timestamp:     meta.GeneratedAt,
		FolderPath:    meta.FolderPath,
		MergedRecords: len(ds.Records),
		Observations:  len(ds.Observations),
		Files:         files.Manifest.Files,
	}, nil
}

// LoadDataset loads both sources and builds the dataset without storing anything.
func (g *Generator) LoadDataset(ctx context.Context) (*merge.Dataset, error) {
	return g.loadDataset(ctx, g.log)
}

func (g *Generator) loadDataset(ctx context.Context, log *logger.Logger) (*merge.Dataset, error) {
	var src *models.SourceData
	var err error

	if g.cfg.MockupMode && g.mockService != nil {
		log.Info("Using mock sources")
		src, err = g.mockService.LoadMockSources()
		if err != nil {
			return nil, fmt.Errorf("mock source loading failed: %w", err)
		}
		return g.merger.BuildDataset(src)
	}

	log.Info("Fetching sources", logger.Fields{
		"row_source": g.cfg.RowSourceURL,
		"map_source": g.cfg.MapSourceURL,
	})
	return g.merger.Load(ctx, g.cfg.RowSourceURL, g.cfg.MapSourceURL)
}
