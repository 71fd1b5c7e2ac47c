package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"syscall"
	"time"

	"seastate/internal/config"
	"seastate/internal/export"
	"seastate/internal/fetchers"
	"seastate/internal/logger"
	"seastate/internal/mocks"
	"seastate/internal/reports"
	"seastate/internal/storage"
)

// LocalRunner runs one render cycle into a local reports directory
type LocalRunner struct {
	store     *storage.LocalStorageClient
	generator *reports.Generator
}

// NewLocalRunner creates a runner that writes below outDir
func NewLocalRunner(cfg *config.Config, outDir string) (*LocalRunner, error) {
	store, err := storage.NewLocalStorageClient(outDir)
	if err != nil {
		return nil, err
	}
	fetcher := fetchers.NewDataFetcherWithTimeout(cfg.FetchTimeout)
	orchestrator := reports.NewStorageOrchestrator(store, storage.DeploymentLocal)

	return &LocalRunner{
		store:     store,
		generator: reports.NewGenerator(cfg, fetcher, mocks.NewMockService(""), orchestrator),
	}, nil
}

// Run generates one report and returns the path of its index page
func (lr *LocalRunner) Run(ctx context.Context) (string, *reports.CycleResult, error) {
	result, err := lr.generator.GenerateCompleteReport(ctx)
	if err != nil {
		return "", nil, err
	}
	if err := lr.verify(ctx, result); err != nil {
		return "", nil, err
	}
	index := filepath.Join(lr.store.BaseDir(), filepath.FromSlash(result.FolderPath), storage.ReportIndexFile)
	return index, result, nil
}

// verify reads the stored parquet tables back and checks their row counts
func (lr *LocalRunner) verify(ctx context.Context, result *reports.CycleResult) error {
	data, err := lr.store.GetFile(ctx, path.Join(result.FolderPath, reports.RecordsParquetFile))
	if err != nil {
		return err
	}
	records, err := export.ReadRecordsParquet(data)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", reports.RecordsParquetFile, err)
	}
	if len(records) != result.MergedRecords {
		return fmt.Errorf("%s holds %d rows, expected %d", reports.RecordsParquetFile, len(records), result.MergedRecords)
	}

	data, err = lr.store.GetFile(ctx, path.Join(result.FolderPath, reports.ObservationsParquetFile))
	if err != nil {
		return err
	}
	observations, err := export.ReadObservationsParquet(data)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", reports.ObservationsParquetFile, err)
	}
	if len(observations) != result.Observations {
		return fmt.Errorf("%s holds %d rows, expected %d", reports.ObservationsParquetFile, len(observations), result.Observations)
	}
	return nil
}

func main() {
	rows := flag.String("rows", "", "row source URL or file path (CSV)")
	mapSource := flag.String("map", "", "map source URL or file path (JSON)")
	out := flag.String("out", "reports", "output directory for report folders")
	mockup := flag.Bool("mockup", false, "use the embedded sample sources")
	timeout := flag.Duration("timeout", fetchers.DefaultTimeout, "per-source fetch timeout")
	flag.Parse()

	if !*mockup && (*rows == "" || *mapSource == "") {
		fmt.Fprintln(os.Stderr, "both -rows and -map are required unless -mockup is set")
		flag.Usage()
		os.Exit(2)
	}

	cfg := &config.Config{
		RowSourceURL:    *rows,
		MapSourceURL:    *mapSource,
		FetchTimeout:    *timeout,
		LocalReportsDir: *out,
		MockupMode:      *mockup,
	}

	runner, err := NewLocalRunner(cfg, *out)
	if err != nil {
		logger.Error("Failed to set up local runner", err)
		os.Exit(1)
	}
	defer runner.store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	index, result, err := runner.Run(ctx)
	if err != nil {
		logger.Error("Render cycle failed", err)
		os.Exit(1)
	}

	logger.Info("Report generated", logger.Fields{
		"cycle_id":       result.CycleID,
		"merged_records": result.MergedRecords,
		"files":          len(result.Files),
		"duration":       time.Since(start).String(),
	})
	fmt.Println(index)
}
