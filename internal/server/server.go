package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"seastate/internal/config"
	"seastate/internal/fetchers"
	"seastate/internal/logger"
	"seastate/internal/mocks"
	"seastate/internal/reports"
	"seastate/internal/storage"
)

// Server represents the main application server
type Server struct {
	Config         *config.Config
	Generator      *reports.Generator
	Storage        storage.StorageClient
	MockService    *mocks.MockService
	Files          *FileManager
	DeploymentMode storage.DeploymentMode

	generateMutex sync.Mutex
	datasetGroup  singleflight.Group
	now           func() time.Time
	log           *logger.Logger
}

// NewServer creates a new server instance with the storage client picked by
// the deployment mode.
func NewServer(ctx context.Context, cfg *config.Config, deploymentMode storage.DeploymentMode) (*Server, error) {
	client, err := storage.NewStorageClient(ctx, deploymentMode, cfg)
	if err != nil {
		return nil, err
	}
	return NewServerWithStorage(cfg, deploymentMode, client), nil
}

// NewServerWithStorage creates a server around an existing storage client
func NewServerWithStorage(cfg *config.Config, deploymentMode storage.DeploymentMode, client storage.StorageClient) *Server {
	log := logger.Component("server")

	// STATIC_DIR files override the embedded samples in mockup mode
	mockService := mocks.NewMockService(cfg.StaticDir)
	if cfg.MockupMode {
		log.Info("Mockup mode enabled", logger.Fields{"static_dir": cfg.StaticDir})
	}

	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = fetchers.DefaultTimeout
	}
	fetcher := fetchers.NewDataFetcherWithTimeout(timeout)
	orchestrator := reports.NewStorageOrchestrator(client, deploymentMode)

	return &Server{
		Config:         cfg,
		Generator:      reports.NewGenerator(cfg, fetcher, mockService, orchestrator),
		Storage:        client,
		MockService:    mockService,
		Files:          NewFileManager(cfg.StaticDir, mockService, cfg.MockupMode),
		DeploymentMode: deploymentMode,
		now:            time.Now,
		log:            log,
	}
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/generate", s.HandleGenerate)
	mux.HandleFunc("/reports", s.HandleListReports)
	mux.HandleFunc("/files/", s.HandleFileProxy)
	mux.HandleFunc("/api/dataset", s.HandleDataset)
	mux.HandleFunc("/"+mocks.RowSourceFile, s.HandleSourceFile)
	mux.HandleFunc("/"+mocks.MapSourceFile, s.HandleSourceFile)

	// Handle root path last (catch-all)
	mux.HandleFunc("/", s.HandleRoot)

	return mux
}

// NewHTTPServer wraps the routes in an http.Server listening on cfg.Port
func (s *Server) NewHTTPServer() *http.Server {
	return &http.Server{
		Addr:         ":" + s.Config.Port,
		Handler:      s.SetupRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.Storage != nil {
		if err := s.Storage.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}
	return nil
}
