package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"seastate/internal/fetchers"
	"seastate/internal/logger"
	"seastate/internal/merge"
	"seastate/internal/reports"
	"seastate/internal/storage"
)

// HandleRoot redirects to the latest report, or shows the initial page when
// nothing has been generated yet.
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	latest, err := storage.LatestReport(r.Context(), s.Storage)
	if err != nil {
		if !errors.Is(err, storage.ErrNoReports) {
			s.log.Error("Failed to find latest report", err)
		}
		s.serveInitialPage(w)
		return
	}

	http.Redirect(w, r, reports.ReportURL(latest), http.StatusFound)
}

// serveInitialPage shows an initial page if no reports are available
func (s *Server) serveInitialPage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := initialPage.Execute(w, initialPageData{
		Title:      reports.ReportTitle,
		MockupMode: s.Config.MockupMode,
		RowSource:  s.Config.RowSourceURL,
		MapSource:  s.Config.MapSourceURL,
	}); err != nil {
		s.log.Error("Failed to render initial page", err)
	}
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": s.timestamp(),
		"checks": map[string]string{
			"storage": string(s.DeploymentMode),
			"config":  "ok",
		},
		"mockupMode": s.Config.MockupMode,
	})
}

// HandleGenerate runs one render cycle. Only one cycle runs at a time.
func (s *Server) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !s.generateMutex.TryLock() {
		s.log.Warn("Report generation already in progress, rejecting new request")
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":   "Report generation already in progress",
			"message": "Another report generation is currently running. Please wait for it to complete before starting a new one.",
			"status":  "conflict",
		})
		return
	}
	defer s.generateMutex.Unlock()

	result, err := s.Generator.GenerateCompleteReport(r.Context())
	if err != nil {
		s.log.Error("Report generation failed", err)
		writeError(w, statusFor(err), "Report generation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleDataset loads and merges both sources and returns them as JSON
// without storing a report.
func (s *Server) HandleDataset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Concurrent requests share one load, bounded by the fetch timeout
	ctx := context.WithoutCancel(r.Context())
	result, err, shared := s.datasetGroup.Do("dataset", func() (interface{}, error) {
		return s.Generator.LoadDataset(ctx)
	})
	if err != nil {
		s.log.Error("Dataset loading failed", err)
		writeError(w, statusFor(err), "Dataset loading failed", err)
		return
	}

	if shared {
		s.log.Debug("Dataset load shared between requests")
	}
	writeJSON(w, http.StatusOK, reports.NewDatasetPayload(result.(*merge.Dataset), s.now()))
}

// HandleSourceFile serves data.csv and data.json from the static directory
func (s *Server) HandleSourceFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/")
	data, err := s.Files.Load(name)
	if err != nil {
		if errors.Is(err, ErrUnknownSource) || errors.Is(err, ErrSourceMissing) {
			http.NotFound(w, r)
			return
		}
		s.log.Error("Failed to load source file", err, logger.Fields{"file": name})
		http.Error(w, "Failed to load source file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", storage.GetContentType(name))
	w.Header().Set("Cache-Control", "no-cache")
	if r.Method == http.MethodHead {
		return
	}
	w.Write(data)
}

// HandleFileProxy serves report files from local storage or GCS
func (s *Server) HandleFileProxy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// e.g. /files/2021/01/02/SeaStateReport-2021-01-02-03-04-05/index.html
	filePath := strings.TrimPrefix(r.URL.Path, "/files/")
	if filePath == "" {
		http.Error(w, "File path required", http.StatusBadRequest)
		return
	}
	if strings.Contains(filePath, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	fileData, err := s.Storage.GetFile(r.Context(), filePath)
	if err != nil {
		s.log.Warn("File not found in storage", logger.Fields{"path": filePath, "error": err.Error()})
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", storage.GetContentType(filePath))
	w.Write(fileData)
}

// HandleListReports lists recent reports
func (s *Server) HandleListReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := parseLimit(r.URL.Query().Get("limit"))
	folders, err := s.Storage.ListReports(r.Context(), limit)
	if err != nil {
		s.log.Error("Failed to list reports", err)
		writeError(w, http.StatusInternalServerError, "Failed to list reports", err)
		return
	}

	urls := make([]string, len(folders))
	for i, folder := range folders {
		urls[i] = reports.ReportURL(folder)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reports":   folders,
		"urls":      urls,
		"count":     len(folders),
		"timestamp": s.timestamp(),
	})
}

// statusFor maps a cycle error to a response status
func statusFor(err error) int {
	if errors.Is(err, fetchers.ErrSourceUnavailable) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
