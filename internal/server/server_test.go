package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"seastate/internal/config"
	"seastate/internal/mocks"
	"seastate/internal/reports"
	"seastate/internal/storage"
)

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	local, err := storage.NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create local storage: %v", err)
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = 5 * time.Second
	}
	s := NewServerWithStorage(cfg, storage.DeploymentLocal, local)
	s.now = func() time.Time { return time.Date(2021, 1, 2, 3, 4, 5, 0, time.UTC) }
	t.Cleanup(func() { s.Close() })
	return s
}

func serve(s *Server, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.SetupRoutes().ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, &config.Config{MockupMode: true})

	rr := serve(s, http.MethodGet, "/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("Health response is not JSON: %v", err)
	}
	if body["status"] != "healthy" || body["timestamp"] != "2021-01-02T03:04:05Z" {
		t.Errorf("Unexpected health body %v", body)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, &config.Config{MockupMode: true})

	tests := []struct {
		method string
		target string
	}{
		{http.MethodPost, "/health"},
		{http.MethodGet, "/generate"},
		{http.MethodPost, "/reports"},
		{http.MethodPost, "/api/dataset"},
		{http.MethodDelete, "/data.csv"},
		{http.MethodPost, "/files/x/index.html"},
		{http.MethodPost, "/"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			if rr := serve(s, tt.method, tt.target); rr.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405, got %d", rr.Code)
			}
		})
	}
}

func TestRootWithoutReports(t *testing.T) {
	s := newTestServer(t, &config.Config{MockupMode: true})

	rr := serve(s, http.MethodGet, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "No report has been generated yet.") {
		t.Errorf("Expected the initial page, got %s", rr.Body.String())
	}

	if rr := serve(s, http.MethodGet, "/unknown"); rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown paths, got %d", rr.Code)
	}
}

func TestGenerateAndServeReport(t *testing.T) {
	s := newTestServer(t, &config.Config{MockupMode: true})

	rr := serve(s, http.MethodPost, "/generate")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var result reports.CycleResult
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("Generate response is not JSON: %v", err)
	}
	if result.Status != "success" || result.MergedRecords != 25 {
		t.Errorf("Unexpected cycle result %+v", result)
	}

	// Root now redirects to the new report
	rr = serve(s, http.MethodGet, "/")
	if rr.Code != http.StatusFound {
		t.Fatalf("Expected 302, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != result.ReportURL {
		t.Errorf("Expected redirect to %s, got %s", result.ReportURL, loc)
	}

	rr = serve(s, http.MethodGet, result.ReportURL)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200 for the report page, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/html" {
		t.Errorf("Expected text/html, got %s", ct)
	}
	if !strings.Contains(rr.Body.String(), result.CycleID) {
		t.Error("Report page should carry the cycle id")
	}

	rr = serve(s, http.MethodGet, "/files/"+result.FolderPath+"/"+reports.ManifestFile)
	if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != "application/yaml" {
		t.Errorf("Unexpected manifest response %d %s", rr.Code, rr.Header().Get("Content-Type"))
	}

	rr = serve(s, http.MethodGet, "/reports?limit=5")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	var listing struct {
		Reports []string `json:"reports"`
		URLs    []string `json:"urls"`
		Count   int      `json:"count"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &listing); err != nil {
		t.Fatalf("Listing is not JSON: %v", err)
	}
	if listing.Count != 1 || listing.Reports[0] != result.FolderPath || listing.URLs[0] != result.ReportURL {
		t.Errorf("Unexpected listing %+v", listing)
	}
}

func TestGenerateConflict(t *testing.T) {
	s := newTestServer(t, &config.Config{MockupMode: true})

	s.generateMutex.Lock()
	defer s.generateMutex.Unlock()

	rr := serve(s, http.MethodPost, "/generate")
	if rr.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "already in progress") {
		t.Errorf("Unexpected conflict body %s", rr.Body.String())
	}
}

func TestGenerateSourceUnavailable(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	defer upstream.Close()

	s := newTestServer(t, &config.Config{
		RowSourceURL: upstream.URL + "/data.csv",
		MapSourceURL: upstream.URL + "/data.json",
	})

	if rr := serve(s, http.MethodPost, "/generate"); rr.Code != http.StatusBadGateway {
		t.Errorf("Expected 502, got %d", rr.Code)
	}
	if rr := serve(s, http.MethodGet, "/api/dataset"); rr.Code != http.StatusBadGateway {
		t.Errorf("Expected 502, got %d", rr.Code)
	}
	if rr := serve(s, http.MethodGet, "/"); rr.Code != http.StatusOK {
		t.Errorf("Expected the initial page after a failed cycle, got %d", rr.Code)
	}
}

func TestDatasetEndpoint(t *testing.T) {
	s := newTestServer(t, &config.Config{MockupMode: true})

	rr := serve(s, http.MethodGet, "/api/dataset")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var payload reports.DatasetPayload
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("Dataset response is not JSON: %v", err)
	}
	if len(payload.Records) != 25 {
		t.Errorf("Expected 25 records, got %d", len(payload.Records))
	}
	if len(payload.Views) != 3 || len(payload.Observations) == 0 {
		t.Errorf("Unexpected payload views=%d observations=%d", len(payload.Views), len(payload.Observations))
	}
}

func TestSourceFiles(t *testing.T) {
	t.Run("mockup mode serves the samples", func(t *testing.T) {
		s := newTestServer(t, &config.Config{MockupMode: true})
		want, err := mocks.NewMockService("").RowSource()
		if err != nil {
			t.Fatal(err)
		}

		rr := serve(s, http.MethodGet, "/data.csv")
		if rr.Code != http.StatusOK || rr.Body.String() != string(want) {
			t.Errorf("Unexpected data.csv response %d", rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); ct != "text/csv" {
			t.Errorf("Expected text/csv, got %s", ct)
		}
	})

	t.Run("static dir", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "data.json"), []byte(`{}`), 0644); err != nil {
			t.Fatal(err)
		}
		s := newTestServer(t, &config.Config{StaticDir: dir})

		rr := serve(s, http.MethodGet, "/data.json")
		if rr.Code != http.StatusOK || rr.Body.String() != "{}" {
			t.Errorf("Unexpected data.json response %d %q", rr.Code, rr.Body.String())
		}
		if rr := serve(s, http.MethodGet, "/data.csv"); rr.Code != http.StatusNotFound {
			t.Errorf("Expected 404 for a missing static file, got %d", rr.Code)
		}
	})
}

func TestFileProxyRejectsBadPaths(t *testing.T) {
	s := newTestServer(t, &config.Config{MockupMode: true})

	tests := []struct {
		path string
		want int
	}{
		{"/files/", http.StatusBadRequest},
		{"/files/../secret", http.StatusBadRequest},
		{"/files/2021/01/01/missing/index.html", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.URL.Path = tt.path
			s.HandleFileProxy(rr, req)
			if rr.Code != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, rr.Code)
			}
		})
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", DefaultListLimit},
		{"5", 5},
		{"0", DefaultListLimit},
		{"-3", DefaultListLimit},
		{"abc", DefaultListLimit},
		{"500", MaxListLimit},
	}

	for _, tt := range tests {
		if got := parseLimit(tt.raw); got != tt.want {
			t.Errorf("parseLimit(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}
