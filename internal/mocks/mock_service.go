package mocks

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"seastate/internal/models"
)

// File names of the sample sources
const (
	RowSourceFile = "data.csv"
	MapSourceFile = "data.json"
)

// Pseudo URIs recorded on mock source data
const (
	RowSourceURI = "mock://" + RowSourceFile
	MapSourceURI = "mock://" + MapSourceFile
)

//go:embed data/data.csv data/data.json
var embedded embed.FS

// MockService serves sample sources for MOCKUP_MODE and tests
type MockService struct {
	mocksDir string
}

// NewMockService creates a new mock service. Files found in mocksDir take
// precedence over the embedded samples; an empty mocksDir uses only the samples.
func NewMockService(mocksDir string) *MockService {
	return &MockService{mocksDir: mocksDir}
}

// RowSource returns the sample CSV body.
func (m *MockService) RowSource() ([]byte, error) {
	return m.load(RowSourceFile)
}

// MapSource returns the sample JSON body.
func (m *MockService) MapSource() ([]byte, error) {
	return m.load(MapSourceFile)
}

// LoadMockSources returns both sample bodies as one cycle's source data
func (m *MockService) LoadMockSources() (*models.SourceData, error) {
	rows, err := m.RowSource()
	if err != nil {
		return nil, err
	}
	mapBody, err := m.MapSource()
	if err != nil {
		return nil, err
	}
	return &models.SourceData{
		RowURI:  RowSourceURI,
		MapURI:  MapSourceURI,
		RowBody: rows,
		MapBody: mapBody,
		Fetched: time.Now().UTC(),
	}, nil
}

func (m *MockService) load(name string) ([]byte, error) {
	if m.mocksDir != "" {
		content, err := os.ReadFile(filepath.Join(m.mocksDir, name))
		if err == nil {
			return content, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read mock %s: %w", name, err)
		}
	}

	content, err := embedded.ReadFile("data/" + name)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded mock %s: %w", name, err)
	}
	return content, nil
}
