package server

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"seastate/internal/mocks"
)

var (
	// ErrUnknownSource is returned for names other than data.csv and data.json
	ErrUnknownSource = errors.New("unknown source file")
	// ErrSourceMissing is returned when the static directory lacks the file
	ErrSourceMissing = errors.New("source file missing")
)

// FileManager loads the static source files the service publishes as
// /data.csv and /data.json.
type FileManager struct {
	staticDir   string
	mockService *mocks.MockService
	mockupMode  bool
}

// NewFileManager creates a new file manager. In mockup mode missing files
// fall back to the embedded samples.
func NewFileManager(staticDir string, mockService *mocks.MockService, mockupMode bool) *FileManager {
	return &FileManager{
		staticDir:   staticDir,
		mockService: mockService,
		mockupMode:  mockupMode,
	}
}

// Load returns the body of the named source file
func (fm *FileManager) Load(name string) ([]byte, error) {
	if name != mocks.RowSourceFile && name != mocks.MapSourceFile {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, name)
	}

	if fm.mockupMode && fm.mockService != nil {
		if name == mocks.RowSourceFile {
			return fm.mockService.RowSource()
		}
		return fm.mockService.MapSource()
	}

	if fm.staticDir == "" {
		return nil, fmt.Errorf("%w: %s", ErrSourceMissing, name)
	}
	data, err := os.ReadFile(filepath.Join(fm.staticDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceMissing, name)
		}
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}
