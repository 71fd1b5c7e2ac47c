package storage

import (
	"context"
	"errors"
)

// ReportIndexFile is the entry page of every stored report folder.
const ReportIndexFile = "index.html"

// ErrNoReports is returned when no report folder has been stored yet.
var ErrNoReports = errors.New("no reports found")

// StorageClient defines the interface for report storage operations
type StorageClient interface {
	// Close closes the storage client
	Close() error

	// StoreFile stores data as folder/filename
	StoreFile(ctx context.Context, folder, filename string, data []byte) error

	// GetFile retrieves a file by its path relative to the storage root
	GetFile(ctx context.Context, filePath string) ([]byte, error)

	// ListReports lists report folders that contain an index page, newest first.
	// A limit of 0 or less returns every folder.
	ListReports(ctx context.Context, limit int) ([]string, error)
}

// LatestReport returns the newest report folder.
func LatestReport(ctx context.Context, client StorageClient) (string, error) {
	reports, err := client.ListReports(ctx, 1)
	if err != nil {
		return "", err
	}
	if len(reports) == 0 {
		return "", ErrNoReports
	}
	return reports[0], nil
}
