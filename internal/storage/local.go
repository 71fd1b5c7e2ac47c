package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// LocalStorageClient handles local file system storage operations
type LocalStorageClient struct {
	baseDir string
}

// NewLocalStorageClient creates a new local storage client rooted at baseDir
func NewLocalStorageClient(baseDir string) (*LocalStorageClient, error) {
	if baseDir == "" {
		baseDir = "reports"
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory %s: %w", baseDir, err)
	}

	return &LocalStorageClient{
		baseDir: baseDir,
	}, nil
}

// BaseDir returns the root directory of the client.
func (l *LocalStorageClient) BaseDir() string {
	return l.baseDir
}

// Close is a no-op for local storage
func (l *LocalStorageClient) Close() error {
	return nil
}

// StoreFile writes data to baseDir/folder/filename
func (l *LocalStorageClient) StoreFile(ctx context.Context, folder, filename string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rel, err := cleanObjectPath(path.Join(folder, filename))
	if err != nil {
		return err
	}
	filePath := filepath.Join(l.baseDir, filepath.FromSlash(rel))

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}
	return nil
}

// GetFile reads a file relative to baseDir
func (l *LocalStorageClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	rel, err := cleanObjectPath(filePath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(l.baseDir, filepath.FromSlash(rel)))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return data, nil
}

// ListReports walks baseDir for folders holding an index page
func (l *LocalStorageClient) ListReports(ctx context.Context, limit int) ([]string, error) {
	var folders []string

	err := filepath.WalkDir(l.baseDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || d.Name() != ReportIndexFile {
			return nil
		}
		rel, err := filepath.Rel(l.baseDir, filepath.Dir(p))
		if err != nil || rel == "." {
			return nil
		}
		folders = append(folders, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk reports directory: %w", err)
	}

	return newestFirst(folders, limit), nil
}
