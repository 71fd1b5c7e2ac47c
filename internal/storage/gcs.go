package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"seastate/internal/logger"
)

// GCSClient handles Google Cloud Storage operations
type GCSClient struct {
	client *storage.Client
	bucket string
	log    *logger.Logger
}

// NewGCSClient creates a new GCS client for bucketName
func NewGCSClient(ctx context.Context, bucketName string, opts ...option.ClientOption) (*GCSClient, error) {
	if bucketName == "" {
		return nil, errors.New("GCS bucket name is required")
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSClient{
		client: client,
		bucket: bucketName,
		log:    logger.Component("storage"),
	}, nil
}

// Bucket returns the bucket name.
func (g *GCSClient) Bucket() string {
	return g.bucket
}

// Close closes the GCS client
func (g *GCSClient) Close() error {
	return g.client.Close()
}

// StoreFile uploads data as folder/filename
func (g *GCSClient) StoreFile(ctx context.Context, folder, filename string, data []byte) error {
	objectPath, err := cleanObjectPath(path.Join(folder, filename))
	if err != nil {
		return err
	}

	g.log.Debug("Storing file to GCS", logger.Fields{"object": "gs://" + g.bucket + "/" + objectPath, "bytes": len(data)})

	writer := g.client.Bucket(g.bucket).Object(objectPath).NewWriter(ctx)
	writer.ContentType = GetContentType(filename)
	writer.CacheControl = "public, max-age=3600"
	writer.Metadata = map[string]string{
		"generated-at": time.Now().UTC().Format(time.RFC3339),
		"filename":     filename,
	}

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write file to GCS: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize GCS file upload: %w", err)
	}
	return nil
}

// GetFile downloads an object
func (g *GCSClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	objectPath, err := cleanObjectPath(filePath)
	if err != nil {
		return nil, err
	}

	reader, err := g.client.Bucket(g.bucket).Object(objectPath).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create reader for file %s: %w", filePath, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return data, nil
}

// ListReports lists folders holding an index page, newest first
func (g *GCSClient) ListReports(ctx context.Context, limit int) ([]string, error) {
	it := g.client.Bucket(g.bucket).Objects(ctx, &storage.Query{})

	var folders []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		if strings.HasSuffix(attrs.Name, "/"+ReportIndexFile) {
			folders = append(folders, path.Dir(attrs.Name))
		}
	}

	return newestFirst(folders, limit), nil
}
