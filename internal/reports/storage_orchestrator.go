package reports

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"seastate/internal/logger"
	"seastate/internal/storage"
)

// MaxParallelUploads bounds concurrent StoreFile calls of one report
const MaxParallelUploads = 4

// StorageOrchestrator handles the business logic of storing generated files
type StorageOrchestrator struct {
	storage        storage.StorageClient
	deploymentMode storage.DeploymentMode
	log            *logger.Logger
}

// NewStorageOrchestrator creates a new storage orchestrator
func NewStorageOrchestrator(client storage.StorageClient, deploymentMode storage.DeploymentMode) *StorageOrchestrator {
	return &StorageOrchestrator{
		storage:        client,
		deploymentMode: deploymentMode,
		log:            logger.Component("storage"),
	}
}

// StoreAllFiles uploads every artifact concurrently and then the index page.
// The index page is not stored when any artifact fails.
func (so *StorageOrchestrator) StoreAllFiles(ctx context.Context, files *GeneratedFiles) error {
	if files.FolderPath == "" {
		return errors.New("report folder path is empty")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxParallelUploads)

	upload := func(name string, data []byte) {
		g.Go(func() error {
			if err := so.storage.StoreFile(gctx, files.FolderPath, name, data); err != nil {
				return fmt.Errorf("failed to store %s: %w", name, err)
			}
			return nil
		})
	}
	for name, data := range files.JSONFiles {
		upload(name, data)
	}
	for name, data := range files.AssetFiles {
		upload(name, data)
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := so.storage.StoreFile(ctx, files.FolderPath, storage.ReportIndexFile, []byte(files.HTMLContent)); err != nil {
		return fmt.Errorf("failed to store HTML report: %w", err)
	}

	so.log.Info("Report stored", logger.Fields{
		"folder": files.FolderPath,
		"mode":   string(so.deploymentMode),
		"files":  len(files.JSONFiles) + len(files.AssetFiles) + 1,
	})
	return nil
}
