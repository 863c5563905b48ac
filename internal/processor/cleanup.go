package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// moveToArchived moves a dropped file into the archive under a unique name.
func (p *implProcessor) moveToArchived(ctx context.Context, audioPath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(audioPath))
	destPath := filepath.Join(p.cfg.ArchiveDir, uuid.NewString()+ext)

	p.logger.Debug(ctx, "Moving to archive: %s -> %s", audioPath, destPath)

	if err := os.MkdirAll(p.cfg.ArchiveDir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}
	if err := os.Rename(audioPath, destPath); err != nil {
		return "", fmt.Errorf("move to archive: %w", err)
	}
	return destPath, nil
}

// moveToFailed parks a file whose ingestion failed for manual inspection.
func (p *implProcessor) moveToFailed(ctx context.Context, archivedPath string) (string, error) {
	failedDir := filepath.Join(p.cfg.ArchiveDir, "failed")
	destPath := filepath.Join(failedDir, filepath.Base(archivedPath))

	p.logger.Info(ctx, "Moving failed file aside: %s", destPath)

	if err := os.MkdirAll(failedDir, 0o755); err != nil {
		return "", fmt.Errorf("create failed dir: %w", err)
	}
	if err := os.Rename(archivedPath, destPath); err != nil {
		return "", fmt.Errorf("move to failed: %w", err)
	}
	return destPath, nil
}

// restore moves an archived file back to where it was dropped.
func (p *implProcessor) restore(ctx context.Context, archivedPath, audioPath string) error {
	p.logger.Info(ctx, "Returning %s to the input folder", filepath.Base(audioPath))

	if err := os.Rename(archivedPath, audioPath); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	return nil
}
