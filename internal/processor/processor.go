package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/caption-queue/internal/ingest"
	"github.com/nguyentantai21042004/caption-queue/internal/models"
	"github.com/nguyentantai21042004/caption-queue/internal/tone"
)

// Process archives the dropped file and ingests it from its archived location,
// which becomes the submission's stored audio.
func (p *implProcessor) Process(ctx context.Context, audioPath string) error {
	startTime := time.Now()
	originalFilename := filepath.Base(audioPath)

	archivedPath, err := p.moveToArchived(ctx, audioPath)
	if err != nil {
		return fmt.Errorf("archive %s: %w", originalFilename, err)
	}

	sub, err := p.pipeline.Ingest(ctx, ingest.Input{
		Source:    models.SourceAudio,
		AudioPath: archivedPath,
		Filename:  originalFilename,
		Tone:      tone.ParseRequest(p.cfg.DefaultTone),
	})
	if err != nil {
		if ctx.Err() != nil {
			// Interrupted by shutdown: put the file back so the next start picks it up again.
			if mvErr := p.restore(ctx, archivedPath, audioPath); mvErr != nil {
				p.logger.Warn(ctx, "Failed to restore %s: %v", audioPath, mvErr)
			}
			return fmt.Errorf("ingest %s interrupted: %w", originalFilename, err)
		}
		if _, mvErr := p.moveToFailed(ctx, archivedPath); mvErr != nil {
			p.logger.Warn(ctx, "Failed to move %s aside: %v", archivedPath, mvErr)
		}
		return fmt.Errorf("ingest %s: %w", originalFilename, err)
	}

	p.logger.Info(ctx, "Queued %s as submission %s (%s, %s) in %s",
		originalFilename, sub.ID, sub.SoundType, sub.Tone, time.Since(startTime))
	return nil
}
