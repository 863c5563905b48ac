package report

import (
	"context"

	"github.com/nguyentantai21042004/caption-queue/internal/models"
)

// Reporter writes a moderation digest as a .docx document.
type Reporter interface {
	// Generate writes the submissions matching f to outputPath and returns how many were included.
	Generate(ctx context.Context, f models.Filter, outputPath string) (int, error)
}
