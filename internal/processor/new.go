package processor

import (
	"github.com/nguyentantai21042004/caption-queue/internal/ingest"
	"github.com/nguyentantai21042004/caption-queue/internal/logger"
)

// Config holds the drop-folder settings.
type Config struct {
	// ArchiveDir receives every file picked up. Files whose ingestion failed
	// go to its "failed" subdirectory.
	ArchiveDir  string
	DefaultTone string
}

type implProcessor struct {
	cfg      Config
	pipeline ingest.Pipeline
	logger   logger.Logger
}

// New creates a new Processor instance
func New(cfg Config, pipeline ingest.Pipeline, log logger.Logger) Processor {
	if cfg.DefaultTone == "" {
		cfg.DefaultTone = "auto"
	}
	return &implProcessor{
		cfg:      cfg,
		pipeline: pipeline,
		logger:   log,
	}
}
