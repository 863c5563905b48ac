package transcriber

import (
	"context"
	"fmt"
	"os"

	"github.com/nguyentantai21042004/caption-queue/internal/logger"
	"github.com/nguyentantai21042004/caption-queue/internal/models"
	"github.com/nguyentantai21042004/caption-queue/pkg/executor"
)

// Config describes the local whisper.cpp and ffmpeg setup.
type Config struct {
	WhisperBinary string
	ModelPath     string
	Language      string
	Threads       int
	Prompt        string
	FFmpegBinary  string
	TempDir       string
	MaxConcurrent int
}

type implWhisper struct {
	cfg      Config
	executor executor.Executor
	logger   logger.Logger
	sem      *semaphore
}

// NewWhisper creates a Transcriber that normalizes audio with ffmpeg and
// transcribes it with whisper.cpp.
func NewWhisper(cfg Config, exec executor.Executor, log logger.Logger) Transcriber {
	if cfg.FFmpegBinary == "" {
		cfg.FFmpegBinary = "ffmpeg"
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.Threads <= 0 {
		cfg.Threads = 4
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	return &implWhisper{
		cfg:      cfg,
		executor: exec,
		logger:   log,
		sem:      newSemaphore(cfg.MaxConcurrent),
	}
}

// Check verifies that both binaries resolve and the model file exists.
func Check(cfg Config, exec executor.Executor) error {
	ffmpeg := cfg.FFmpegBinary
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	if _, err := exec.LookPath(ffmpeg); err != nil {
		return err
	}
	if _, err := exec.LookPath(cfg.WhisperBinary); err != nil {
		return err
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return fmt.Errorf("whisper model: %w", err)
	}
	return nil
}

type implDisabled struct {
	reason string
}

// Disabled returns a Transcriber that always fails. Used when whisper is not set up.
func Disabled(reason string) Transcriber {
	return &implDisabled{reason: reason}
}

func (d *implDisabled) Transcribe(ctx context.Context, audioPath string) (Result, error) {
	return Result{}, fmt.Errorf("%w: %s", models.ErrTranscriptionFailed, d.reason)
}
