package transcriber

import (
	"context"
	"time"
)

// Result is the transcript of one audio file.
type Result struct {
	Text       string
	Confidence float64
	Duration   time.Duration
}

// Transcriber turns an audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (Result, error)
}
