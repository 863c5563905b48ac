package ingest

import (
	"context"

	"github.com/nguyentantai21042004/caption-queue/internal/models"
	"github.com/nguyentantai21042004/caption-queue/internal/tone"
)

// Input is a raw submission before transcription and captioning.
type Input struct {
	Source models.Source
	// Text is the literal content for text and sms sources.
	Text string
	// AudioPath points at the stored upload for the audio source.
	AudioPath string
	Filename  string

	Tone tone.Request
	Hint string

	PhoneNumber string
	MessageSID  string
}

// Pipeline turns raw input into a pending submission.
type Pipeline interface {
	Ingest(ctx context.Context, in Input) (models.Submission, error)
}
