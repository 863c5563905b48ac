package caption

import (
	"context"

	"github.com/nguyentantai21042004/caption-queue/internal/models"
	"github.com/nguyentantai21042004/caption-queue/internal/tone"
)

// DefaultMaxLength fits a single post on the target platform.
const DefaultMaxLength = 280

// Input is what a caption is generated from.
type Input struct {
	Transcript string
	SoundType  models.SoundType
	Tone       tone.Request
	Hint       string
	MaxLength  int
}

// Engine produces caption text and reports the tone actually used.
type Engine interface {
	Generate(ctx context.Context, in Input) (string, models.Tone)
}

// Prompt is handed to a Generator once the tone has been resolved.
type Prompt struct {
	Transcript string
	SoundType  models.SoundType
	Tone       models.Tone
	Hint       string
	MaxLength  int
}

// Generator writes caption text with an external text model.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}
