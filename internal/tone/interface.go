package tone

import (
	"context"

	"github.com/nguyentantai21042004/caption-queue/internal/models"
)

// Selector resolves a tone request to one concrete tone or ToneMixed.
type Selector interface {
	Resolve(req Request) models.Tone
	Preferred() []models.Tone
	SetPreferred(ctx context.Context, tones []models.Tone)
}
