package classifier

import "github.com/nguyentantai21042004/caption-queue/internal/models"

// Classifier maps a transcript to a sound type.
type Classifier interface {
	Classify(transcript string) models.SoundType
}
