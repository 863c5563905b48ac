package classifier

import (
	"strings"

	"github.com/nguyentantai21042004/caption-queue/internal/models"
)

// Classify returns the sound type of the first rule with a keyword contained
// in the lowercased transcript, or SoundOther when none matches.
func (c *implClassifier) Classify(transcript string) models.SoundType {
	text := strings.ToLower(transcript)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				return rule.SoundType
			}
		}
	}
	return models.SoundOther
}
