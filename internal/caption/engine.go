package caption

import (
	"context"
	"strings"

	"github.com/nguyentantai21042004/caption-queue/internal/models"
)

// Generate resolves the requested tone and returns a caption of at most
// in.MaxLength runes. Generator failures fall back to the corpus.
func (e *implEngine) Generate(ctx context.Context, in Input) (string, models.Tone) {
	maxLength := in.MaxLength
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	resolved := e.selector.Resolve(in.Tone)
	e.logger.Debug(ctx, "Resolved tone request %q to %s", in.Tone.String(), resolved)

	if e.generator != nil {
		text, err := e.generator.Generate(ctx, Prompt{
			Transcript: in.Transcript,
			SoundType:  in.SoundType,
			Tone:       resolved,
			Hint:       in.Hint,
			MaxLength:  maxLength,
		})
		if err == nil && strings.TrimSpace(text) != "" {
			return Truncate(text, maxLength), resolved
		}
		if err != nil {
			e.logger.Warn(ctx, "Caption generator failed, using corpus: %v", err)
		}
	}

	return Truncate(e.pick(resolved), maxLength), resolved
}

func (e *implEngine) pick(t models.Tone) string {
	phrases := e.corpus.phrases(t)
	e.mu.Lock()
	defer e.mu.Unlock()
	return phrases[e.rng.IntN(len(phrases))]
}
