package tone

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/caption-queue/internal/models"
)

const (
	// AutoMixedProbability is the chance an auto request yields ToneMixed.
	AutoMixedProbability = 0.30
	// ListMixedProbability is the chance a multi-tone list yields ToneMixed.
	ListMixedProbability = 0.25
)

// DefaultPreferred is the pool used for auto requests unless configured otherwise.
func DefaultPreferred() []models.Tone {
	return []models.Tone{models.ToneCruel, models.ToneTeasing, models.TonePossessive}
}

// SanitizePreferred keeps the distinct base tones of tones in order. When nothing
// usable remains it returns DefaultPreferred and an error wrapping ErrConfiguration.
func SanitizePreferred(tones []models.Tone) ([]models.Tone, error) {
	out := List(tones...).candidates()
	if len(out) == 0 {
		return DefaultPreferred(), fmt.Errorf("%w: preferred tones %v contain no base tone", models.ErrConfiguration, tones)
	}
	return out, nil
}

// Resolve applies the resolution rules:
// mixed is returned as is, auto draws from the preferred pool with a 30% chance
// of mixed, a list of several tones draws from the list with a 25% chance of
// mixed, a single known tone is returned directly and anything else is auto.
func (s *implSelector) Resolve(req Request) models.Tone {
	if len(req.specs) == 1 {
		switch spec := req.specs[0]; {
		case spec == specMixed:
			return models.ToneMixed
		case models.Tone(spec).IsBase():
			return models.Tone(spec)
		default:
			return s.auto()
		}
	}

	candidates := req.candidates()
	switch len(candidates) {
	case 0:
		return s.auto()
	case 1:
		return candidates[0]
	default:
		if s.chance(ListMixedProbability) {
			return models.ToneMixed
		}
		return s.pick(candidates)
	}
}

func (s *implSelector) auto() models.Tone {
	if s.chance(AutoMixedProbability) {
		return models.ToneMixed
	}
	return s.pick(s.Preferred())
}

func (s *implSelector) chance(p float64) bool {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Float64() < p
}

func (s *implSelector) pick(tones []models.Tone) models.Tone {
	if len(tones) == 0 {
		tones = DefaultPreferred()
	}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return tones[s.rng.IntN(len(tones))]
}

// Preferred returns a copy of the current auto pool.
func (s *implSelector) Preferred() []models.Tone {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Tone(nil), s.preferred...)
}

// SetPreferred replaces the auto pool, falling back to DefaultPreferred when tones has no base tone.
func (s *implSelector) SetPreferred(ctx context.Context, tones []models.Tone) {
	pool, err := SanitizePreferred(tones)
	if err != nil && s.logger != nil {
		s.logger.Warn(ctx, "Using default preferred tones %v: %v", pool, err)
	}

	s.mu.Lock()
	s.preferred = pool
	s.mu.Unlock()
}
