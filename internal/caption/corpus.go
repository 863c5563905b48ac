package caption

import "github.com/nguyentantai21042004/caption-queue/internal/models"

// Corpus maps a resolved tone to its pre-written captions.
type Corpus map[models.Tone][]string

// DefaultCorpus returns the built-in phrases. Every phrase is shorter than DefaultMaxLength.
func DefaultCorpus() Corpus {
	return Corpus{
		models.ToneCruel: {
			"Listen to this. Somebody was desperate for attention and now they have it.",
			"All that noise just to be noticed. Fine, here is your audience.",
			"Recorded, reviewed, and shared. You did ask for this.",
		},
		models.ToneClinical: {
			"Subject exhibits vocalization patterns consistent with a pronounced need for attention.",
			"Observation log: audible request for an audience. Request granted.",
			"Sample archived for public review. Findings: predictably eager.",
		},
		models.ToneTeasing: {
			"Aww, did you think these little sounds would stay private? How adorable.",
			"Someone was very eager to share this one. Cute.",
			"You really sent this in on purpose? Bold little move.",
		},
		models.TonePossessive: {
			"My pet makes the sweetest noises when it knows everyone is listening.",
			"Mine to keep, mine to share. Today I feel like sharing.",
			"Only I decide who gets to hear this. Today, that is everyone.",
		},
		models.ToneMixed: {
			"Clinically speaking: adorable, a little pathetic, and entirely mine.",
			"Needy, noisy, and now on the record. Exactly where you wanted to be.",
			"Observed, teased, and claimed. Say thank you to your audience.",
		},
	}
}

// phrases returns the candidates for t, falling back to the cruel set.
func (c Corpus) phrases(t models.Tone) []string {
	if p := c[t]; len(p) > 0 {
		return p
	}
	if p := c[models.ToneCruel]; len(p) > 0 {
		return p
	}
	return DefaultCorpus()[models.ToneCruel]
}
