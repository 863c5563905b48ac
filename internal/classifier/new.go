package classifier

import (
	"strings"

	"github.com/nguyentantai21042004/caption-queue/internal/models"
)

// Rule pairs a sound type with the keywords that select it.
type Rule struct {
	SoundType models.SoundType
	Keywords  []string
}

// DefaultRules is evaluated in order: whimper, moan, beg.
// The keyword sets overlap, so the order decides the outcome.
var DefaultRules = []Rule{
	{SoundType: models.SoundWhimper, Keywords: []string{"whimper", "whimpered", "whimpering", "please"}},
	{SoundType: models.SoundMoan, Keywords: []string{"moan", "moaned", "moaning", "feels"}},
	{SoundType: models.SoundBeg, Keywords: []string{"beg", "begging", "need", "want"}},
}

type implClassifier struct {
	rules []Rule
}

// New creates a Classifier using DefaultRules.
func New() Classifier {
	return NewWithRules(DefaultRules)
}

// NewWithRules creates a Classifier over an ordered rule list.
func NewWithRules(rules []Rule) Classifier {
	normalized := make([]Rule, 0, len(rules))
	for _, r := range rules {
		kw := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				kw = append(kw, k)
			}
		}
		normalized = append(normalized, Rule{SoundType: r.SoundType, Keywords: kw})
	}
	return &implClassifier{rules: normalized}
}
