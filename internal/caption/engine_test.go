package caption

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/nguyentantai21042004/caption-queue/internal/logger"
	"github.com/nguyentantai21042004/caption-queue/internal/models"
	"github.com/nguyentantai21042004/caption-queue/internal/tone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type generatorStub struct {
	text    string
	err     error
	prompts []Prompt
}

func (g *generatorStub) Generate(ctx context.Context, p Prompt) (string, error) {
	g.prompts = append(g.prompts, p)
	return g.text, g.err
}

func newEngine(opts ...Option) Engine {
	sel := tone.New(nil, tone.WithSource(rand.NewPCG(1, 2)))
	opts = append([]Option{WithSource(rand.NewPCG(3, 4))}, opts...)
	return New(sel, logger.New("error"), opts...)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestGenerateUsesCorpusOfResolvedTone(t *testing.T) {
	e := newEngine()
	corpus := DefaultCorpus()

	for _, base := range append(models.BaseTones(), models.ToneMixed) {
		t.Run(string(base), func(t *testing.T) {
			text, resolved := e.Generate(context.Background(), Input{
				Transcript: "please",
				SoundType:  models.SoundWhimper,
				Tone:       tone.Single(base),
			})
			assert.Equal(t, base, resolved)
			assert.True(t, contains(corpus[base], text), "caption %q not in %s corpus", text, base)
		})
	}
}

func TestGenerateFallsBackToCruelCorpus(t *testing.T) {
	corpus := Corpus{models.ToneCruel: {"cruel fallback"}}
	e := newEngine(WithCorpus(corpus))

	text, resolved := e.Generate(context.Background(), Input{Tone: tone.Single(models.ToneTeasing)})
	assert.Equal(t, models.ToneTeasing, resolved)
	assert.Equal(t, "cruel fallback", text)

	text, _ = newEngine(WithCorpus(Corpus{})).Generate(context.Background(), Input{Tone: tone.Mixed()})
	assert.NotEmpty(t, text)
}

func TestGenerateWithGenerator(t *testing.T) {
	gen := &generatorStub{text: "generated caption that is rather long for the limit"}
	e := newEngine(WithGenerator(gen))

	text, resolved := e.Generate(context.Background(), Input{
		Transcript: "I want it",
		SoundType:  models.SoundBeg,
		Tone:       tone.Single(models.ToneClinical),
		Hint:       "short",
		MaxLength:  20,
	})

	assert.Equal(t, models.ToneClinical, resolved)
	assert.Equal(t, "generated caption", text)
	require.Len(t, gen.prompts, 1)
	assert.Equal(t, Prompt{
		Transcript: "I want it",
		SoundType:  models.SoundBeg,
		Tone:       models.ToneClinical,
		Hint:       "short",
		MaxLength:  20,
	}, gen.prompts[0])
}

func TestGenerateGeneratorFailureUsesCorpus(t *testing.T) {
	for _, gen := range []*generatorStub{{err: errors.New("boom")}, {text: "   "}} {
		e := newEngine(WithGenerator(gen))
		text, resolved := e.Generate(context.Background(), Input{Tone: tone.Single(models.TonePossessive)})
		assert.Equal(t, models.TonePossessive, resolved)
		assert.True(t, contains(DefaultCorpus()[models.TonePossessive], text))
	}
}

func TestGenerateUnknownToneResolvesLikeAuto(t *testing.T) {
	e := newEngine()
	for i := 0; i < 100; i++ {
		text, resolved := e.Generate(context.Background(), Input{Tone: tone.ParseRequest("beg")})
		assert.NotEmpty(t, text)
		assert.Contains(t, []models.Tone{models.ToneCruel, models.ToneTeasing, models.TonePossessive, models.ToneMixed}, resolved)
	}
}

func TestDefaultCorpusRespectsMaxLength(t *testing.T) {
	for tn, phrases := range DefaultCorpus() {
		require.NotEmpty(t, phrases, "tone %s", tn)
		for _, p := range phrases {
			assert.LessOrEqual(t, utf8.RuneCountInString(p), DefaultMaxLength)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want string
	}{
		{"short enough", "hello world", 20, "hello world"},
		{"exact", "hello world", 11, "hello world"},
		{"cut at boundary", "hello world again", 11, "hello world"},
		{"back to previous space", "hello wonderful world", 12, "hello"},
		{"single long word", "supercalifragilistic", 5, "super"},
		{"no limit", "  padded  ", 0, "padded"},
		{"multibyte", "héllo wörld", 8, "héllo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.text, tt.max)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.text, tt.max, got, tt.want)
			}
			if tt.max > 0 && utf8.RuneCountInString(got) > tt.max {
				t.Errorf("Truncate() length %d exceeds %d", utf8.RuneCountInString(got), tt.max)
			}
			if strings.HasSuffix(got, " ") {
				t.Errorf("Truncate() left trailing space: %q", got)
			}
		})
	}
}
