package caption

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/nguyentantai21042004/caption-queue/internal/logger"
	"github.com/nguyentantai21042004/caption-queue/internal/models"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

var systemPrompts = map[models.Tone]string{
	models.ToneCruel:      "You are a cold, dismissive narrator. Write a short, blunt social media caption for a consenting adult's submitted audio clip.",
	models.ToneClinical:   "You are a detached observer. Write a short social media caption that describes a submitted audio clip like a lab note.",
	models.ToneTeasing:    "You are a playful narrator. Write a short social media caption that lightly teases the person who submitted the audio clip.",
	models.TonePossessive: "You are a proud, possessive narrator. Write a short social media caption that treats the submitter as yours.",
	models.ToneMixed:      "Blend a cold, clinical, teasing and possessive voice into one short social media caption for a submitted audio clip.",
}

const userPrompt = `Sound type: %s
Transcript: %s
%sWrite one caption under %d characters. No hashtags, no explicit content, no quotation marks.`

type geminiGenerator struct {
	apiKeys []string
	model   string
	logger  logger.Logger

	mu         sync.Mutex
	currentKey int
}

// NewGemini creates a Generator that rotates through the supplied Gemini API keys.
func NewGemini(apiKeys []string, model string, log logger.Logger) Generator {
	if model == "" {
		model = defaultGeminiModel
	}
	return &geminiGenerator{
		apiKeys: apiKeys,
		model:   model,
		logger:  log,
	}
}

// Generate sends the prompt to Gemini and returns the caption text.
// Rotates API keys on 429 / quota errors.
func (g *geminiGenerator) Generate(ctx context.Context, p Prompt) (string, error) {
	if len(g.apiKeys) == 0 {
		return "", errors.New("gemini: no API keys configured")
	}

	system, ok := systemPrompts[p.Tone]
	if !ok {
		system = systemPrompts[models.ToneCruel]
	}
	hint := ""
	if p.Hint != "" {
		hint = fmt.Sprintf("Hint: %s\n", p.Hint)
	}
	prompt := fmt.Sprintf(userPrompt, p.SoundType, p.Transcript, hint, p.MaxLength)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
		Temperature:       genai.Ptr[float32](0.7),
		MaxOutputTokens:   100,
	}

	var lastErr error
	for range len(g.apiKeys) {
		key, idx := g.key()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			g.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
		if err != nil {
			if isQuotaError(err) {
				g.logger.Warn(ctx, "Gemini key %d rate limited, rotating...", idx+1)
				g.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var b strings.Builder
			for _, part := range result.Candidates[0].Content.Parts {
				if part != nil && part.Text != "" {
					b.WriteString(part.Text)
				}
			}
			return strings.Trim(strings.TrimSpace(b.String()), `"`), nil
		}

		return "", errors.New("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (g *geminiGenerator) key() (string, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.apiKeys[g.currentKey], g.currentKey
}

func (g *geminiGenerator) rotateKey() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
