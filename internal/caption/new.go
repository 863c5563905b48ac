package caption

import (
	"math/rand/v2"
	"sync"

	"github.com/nguyentantai21042004/caption-queue/internal/logger"
	"github.com/nguyentantai21042004/caption-queue/internal/tone"
)

type implEngine struct {
	selector  tone.Selector
	corpus    Corpus
	generator Generator
	logger    logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// Option customizes an Engine.
type Option func(*implEngine)

// WithGenerator asks gen for captions before falling back to the corpus.
func WithGenerator(gen Generator) Option {
	return func(e *implEngine) {
		e.generator = gen
	}
}

// WithCorpus replaces the built-in phrases.
func WithCorpus(c Corpus) Option {
	return func(e *implEngine) {
		e.corpus = c
	}
}

// WithSource makes phrase selection reproducible.
func WithSource(src rand.Source) Option {
	return func(e *implEngine) {
		e.rng = rand.New(src)
	}
}

// New creates an Engine resolving tones through selector.
func New(selector tone.Selector, log logger.Logger, opts ...Option) Engine {
	e := &implEngine{
		selector: selector,
		corpus:   DefaultCorpus(),
		logger:   log,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return e
}
