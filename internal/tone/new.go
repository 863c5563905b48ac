package tone

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/nguyentantai21042004/caption-queue/internal/logger"
	"github.com/nguyentantai21042004/caption-queue/internal/models"
)

type implSelector struct {
	logger logger.Logger

	rngMu sync.Mutex
	rng   *rand.Rand

	mu        sync.RWMutex
	preferred []models.Tone
}

// Option customizes a Selector.
type Option func(*implSelector)

// WithSource makes resolution reproducible.
func WithSource(src rand.Source) Option {
	return func(s *implSelector) {
		s.rng = rand.New(src)
	}
}

// WithLogger reports configuration fallbacks.
func WithLogger(log logger.Logger) Option {
	return func(s *implSelector) {
		s.logger = log
	}
}

// New creates a Selector drawing auto requests from preferred.
// An empty or invalid preferred pool falls back to DefaultPreferred.
func New(preferred []models.Tone, opts ...Option) Selector {
	s := &implSelector{}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s.SetPreferred(context.Background(), preferred)
	return s
}
