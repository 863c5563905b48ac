package lifecycle

import (
	"time"

	"github.com/nguyentantai21042004/caption-queue/internal/caption"
	"github.com/nguyentantai21042004/caption-queue/internal/logger"
	"github.com/nguyentantai21042004/caption-queue/internal/metrics"
	"github.com/nguyentantai21042004/caption-queue/internal/notifier"
	"github.com/nguyentantai21042004/caption-queue/internal/publisher"
	"github.com/nguyentantai21042004/caption-queue/internal/store"
)

type implService struct {
	store     store.Store
	publisher publisher.Publisher
	notifier  notifier.Notifier
	engine    caption.Engine
	logger    logger.Logger
	metrics   *metrics.Metrics

	locks     *keyedMutex
	now       func() time.Time
	maxLength int
}

// Option customizes a Service.
type Option func(*implService)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *implService) {
		s.metrics = m
	}
}

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *implService) {
		s.now = now
	}
}

// WithMaxLength bounds regenerated captions.
func WithMaxLength(n int) Option {
	return func(s *implService) {
		s.maxLength = n
	}
}

// New creates a lifecycle Service.
func New(
	st store.Store,
	pub publisher.Publisher,
	notif notifier.Notifier,
	engine caption.Engine,
	log logger.Logger,
	opts ...Option,
) Service {
	s := &implService{
		store:     st,
		publisher: pub,
		notifier:  notif,
		engine:    engine,
		logger:    log,
		locks:     newKeyedMutex(),
		now:       time.Now,
		maxLength: caption.DefaultMaxLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
