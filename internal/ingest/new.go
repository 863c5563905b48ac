package ingest

import (
	"github.com/nguyentantai21042004/caption-queue/internal/caption"
	"github.com/nguyentantai21042004/caption-queue/internal/classifier"
	"github.com/nguyentantai21042004/caption-queue/internal/lifecycle"
	"github.com/nguyentantai21042004/caption-queue/internal/logger"
	"github.com/nguyentantai21042004/caption-queue/internal/metrics"
	"github.com/nguyentantai21042004/caption-queue/internal/transcriber"
)

type implPipeline struct {
	transcriber transcriber.Transcriber
	classifier  classifier.Classifier
	engine      caption.Engine
	lifecycle   lifecycle.Service
	logger      logger.Logger
	metrics     *metrics.Metrics
	maxLength   int
}

// Option customizes a Pipeline.
type Option func(*implPipeline)

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *implPipeline) {
		p.metrics = m
	}
}

func WithMaxLength(n int) Option {
	return func(p *implPipeline) {
		p.maxLength = n
	}
}

// New creates a Pipeline. tr may be nil when audio ingestion is not offered.
func New(
	tr transcriber.Transcriber,
	cls classifier.Classifier,
	engine caption.Engine,
	svc lifecycle.Service,
	log logger.Logger,
	opts ...Option,
) Pipeline {
	p := &implPipeline{
		transcriber: tr,
		classifier:  cls,
		engine:      engine,
		lifecycle:   svc,
		logger:      log,
		maxLength:   caption.DefaultMaxLength,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
