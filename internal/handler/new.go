package handler

import (
	"strings"
	"time"

	"github.com/nguyentantai21042004/caption-queue/internal/ingest"
	"github.com/nguyentantai21042004/caption-queue/internal/lifecycle"
	"github.com/nguyentantai21042004/caption-queue/internal/logger"
	"github.com/nguyentantai21042004/caption-queue/internal/metrics"
)

// Config holds the HTTP-facing settings.
type Config struct {
	UploadDir   string
	DefaultTone string
	SMSTone     string

	// ApprovedNumbers limits SMS senders. Empty accepts everyone.
	ApprovedNumbers []string
	// TwilioAuthToken enables webhook signature checks when set.
	TwilioAuthToken string
	PublicURL       string

	RequestTimeout time.Duration
}

type Handler struct {
	cfg       Config
	pipeline  ingest.Pipeline
	lifecycle lifecycle.Service
	logger    logger.Logger
	metrics   *metrics.Metrics
	approved  map[string]bool
}

// New creates the HTTP handlers. m may be nil.
func New(cfg Config, pipeline ingest.Pipeline, svc lifecycle.Service, log logger.Logger, m *metrics.Metrics) *Handler {
	if cfg.DefaultTone == "" {
		cfg.DefaultTone = "auto"
	}
	if cfg.SMSTone == "" {
		cfg.SMSTone = cfg.DefaultTone
	}
	approved := make(map[string]bool, len(cfg.ApprovedNumbers))
	for _, n := range cfg.ApprovedNumbers {
		if n = normalizeNumber(n); n != "" {
			approved[n] = true
		}
	}
	return &Handler{
		cfg:       cfg,
		pipeline:  pipeline,
		lifecycle: svc,
		logger:    log,
		metrics:   m,
		approved:  approved,
	}
}

func normalizeNumber(n string) string {
	return strings.Join(strings.Fields(n), "")
}
