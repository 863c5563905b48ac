package publisher

import (
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/caption-queue/internal/logger"
	"github.com/nguyentantai21042004/caption-queue/pkg/httpclient"
)

const (
	DefaultAPIBase = "https://api.twitter.com"
	DefaultHandle  = "i/web"
)

// Config holds the X API settings.
type Config struct {
	APIBase     string
	BearerToken string
	Handle      string
	Retry       httpclient.Config
}

type implX struct {
	apiBase string
	token   string
	handle  string
	client  *httpclient.Client
	logger  logger.Logger
}

// NewX creates a Publisher for the X v2 tweets endpoint.
func NewX(cfg Config, log logger.Logger) (Publisher, error) {
	if cfg.BearerToken == "" {
		return nil, fmt.Errorf("bearer token is required")
	}
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	if cfg.Handle == "" {
		cfg.Handle = DefaultHandle
	}
	// A tweet may already exist when the API answers 5xx; only rate limits and
	// connection failures are safe to resend.
	cfg.Retry.NonIdempotent = true
	return &implX{
		apiBase: strings.TrimRight(cfg.APIBase, "/"),
		token:   cfg.BearerToken,
		handle:  strings.Trim(cfg.Handle, "/"),
		client:  httpclient.New(cfg.Retry),
		logger:  log,
	}, nil
}
