package notifier

import (
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/caption-queue/internal/logger"
	"github.com/nguyentantai21042004/caption-queue/pkg/httpclient"
)

const DefaultAPIBase = "https://api.twilio.com"

// Config holds the Twilio account settings.
type Config struct {
	APIBase    string
	AccountSID string
	AuthToken  string
	From       string
	Retry      httpclient.Config
}

type implTwilio struct {
	apiBase string
	sid     string
	token   string
	from    string
	client  *httpclient.Client
	logger  logger.Logger
}

// NewTwilio creates a Notifier backed by the Twilio Messages API.
func NewTwilio(cfg Config, log logger.Logger) (Notifier, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.From == "" {
		return nil, fmt.Errorf("account sid, auth token and from number are required")
	}
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	return &implTwilio{
		apiBase: strings.TrimRight(cfg.APIBase, "/"),
		sid:     cfg.AccountSID,
		token:   cfg.AuthToken,
		from:    cfg.From,
		client:  httpclient.New(cfg.Retry),
		logger:  log,
	}, nil
}
