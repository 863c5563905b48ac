package publisher

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/caption-queue/internal/logger"
)

type implStub struct {
	logger logger.Logger
}

// NewStub returns a Publisher that only logs. Used when no API token is configured.
func NewStub(log logger.Logger) Publisher {
	return &implStub{logger: log}
}

func (p *implStub) Publish(ctx context.Context, text string) (Result, error) {
	id := "stub-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	p.logger.Warn(ctx, "Publisher not configured, pretending to post %q as %s", text, id)
	return Result{ExternalPostID: id, URL: fmt.Sprintf("https://x.com/%s/status/%s", DefaultHandle, id)}, nil
}
