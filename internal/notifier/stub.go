package notifier

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/caption-queue/internal/logger"
	"github.com/nguyentantai21042004/caption-queue/internal/models"
)

type implStub struct {
	logger logger.Logger
}

// NewStub returns a Notifier that only logs. Used when Twilio is not configured.
func NewStub(log logger.Logger) Notifier {
	return &implStub{logger: log}
}

func (n *implStub) Send(ctx context.Context, recipient, message string) (Result, error) {
	id := "SMstub" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	n.logger.Warn(ctx, "Notifier not configured, SMS to %s not sent: %s", recipient, message)
	return Result{DeliveryID: id, Status: models.DeliveryStubbed}, nil
}
