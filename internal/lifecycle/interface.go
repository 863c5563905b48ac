package lifecycle

import (
	"context"

	"github.com/nguyentantai21042004/caption-queue/internal/models"
	"github.com/nguyentantai21042004/caption-queue/internal/tone"
)

// Service owns submission status. Every mutation goes through it, and
// mutations of the same submission never overlap.
type Service interface {
	// Create stores sub as a new pending submission.
	Create(ctx context.Context, sub models.Submission) (models.Submission, error)
	Get(ctx context.Context, id string) (models.Submission, error)
	List(ctx context.Context, f models.Filter) ([]models.Submission, error)

	Approve(ctx context.Context, id string) (models.Submission, error)
	Reject(ctx context.Context, id string) (models.Submission, error)
	// Post publishes the caption and commits the posted status only once
	// publishing has succeeded.
	Post(ctx context.Context, id string) (models.Submission, error)
	EditCaption(ctx context.Context, id, caption string) (models.Submission, error)
	// RegenerateCaption re-derives caption and tone while edits are allowed.
	RegenerateCaption(ctx context.Context, id string, req tone.Request) (models.Submission, error)

	// Notify sends message to recipient and records the attempt on the
	// submission. Delivery failures are recorded, not returned.
	Notify(ctx context.Context, id, recipient, message string) (models.NotificationRecord, error)
}
