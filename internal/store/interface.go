package store

import (
	"context"

	"github.com/nguyentantai21042004/caption-queue/internal/models"
)

// Store is the persistence boundary for submissions and their records.
// Get on an unknown id returns models.ErrNotFound.
type Store interface {
	// Create inserts sub, assigning an ID when it has none.
	Create(ctx context.Context, sub models.Submission) (models.Submission, error)
	Get(ctx context.Context, id string) (models.Submission, error)
	// Update saves the mutable fields of sub and appends any post or
	// notification records that have no ID yet. Stored records are never changed.
	Update(ctx context.Context, sub models.Submission) (models.Submission, error)
	// List returns matching submissions, oldest first.
	List(ctx context.Context, f models.Filter) ([]models.Submission, error)
	Close() error
}
