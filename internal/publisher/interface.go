package publisher

import "context"

// Result identifies a published post.
type Result struct {
	ExternalPostID string
	URL            string
}

// Publisher posts caption text to a social platform.
type Publisher interface {
	Publish(ctx context.Context, text string) (Result, error)
}
