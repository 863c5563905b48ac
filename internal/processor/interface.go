package processor

import "context"

// Processor ingests audio files dropped into the input folder.
type Processor interface {
	Process(ctx context.Context, audioPath string) error
}
