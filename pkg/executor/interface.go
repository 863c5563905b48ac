package executor

import "context"

// Executor runs external binaries such as ffmpeg and whisper.
type Executor interface {
	// Execute runs name with args and returns its stdout.
	Execute(ctx context.Context, name string, args ...string) (string, error)
	// LookPath resolves name the way Execute will.
	LookPath(name string) (string, error)
}
