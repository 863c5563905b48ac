package transcriber

import "context"

// semaphore bounds concurrent whisper runs
type semaphore struct {
	ch chan struct{}
}

func newSemaphore(capacity int) *semaphore {
	return &semaphore{
		ch: make(chan struct{}, capacity),
	}
}

// acquire blocks until a slot is free or ctx is done
func (s *semaphore) acquire(ctx context.Context) error {
	select {
	case s.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *semaphore) release() {
	<-s.ch
}
