package services

import "context"

// boundedPool caps concurrent lookups at min(3, maxOps), per spec.md
// §5. It is a plain counting semaphore rather than the teacher's
// dependency-graph coordinator (internal/infrastructure/engine's
// workChan/doneChan scheduler) because the Repository Manager has no
// dependency ordering to enforce between lookups, only a concurrency
// ceiling.
type boundedPool struct {
	sem chan struct{}
}

func newBoundedPool(maxOps int) *boundedPool {
	n := maxOps
	if n > 3 {
		n = 3
	}
	if n < 1 {
		n = 1
	}
	return &boundedPool{sem: make(chan struct{}, n)}
}

// acquire blocks until a slot is free or ctx is done.
func (p *boundedPool) acquire(ctx context.Context) error {
	select {
	case p.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// release frees the slot acquired by a matching acquire call.
func (p *boundedPool) release() {
	<-p.sem
}
