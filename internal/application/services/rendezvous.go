package services

import (
	"context"

	"github.com/weave-pm/weave/internal/domain/entities"
)

// rendezvous is the single-flight primitive behind RepositoryManager's
// per-specifier lookup coalescing (spec.md §9 "Single-flight without
// condition variables"): the first entrant for a specifier registers
// one of these, later entrants for the same specifier wait on it, and
// the winner closes it under the same mutex that guards the pending
// map so registration and completion can never race.
type rendezvous struct {
	done    chan struct{}
	handle  entities.RepositoryHandle
	details entities.FetchDetails
	err     error
}

func newRendezvous() *rendezvous {
	return &rendezvous{done: make(chan struct{})}
}

// complete broadcasts the result to every waiter and may only be
// called once.
func (r *rendezvous) complete(handle entities.RepositoryHandle, details entities.FetchDetails, err error) {
	r.handle, r.details, r.err = handle, details, err
	close(r.done)
}

// wait blocks until complete is called or ctx is done.
func (r *rendezvous) wait(ctx context.Context) (entities.RepositoryHandle, entities.FetchDetails, error) {
	select {
	case <-r.done:
		return r.handle, r.details, r.err
	case <-ctx.Done():
		return entities.RepositoryHandle{}, entities.FetchDetails{}, ctx.Err()
	}
}
