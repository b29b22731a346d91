// Package mem implements ports.MigrationChannel over in-process Go channels.
//
// A Ring owns one channel per ring edge: link i carries batches from worker i
// to worker (i+1) mod n. Each worker uses its own Endpoint and never touches
// another worker's state, so workers stay isolated exactly as separate
// processes would be.
package mem

import (
	"context"
	"fmt"
	"sync"

	"github.com/bft-labs/ringwalk/internal/domain"
	"github.com/bft-labs/ringwalk/internal/ports"
)

// Config holds configuration for an in-memory ring.
type Config struct {
	// Workers is the number of endpoints on the ring.
	Workers int

	// Capacity is the number of batches each edge buffers.
	// Zero gives synchronous rendezvous: Send blocks until the receiver takes
	// the batch.
	Capacity int
}

// Ring is a set of connected in-memory endpoints.
type Ring struct {
	links     []chan domain.Batch
	endpoints []*Endpoint
	done      chan struct{}
	closeOnce sync.Once
}

// NewRing creates a ring of cfg.Workers endpoints.
// A single-worker ring sends to itself, which can never rendezvous, so it
// requires Capacity >= 1.
func NewRing(cfg Config) (*Ring, error) {
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("%w: ring needs at least one worker, got %d", domain.ErrConfiguration, cfg.Workers)
	}
	if cfg.Capacity < 0 {
		return nil, fmt.Errorf("%w: negative ring capacity %d", domain.ErrConfiguration, cfg.Capacity)
	}
	if cfg.Workers == 1 && cfg.Capacity == 0 {
		return nil, fmt.Errorf("%w: single-worker ring needs capacity >= 1", domain.ErrConfiguration)
	}

	r := &Ring{
		links: make([]chan domain.Batch, cfg.Workers),
		done:  make(chan struct{}),
	}
	for i := range r.links {
		r.links[i] = make(chan domain.Batch, cfg.Capacity)
	}
	r.endpoints = make([]*Endpoint, cfg.Workers)
	for i := range r.endpoints {
		r.endpoints[i] = &Endpoint{ring: r, rank: i, done: make(chan struct{})}
	}
	return r, nil
}

// Endpoint returns the endpoint of worker rank.
func (r *Ring) Endpoint(rank int) *Endpoint {
	return r.endpoints[rank]
}

// Size returns the number of workers on the ring.
func (r *Ring) Size() int {
	return len(r.links)
}

// Close shuts the ring down. Blocked Send, Probe and Receive calls on any
// endpoint return domain.ErrTransportClosed.
func (r *Ring) Close() error {
	r.closeOnce.Do(func() { close(r.done) })
	return nil
}

// Endpoint is one worker's view of the ring.
// An Endpoint must only be used from its owning worker's goroutine; Close
// may be called from any goroutine.
type Endpoint struct {
	ring    *Ring
	rank    int
	pending *domain.Batch

	done      chan struct{}
	closeOnce sync.Once
}

// Rank returns the worker index of this endpoint.
func (e *Endpoint) Rank() int { return e.rank }

// Size returns the number of workers on the ring.
func (e *Endpoint) Size() int { return e.ring.Size() }

// Send posts a copy of batch to the successor.
func (e *Endpoint) Send(ctx context.Context, to int, batch domain.Batch) error {
	if e.isClosed() {
		return domain.ErrTransportClosed
	}
	if want := domain.Successor(e.rank, e.Size()); to != want {
		return fmt.Errorf("%w: worker %d sends to %d, not %d", domain.ErrNotNeighbor, e.rank, want, to)
	}

	msg := batch.Clone()
	select {
	case e.ring.links[e.rank] <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-e.ring.done:
		return domain.ErrTransportClosed
	case <-e.done:
		return domain.ErrTransportClosed
	}
}

// Probe blocks until a batch from the predecessor is pending and returns its
// size. The batch stays pending until Receive.
func (e *Endpoint) Probe(ctx context.Context, from int) (int, error) {
	if err := e.checkSource(from); err != nil {
		return 0, err
	}
	if e.pending != nil {
		return e.pending.Len(), nil
	}

	select {
	case msg := <-e.ring.links[from]:
		e.pending = &msg
		return msg.Len(), nil
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-e.ring.done:
		return 0, domain.ErrTransportClosed
	case <-e.done:
		return 0, domain.ErrTransportClosed
	}
}

// Receive returns the next batch from the predecessor.
func (e *Endpoint) Receive(ctx context.Context, from int) (domain.Batch, error) {
	if _, err := e.Probe(ctx, from); err != nil {
		return nil, err
	}
	msg := *e.pending
	e.pending = nil
	return msg, nil
}

// Close releases the endpoint. Calls blocked on it return
// domain.ErrTransportClosed; other endpoints are not affected.
func (e *Endpoint) Close() error {
	e.closeOnce.Do(func() { close(e.done) })
	return nil
}

func (e *Endpoint) isClosed() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

func (e *Endpoint) checkSource(from int) error {
	if e.isClosed() {
		return domain.ErrTransportClosed
	}
	if want := domain.Predecessor(e.rank, e.Size()); from != want {
		return fmt.Errorf("%w: worker %d receives from %d, not %d", domain.ErrNotNeighbor, e.rank, want, from)
	}
	return nil
}

// Ensure Endpoint implements ports.MigrationChannel.
var _ ports.MigrationChannel = (*Endpoint)(nil)
