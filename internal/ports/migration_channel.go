package ports

import (
	"context"

	"github.com/bft-labs/ringwalk/internal/domain"
)

// MigrationChannel is one worker's endpoint on the migration ring.
// Worker i only sends to (i+1) mod n and only receives from (i-1+n) mod n;
// any other peer fails with domain.ErrNotNeighbor.
//
// Implementations deliver each batch as one atomic message: the receiver sees
// the whole batch or nothing. An empty batch is a valid message.
type MigrationChannel interface {
	// Rank returns the index of the worker owning this endpoint.
	Rank() int

	// Size returns the number of workers on the ring.
	Size() int

	// Send posts batch to worker to. The batch is copied before Send returns,
	// so the caller may reuse it. Send may block until the transport has
	// buffer space or the receiver takes the message.
	Send(ctx context.Context, to int, batch domain.Batch) error

	// Probe blocks until a message from worker from is pending and returns
	// its walker count without consuming it.
	Probe(ctx context.Context, from int) (int, error)

	// Receive blocks until a complete message from worker from is available
	// and returns a freshly allocated batch sized exactly to it.
	Receive(ctx context.Context, from int) (domain.Batch, error)

	// Close releases the endpoint. Blocked calls return domain.ErrTransportClosed.
	Close() error
}
