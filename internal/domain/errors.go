package domain

import "errors"

// Domain errors represent error conditions in the ringwalk domain.
// They are returned wrapped and can be checked with errors.Is.
var (
	// ErrConfiguration is returned when the global run parameters cannot be
	// satisfied, e.g. more workers than domain positions. It is fatal and must
	// be detected before any worker communicates.
	ErrConfiguration = errors.New("ringwalk: invalid configuration")

	// ErrInvalidArgument is returned for malformed or missing command-line arguments.
	ErrInvalidArgument = errors.New("ringwalk: invalid argument")

	// ErrNotNeighbor is returned when a worker addresses a peer that is not
	// its ring successor (send) or predecessor (receive).
	ErrNotNeighbor = errors.New("ringwalk: peer is not a ring neighbor")

	// ErrTransportClosed is returned when a migration channel is used after Close.
	ErrTransportClosed = errors.New("ringwalk: transport closed")

	// ErrTruncatedBatch is returned when a batch arrives with fewer walkers
	// than its header announced.
	ErrTruncatedBatch = errors.New("ringwalk: truncated batch")

	// ErrInvalidTransition is returned when a worker phase change is not allowed.
	ErrInvalidTransition = errors.New("ringwalk: invalid phase transition")

	// ErrIncomplete is returned when walkers are still in flight after the
	// final round.
	ErrIncomplete = errors.New("ringwalk: walkers did not complete")
)
