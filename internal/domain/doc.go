// Package domain contains the core entities and value objects for ringwalk.
//
// This package is the innermost layer. It has no dependencies on
// infrastructure concerns (transports, logging, files) and contains only the
// rules of the simulation itself.
//
// # Entities
//
//   - [Walker]: a single entity with a location and a remaining step count
//   - [Batch]: the walkers held or shipped by a worker at a point in time
//   - [Subdomain]: the contiguous slice of the domain owned by one worker
//
// # Rules
//
// [Partition] splits the domain across workers, giving the remainder to the
// last worker. [RoundBound] computes how many advance/migrate rounds every
// worker performs so that every walker is guaranteed to finish.
package domain
