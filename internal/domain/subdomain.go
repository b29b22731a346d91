package domain

import "fmt"

// Subdomain is the contiguous slice [Start, Start+Size) of the domain owned
// by exactly one worker.
type Subdomain struct {
	Start int `json:"start"`
	Size  int `json:"size"`
}

// End returns the exclusive right boundary. A walker whose location equals
// End has left the subdomain.
func (s Subdomain) End() int {
	return s.Start + s.Size
}

// Last returns the inclusive last position of the subdomain.
func (s Subdomain) Last() int {
	return s.Start + s.Size - 1
}

// Contains reports whether location lies inside the subdomain.
func (s Subdomain) Contains(location int) bool {
	return location >= s.Start && location < s.End()
}

// String formats the subdomain as an inclusive range, e.g. "0 - 4".
func (s Subdomain) String() string {
	return fmt.Sprintf("%d - %d", s.Start, s.Last())
}

// Partition computes the subdomain owned by workerIndex when a domain of
// domainSize positions is split across workerCount workers. Every worker gets
// domainSize/workerCount positions and the last one also absorbs the remainder.
//
// It fails with ErrConfiguration when workerCount exceeds domainSize, since no
// worker may own an empty slice.
func Partition(domainSize, workerCount, workerIndex int) (Subdomain, error) {
	if err := CheckPartition(domainSize, workerCount); err != nil {
		return Subdomain{}, err
	}
	if workerIndex < 0 || workerIndex >= workerCount {
		return Subdomain{}, fmt.Errorf("%w: worker index %d out of range [0, %d)", ErrConfiguration, workerIndex, workerCount)
	}

	chunk := domainSize / workerCount
	sub := Subdomain{
		Start: chunk * workerIndex,
		Size:  chunk,
	}
	if workerIndex == workerCount-1 {
		sub.Size += domainSize % workerCount
	}
	return sub, nil
}

// CheckPartition validates the global partition precondition. Every worker
// evaluates it identically before communicating, so either all workers start
// or none do.
func CheckPartition(domainSize, workerCount int) error {
	if domainSize < 1 {
		return fmt.Errorf("%w: domain size must be positive, got %d", ErrConfiguration, domainSize)
	}
	if workerCount < 1 {
		return fmt.Errorf("%w: worker count must be positive, got %d", ErrConfiguration, workerCount)
	}
	if workerCount > domainSize {
		return fmt.Errorf("%w: worker count %d exceeds domain size %d", ErrConfiguration, workerCount, domainSize)
	}
	return nil
}

// RoundBound returns the number of advance/migrate rounds every worker runs.
// A walker crosses at most one subdomain per round, so maxWalkSize divided by
// the smallest subdomain, plus the starting round, is always enough.
// The smallest subdomain is domainSize/workerCount because only the last
// worker is enlarged. All workers get the same value and stay in lock-step.
func RoundBound(domainSize, workerCount, maxWalkSize int) int {
	if workerCount < 1 || domainSize < workerCount {
		return 1
	}
	if maxWalkSize < 0 {
		maxWalkSize = 0
	}
	return maxWalkSize/(domainSize/workerCount) + 1
}

// Successor returns the ring neighbor a worker sends to.
func Successor(workerIndex, workerCount int) int {
	return (workerIndex + 1) % workerCount
}

// Predecessor returns the ring neighbor a worker receives from.
func Predecessor(workerIndex, workerCount int) int {
	return (workerIndex - 1 + workerCount) % workerCount
}
