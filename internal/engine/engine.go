// Package engine advances walkers inside a single worker's subdomain.
package engine

import "github.com/bft-labs/ringwalk/internal/domain"

// Advance walks every walker in incoming one unit to the right at a time
// until it either runs out of steps or reaches the subdomain's right
// boundary. Walkers at the boundary are returned in exiting with their
// remaining steps intact; a walker that reaches the end of the domain is
// wrapped to position 0 first. Walkers that finish are counted in completed
// and dropped.
//
// Advance mutates the walkers in incoming and never blocks.
func Advance(incoming domain.Batch, sub domain.Subdomain, domainSize int) (exiting domain.Batch, completed int) {
	exiting = domain.NewBatch(0)
	for i := range incoming {
		if Step(&incoming[i], sub, domainSize) {
			exiting = append(exiting, incoming[i])
			continue
		}
		completed++
	}
	return exiting, completed
}

// Step advances a single walker. It returns true when the walker left the
// subdomain and must migrate, false when its walk is complete.
func Step(w *domain.Walker, sub domain.Subdomain, domainSize int) bool {
	boundary := sub.End()
	for w.StepsRemaining > 0 {
		if w.Location == boundary {
			if w.Location == domainSize {
				w.Location = 0
			}
			return true
		}
		w.StepsRemaining--
		w.Location++
	}
	return false
}
