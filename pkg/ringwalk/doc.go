// Package ringwalk runs distributed random-walk simulations on a ring of
// workers.
//
// The domain [0, DomainSize) wraps around and is split into one contiguous
// subdomain per worker. Each worker seeds WalkersPerWorker walkers at the left
// edge of its subdomain and advances them rightward one unit at a time. A
// walker reaching the right edge migrates to the next worker on the ring,
// carrying its remaining steps. Even workers send before they receive and odd
// workers receive before they send, so the ring never deadlocks.
//
// # Basic Usage
//
//	cfg := ringwalk.DefaultConfig()
//	cfg.DomainSize = 20
//	cfg.MaxWalkSize = 6
//	cfg.WalkersPerWorker = 1
//
//	summary, err := ringwalk.Run(ctx, cfg, ringwalk.WithProgress(os.Stdout))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Event Handling
//
// Implement [EventHandler] (embedding [BaseEventHandler] keeps it short) and
// pass it via [WithEventHandler]. Handlers are called synchronously from the
// worker goroutines and must be safe for concurrent use.
//
// # Multi-process Mode
//
// [RunWorker] runs a single worker over TCP. Start one process per rank with
// the same peer list and run parameters.
package ringwalk
