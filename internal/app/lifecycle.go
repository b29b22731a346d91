package app

import (
	"fmt"
	"sync"

	"github.com/bft-labs/ringwalk/internal/domain"
	"github.com/bft-labs/ringwalk/pkg/log"
)

// Phase represents where a worker is in its run.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseAdvancing
	PhaseEven
	PhaseOdd
	PhaseDone
	PhaseFailed
)

// String returns a human-readable representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "Init"
	case PhaseAdvancing:
		return "Advancing"
	case PhaseEven:
		return "EvenPhase"
	case PhaseOdd:
		return "OddPhase"
	case PhaseDone:
		return "Done"
	case PhaseFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further transition is allowed.
func (p Phase) Terminal() bool {
	return p == PhaseDone || p == PhaseFailed
}

// ExchangePhase returns the exchange phase of a worker: even ranks send
// before receiving, odd ranks receive before sending.
func ExchangePhase(rank int) Phase {
	if rank%2 == 0 {
		return PhaseEven
	}
	return PhaseOdd
}

// PhaseTracker is the state machine of one worker.
type PhaseTracker struct {
	mu      sync.RWMutex
	worker  int
	phase   Phase
	logger  log.Logger
	handler EventHandler
}

// NewPhaseTracker creates a tracker in PhaseInit.
func NewPhaseTracker(worker int, logger log.Logger, handler EventHandler) *PhaseTracker {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &PhaseTracker{
		worker:  worker,
		phase:   PhaseInit,
		logger:  logger,
		handler: handler,
	}
}

// Phase returns the current phase.
func (t *PhaseTracker) Phase() Phase {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.phase
}

// TransitionTo attempts to move to next.
// Returns an error wrapping domain.ErrInvalidTransition if the move is not allowed.
func (t *PhaseTracker) TransitionTo(next Phase) error {
	t.mu.Lock()
	prev := t.phase

	if !t.allowed(prev, next) {
		t.mu.Unlock()
		return fmt.Errorf("%w: worker %d %s -> %s", domain.ErrInvalidTransition, t.worker, prev, next)
	}

	t.phase = next
	t.mu.Unlock()

	// Emit outside of lock
	if t.handler != nil {
		t.handler.OnPhaseChange(t.worker, prev, next)
	}

	t.logger.Debug("phase transition",
		log.Int("worker", t.worker),
		log.String("from", prev.String()),
		log.String("to", next.String()),
	)

	return nil
}

func (t *PhaseTracker) allowed(from, to Phase) bool {
	if from.Terminal() {
		return false
	}
	if to == PhaseFailed {
		return true
	}

	switch from {
	case PhaseInit:
		return to == PhaseAdvancing
	case PhaseAdvancing:
		return to == ExchangePhase(t.worker)
	case PhaseEven, PhaseOdd:
		return to == PhaseAdvancing || to == PhaseDone
	}
	return false
}
