package metrics

import (
	"strconv"

	"github.com/bft-labs/ringwalk/internal/app"
	"github.com/bft-labs/ringwalk/internal/domain"
)

// Collector records worker events as metrics. It implements app.EventHandler.
type Collector struct {
	app.BaseEventHandler
}

// NewCollector creates a new Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// OnPhaseChange sets the worker phase gauge.
func (c *Collector) OnPhaseChange(worker int, _, current app.Phase) {
	WorkerPhase.WithLabelValues(label(worker)).Set(float64(current))
}

// OnInit counts initiated walkers.
func (c *Collector) OnInit(worker int, _ domain.Subdomain, walkers int) {
	WalkersInitiatedTotal.WithLabelValues(label(worker)).Add(float64(walkers))
}

// OnSend counts migrated walkers.
func (c *Collector) OnSend(worker, _, walkers int) {
	WalkersMigratedTotal.WithLabelValues(label(worker)).Add(float64(walkers))
}

// OnReceive counts received walkers. Every round ends with exactly one
// receive, so it also counts the round.
func (c *Collector) OnReceive(worker, _, walkers int) {
	w := label(worker)
	WalkersReceivedTotal.WithLabelValues(w).Add(float64(walkers))
	RoundsTotal.WithLabelValues(w).Inc()
}

// OnAdvance counts walkers completed in the round.
func (c *Collector) OnAdvance(worker, _, completed, _ int) {
	WalkersCompletedTotal.WithLabelValues(label(worker)).Add(float64(completed))
}

func label(worker int) string {
	return strconv.Itoa(worker)
}
