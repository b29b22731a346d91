// Package metrics exposes Prometheus metrics for ringwalk workers.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WalkersInitiatedTotal tracks walkers created by each worker.
var WalkersInitiatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ringwalk_walkers_initiated_total",
		Help: "Total walkers initiated",
	},
	[]string{"worker"},
)

// WalkersMigratedTotal tracks walkers sent to the ring successor.
var WalkersMigratedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ringwalk_walkers_migrated_total",
		Help: "Total walkers sent to the next worker",
	},
	[]string{"worker"},
)

// WalkersReceivedTotal tracks walkers received from the ring predecessor.
var WalkersReceivedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ringwalk_walkers_received_total",
		Help: "Total walkers received from the previous worker",
	},
	[]string{"worker"},
)

// WalkersCompletedTotal tracks walkers whose walk ended in each worker.
var WalkersCompletedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ringwalk_walkers_completed_total",
		Help: "Total walkers completed",
	},
	[]string{"worker"},
)

// RoundsTotal tracks finished advance/exchange rounds.
var RoundsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ringwalk_rounds_total",
		Help: "Total rounds completed",
	},
	[]string{"worker"},
)

// WorkerPhase tracks the current phase of each worker as its numeric value.
var WorkerPhase = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "ringwalk_worker_phase",
		Help: "Current worker phase (0=Init 1=Advancing 2=EvenPhase 3=OddPhase 4=Done 5=Failed)",
	},
	[]string{"worker"},
)
