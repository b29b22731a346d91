package ringwalk

import (
	"context"
	"fmt"
	"time"

	"github.com/bft-labs/ringwalk/internal/adapters/fs"
	"github.com/bft-labs/ringwalk/internal/adapters/tcp"
	"github.com/bft-labs/ringwalk/internal/app"
	"github.com/bft-labs/ringwalk/internal/domain"
	"github.com/bft-labs/ringwalk/internal/ports"
	"github.com/bft-labs/ringwalk/pkg/log"
)

// Re-exported types.
type (
	Walker      = domain.Walker
	Subdomain   = domain.Subdomain
	WorkerStats = domain.WorkerStats
	Summary     = domain.Summary

	EventHandler     = app.EventHandler
	BaseEventHandler = app.BaseEventHandler
	Phase            = app.Phase
)

// Errors returned by Run and RunWorker. Check with errors.Is.
var (
	ErrConfiguration   = domain.ErrConfiguration
	ErrInvalidArgument = domain.ErrInvalidArgument
	ErrNotNeighbor     = domain.ErrNotNeighbor
	ErrTransportClosed = domain.ErrTransportClosed
	ErrTruncatedBatch  = domain.ErrTruncatedBatch
	ErrIncomplete      = domain.ErrIncomplete
)

// Transport names.
const (
	TransportMemory = app.TransportMemory
	TransportTCP    = app.TransportTCP
)

// Config holds the parameters of a run.
type Config struct {
	DomainSize       int
	MaxWalkSize      int
	WalkersPerWorker int
	Workers          int
	Seed             int64

	// Transport is TransportMemory (default) or TransportTCP over loopback.
	Transport string

	// Buffer is the per-edge capacity of the memory transport. Zero means
	// rendezvous and needs at least two workers.
	Buffer int

	ListenHost  string
	BasePort    int
	DialTimeout time.Duration
}

// DefaultConfig returns a Config with default transport settings.
// The caller must still set DomainSize, MaxWalkSize and WalkersPerWorker.
func DefaultConfig() Config {
	return Config{
		Workers:     4,
		Transport:   TransportMemory,
		Buffer:      1,
		ListenHost:  "127.0.0.1",
		DialTimeout: tcp.DefaultDialTimeout,
	}
}

// Run executes a full in-process simulation and returns its summary.
// It returns an error wrapping ErrConfiguration before any worker starts if
// the parameters cannot be partitioned, and ErrIncomplete if walkers are
// left over after the last round.
func Run(ctx context.Context, cfg Config, opts ...Option) (Summary, error) {
	o := buildOptions(opts)

	var reports ports.ReportRepository
	if o.reportPath != "" {
		reports = fs.NewReportFileRepository(o.reportPath)
	}

	sim := app.NewSimulation(app.SimulationConfig{
		DomainSize:       cfg.DomainSize,
		MaxWalkSize:      cfg.MaxWalkSize,
		WalkersPerWorker: cfg.WalkersPerWorker,
		Workers:          cfg.Workers,
		Seed:             cfg.Seed,
		Transport:        cfg.Transport,
		Buffer:           cfg.Buffer,
		ListenHost:       cfg.ListenHost,
		BasePort:         cfg.BasePort,
		DialTimeout:      cfg.DialTimeout,
	}, o.logger, o.handler(), reports)

	return sim.Run(ctx)
}

// WorkerConfig holds the parameters of one worker in multi-process mode.
type WorkerConfig struct {
	Rank  int
	Peers []string

	DomainSize       int
	MaxWalkSize      int
	WalkersPerWorker int
	Seed             int64

	DialTimeout time.Duration
}

// RunWorker connects rank to its ring neighbors over TCP and runs it to
// completion. Every rank must be started with the same peers and parameters.
func RunWorker(ctx context.Context, cfg WorkerConfig, opts ...Option) (WorkerStats, error) {
	o := buildOptions(opts)
	n := len(cfg.Peers)

	if err := domain.CheckPartition(cfg.DomainSize, n); err != nil {
		return WorkerStats{Worker: cfg.Rank}, err
	}

	ep, err := tcp.Open(ctx, tcp.Config{
		Rank:        cfg.Rank,
		Peers:       cfg.Peers,
		DialTimeout: cfg.DialTimeout,
		Logger:      o.logger,
	})
	if err != nil {
		return WorkerStats{Worker: cfg.Rank}, fmt.Errorf("join ring: %w", err)
	}
	defer ep.Close()

	coord := app.NewCoordinator(app.CoordinatorConfig{
		Worker:           cfg.Rank,
		Workers:          n,
		DomainSize:       cfg.DomainSize,
		MaxWalkSize:      cfg.MaxWalkSize,
		WalkersPerWorker: cfg.WalkersPerWorker,
		Seed:             cfg.Seed,
	}, ep, o.logger, o.handler())

	return coord.Run(ctx)
}

// Logger is the logging interface accepted by WithLogger.
type Logger = log.Logger
