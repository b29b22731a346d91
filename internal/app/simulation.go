package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bft-labs/ringwalk/internal/adapters/mem"
	"github.com/bft-labs/ringwalk/internal/adapters/tcp"
	"github.com/bft-labs/ringwalk/internal/domain"
	"github.com/bft-labs/ringwalk/internal/ports"
	"github.com/bft-labs/ringwalk/pkg/log"
)

// Transport names understood by SimulationConfig.
const (
	TransportMemory = "memory"
	TransportTCP    = "tcp"
)

// SimulationConfig contains configuration for an in-process run.
type SimulationConfig struct {
	DomainSize       int
	MaxWalkSize      int
	WalkersPerWorker int
	Workers          int
	Seed             int64

	// Transport selects the migration channel: "memory" (default) or "tcp".
	Transport string

	// Buffer is the per-edge capacity of the memory transport.
	Buffer int

	// ListenHost, BasePort and DialTimeout configure the tcp transport.
	ListenHost  string
	BasePort    int
	DialTimeout time.Duration
}

// Simulation runs every worker of a ring in its own goroutine.
type Simulation struct {
	config  SimulationConfig
	logger  log.Logger
	handler EventHandler
	reports ports.ReportRepository
}

// NewSimulation creates a simulation. handler and reports may be nil.
func NewSimulation(
	config SimulationConfig,
	logger log.Logger,
	handler EventHandler,
	reports ports.ReportRepository,
) *Simulation {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if handler == nil {
		handler = BaseEventHandler{}
	}
	if config.Transport == "" {
		config.Transport = TransportMemory
	}
	if config.ListenHost == "" {
		config.ListenHost = "127.0.0.1"
	}
	return &Simulation{
		config:  config,
		logger:  logger,
		handler: handler,
		reports: reports,
	}
}

// Validate checks the run parameters shared by every worker.
// Errors wrap domain.ErrConfiguration.
func (s *Simulation) Validate() error {
	cfg := s.config
	if err := domain.CheckPartition(cfg.DomainSize, cfg.Workers); err != nil {
		return err
	}
	if cfg.MaxWalkSize < 0 {
		return fmt.Errorf("%w: negative max walk size %d", domain.ErrConfiguration, cfg.MaxWalkSize)
	}
	if cfg.WalkersPerWorker < 0 {
		return fmt.Errorf("%w: negative walkers per worker %d", domain.ErrConfiguration, cfg.WalkersPerWorker)
	}
	switch cfg.Transport {
	case TransportMemory, TransportTCP:
	default:
		return fmt.Errorf("%w: unknown transport %q", domain.ErrConfiguration, cfg.Transport)
	}
	return nil
}

// Run validates the configuration, connects the ring and runs all workers to
// completion. The returned summary is filled in as far as the run got, even
// on error. Run returns domain.ErrIncomplete if walkers are left over after
// the final round.
func (s *Simulation) Run(ctx context.Context) (domain.Summary, error) {
	cfg := s.config
	summary := domain.Summary{
		DomainSize:       cfg.DomainSize,
		MaxWalkSize:      cfg.MaxWalkSize,
		WalkersPerWorker: cfg.WalkersPerWorker,
		Workers:          cfg.Workers,
		Seed:             cfg.Seed,
	}

	if err := s.Validate(); err != nil {
		return summary, err
	}
	summary.Rounds = domain.RoundBound(cfg.DomainSize, cfg.Workers, cfg.MaxWalkSize)

	channels, closeAll, err := s.openChannels(ctx)
	if err != nil {
		return summary, err
	}
	defer closeAll()

	s.logger.Info("simulation starting",
		log.Int("workers", cfg.Workers),
		log.Int("domain_size", cfg.DomainSize),
		log.Int("rounds", summary.Rounds),
		log.Int64("seed", cfg.Seed),
		log.String("transport", cfg.Transport),
	)

	stats := make([]domain.WorkerStats, cfg.Workers)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.Workers; i++ {
		coord := NewCoordinator(CoordinatorConfig{
			Worker:           i,
			Workers:          cfg.Workers,
			DomainSize:       cfg.DomainSize,
			MaxWalkSize:      cfg.MaxWalkSize,
			WalkersPerWorker: cfg.WalkersPerWorker,
			Seed:             cfg.Seed,
		}, channels[i], s.logger, s.handler)

		g.Go(func() error {
			ws, err := coord.Run(gctx)
			stats[i] = ws
			return err
		})
	}
	runErr := g.Wait()

	for _, ws := range stats {
		summary.Add(ws)
	}
	if runErr != nil {
		return summary, runErr
	}
	if !summary.Conserved() || summary.Stranded > 0 {
		return summary, fmt.Errorf("%w: %d of %d walkers completed, %d stranded",
			domain.ErrIncomplete, summary.Completed, summary.Total, summary.Stranded)
	}

	s.logger.Info("simulation complete",
		log.Int("total", summary.Total),
		log.Int("completed", summary.Completed),
	)

	if s.reports != nil {
		if err := s.reports.Save(ctx, summary); err != nil {
			return summary, fmt.Errorf("save report: %w", err)
		}
	}
	return summary, nil
}

// openChannels builds one migration channel per worker.
func (s *Simulation) openChannels(ctx context.Context) ([]ports.MigrationChannel, func(), error) {
	cfg := s.config
	if cfg.Transport == TransportTCP {
		return s.openTCP(ctx)
	}

	ring, err := mem.NewRing(mem.Config{Workers: cfg.Workers, Capacity: cfg.Buffer})
	if err != nil {
		return nil, nil, err
	}
	channels := make([]ports.MigrationChannel, cfg.Workers)
	for i := range channels {
		channels[i] = ring.Endpoint(i)
	}
	return channels, func() { _ = ring.Close() }, nil
}

// openTCP binds a loopback ring and connects every worker concurrently;
// tcp.Open blocks until both neighbors are connected.
func (s *Simulation) openTCP(ctx context.Context) ([]ports.MigrationChannel, func(), error) {
	cfg := s.config
	listeners, addrs, err := tcp.ListenRing(cfg.ListenHost, cfg.BasePort, cfg.Workers)
	if err != nil {
		return nil, nil, err
	}

	endpoints := make([]*tcp.Endpoint, cfg.Workers)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.Workers; i++ {
		g.Go(func() error {
			ep, err := tcp.Open(gctx, tcp.Config{
				Rank:        i,
				Peers:       addrs,
				Listener:    listeners[i],
				DialTimeout: cfg.DialTimeout,
				Logger:      s.logger,
			})
			if err != nil {
				return fmt.Errorf("open worker %d: %w", i, err)
			}
			endpoints[i] = ep
			return nil
		})
	}

	closeAll := func() {
		var errs []error
		for _, ep := range endpoints {
			if ep != nil {
				errs = append(errs, ep.Close())
			}
		}
		if err := errors.Join(errs...); err != nil {
			s.logger.Warn("close transport", log.Err(err))
		}
	}

	if err := g.Wait(); err != nil {
		closeAll()
		return nil, nil, err
	}

	channels := make([]ports.MigrationChannel, cfg.Workers)
	for i, ep := range endpoints {
		channels[i] = ep
	}
	return channels, closeAll, nil
}
