package app

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/bft-labs/ringwalk/internal/domain"
	"github.com/bft-labs/ringwalk/internal/engine"
	"github.com/bft-labs/ringwalk/internal/ports"
	"github.com/bft-labs/ringwalk/pkg/log"
)

// CoordinatorConfig contains the run parameters of one worker.
// Every worker of a run must see the same values except Worker.
type CoordinatorConfig struct {
	Worker           int
	Workers          int
	DomainSize       int
	MaxWalkSize      int
	WalkersPerWorker int
	Seed             int64
}

// Coordinator drives one worker through its rounds.
type Coordinator struct {
	config  CoordinatorConfig
	channel ports.MigrationChannel
	logger  log.Logger
	handler EventHandler
	tracker *PhaseTracker
}

// NewCoordinator creates a coordinator for config.Worker talking over channel.
func NewCoordinator(
	config CoordinatorConfig,
	channel ports.MigrationChannel,
	logger log.Logger,
	handler EventHandler,
) *Coordinator {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if handler == nil {
		handler = BaseEventHandler{}
	}
	return &Coordinator{
		config:  config,
		channel: channel,
		logger:  logger,
		handler: handler,
		tracker: NewPhaseTracker(config.Worker, logger, handler),
	}
}

// Phase returns the worker's current phase.
func (c *Coordinator) Phase() Phase {
	return c.tracker.Phase()
}

// Run seeds this worker's walkers, then advances and exchanges them for the
// shared number of rounds. It returns once every round is done, the context
// is canceled, or the transport fails.
func (c *Coordinator) Run(ctx context.Context) (domain.WorkerStats, error) {
	cfg := c.config
	stats := domain.WorkerStats{Worker: cfg.Worker}

	sub, err := domain.Partition(cfg.DomainSize, cfg.Workers, cfg.Worker)
	if err != nil {
		return stats, c.fail(err)
	}
	stats.Subdomain = sub
	if c.channel.Rank() != cfg.Worker || c.channel.Size() != cfg.Workers {
		return stats, c.fail(fmt.Errorf("%w: channel is rank %d of %d, worker is %d of %d",
			domain.ErrConfiguration, c.channel.Rank(), c.channel.Size(), cfg.Worker, cfg.Workers))
	}

	incoming := c.seed(sub)
	stats.Initiated = len(incoming)
	c.handler.OnInit(cfg.Worker, sub, len(incoming))
	c.logger.Info("walkers initiated",
		log.Int("worker", cfg.Worker),
		log.String("subdomain", sub.String()),
		log.Int("walkers", len(incoming)),
	)

	rounds := domain.RoundBound(cfg.DomainSize, cfg.Workers, cfg.MaxWalkSize)
	exchange := ExchangePhase(cfg.Worker)

	for round := 0; round < rounds; round++ {
		if err := c.tracker.TransitionTo(PhaseAdvancing); err != nil {
			return stats, c.fail(err)
		}

		exiting, completed := engine.Advance(incoming, sub, cfg.DomainSize)
		stats.Completed += completed
		c.handler.OnAdvance(cfg.Worker, round, completed, len(exiting))
		c.logger.Debug("round advanced",
			log.Int("worker", cfg.Worker),
			log.Int("round", round),
			log.Int("completed", completed),
			log.Int("exiting", len(exiting)),
		)

		if err := c.tracker.TransitionTo(exchange); err != nil {
			return stats, c.fail(err)
		}
		c.handler.OnSend(cfg.Worker, domain.Successor(cfg.Worker, cfg.Workers), len(exiting))

		received, err := c.exchange(ctx, exchange, exiting)
		if err != nil {
			c.logger.Error("exchange failed",
				log.Int("worker", cfg.Worker),
				log.Int("round", round),
				log.Err(err),
			)
			return stats, c.fail(fmt.Errorf("worker %d round %d: %w", cfg.Worker, round, err))
		}

		stats.Sent += len(exiting)
		stats.Received += len(received)
		stats.Rounds++
		incoming = received
	}

	stats.Stranded = len(incoming)
	if err := c.tracker.TransitionTo(PhaseDone); err != nil {
		return stats, c.fail(err)
	}
	c.handler.OnDone(stats)
	c.logger.Info("worker done",
		log.Int("worker", cfg.Worker),
		log.Int("rounds", stats.Rounds),
		log.Int("completed", stats.Completed),
		log.Int("stranded", stats.Stranded),
	)
	return stats, nil
}

// seed creates the worker's walkers at the left edge of its subdomain.
// The step counts are a pure function of (seed, worker).
func (c *Coordinator) seed(sub domain.Subdomain) domain.Batch {
	rng := rand.New(rand.NewPCG(uint64(c.config.Seed), uint64(c.config.Worker)))

	walkers := domain.NewBatch(c.config.WalkersPerWorker)
	for i := 0; i < c.config.WalkersPerWorker; i++ {
		steps := 0
		if c.config.MaxWalkSize > 0 {
			steps = rng.IntN(c.config.MaxWalkSize)
		}
		walkers = append(walkers, domain.Walker{Location: sub.Start, StepsRemaining: steps})
	}
	return walkers
}

// exchange sends outgoing to the successor and receives from the
// predecessor, in the order given by phase.
func (c *Coordinator) exchange(ctx context.Context, phase Phase, outgoing domain.Batch) (domain.Batch, error) {
	if phase == PhaseEven {
		if err := c.send(ctx, outgoing); err != nil {
			return nil, err
		}
		return c.receive(ctx)
	}

	received, err := c.receive(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.send(ctx, outgoing); err != nil {
		return nil, err
	}
	return received, nil
}

func (c *Coordinator) send(ctx context.Context, outgoing domain.Batch) error {
	to := domain.Successor(c.config.Worker, c.config.Workers)
	if err := c.channel.Send(ctx, to, outgoing); err != nil {
		return fmt.Errorf("send to %d: %w", to, err)
	}
	return nil
}

func (c *Coordinator) receive(ctx context.Context) (domain.Batch, error) {
	from := domain.Predecessor(c.config.Worker, c.config.Workers)
	n, err := c.channel.Probe(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("probe %d: %w", from, err)
	}
	batch, err := c.channel.Receive(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("receive from %d: %w", from, err)
	}
	if len(batch) != n {
		return nil, fmt.Errorf("%w: probed %d walkers, received %d", domain.ErrTruncatedBatch, n, len(batch))
	}
	c.handler.OnReceive(c.config.Worker, from, len(batch))
	return batch, nil
}

// fail moves the worker to PhaseFailed and returns err unchanged.
func (c *Coordinator) fail(err error) error {
	if !c.tracker.Phase().Terminal() {
		_ = c.tracker.TransitionTo(PhaseFailed)
	}
	return err
}
