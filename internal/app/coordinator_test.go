package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bft-labs/ringwalk/internal/adapters/mem"
	"github.com/bft-labs/ringwalk/internal/domain"
)

// failingChannel is a ring endpoint whose Send always fails.
type failingChannel struct {
	rank, size int
	err        error
}

func (f *failingChannel) Rank() int { return f.rank }
func (f *failingChannel) Size() int { return f.size }
func (f *failingChannel) Send(context.Context, int, domain.Batch) error {
	return f.err
}
func (f *failingChannel) Probe(ctx context.Context, _ int) (int, error) {
	<-ctx.Done()
	return 0, ctx.Err()
}
func (f *failingChannel) Receive(ctx context.Context, _ int) (domain.Batch, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
func (f *failingChannel) Close() error { return nil }

func TestCoordinator_SingleWorker(t *testing.T) {
	ring, err := mem.NewRing(mem.Config{Workers: 1, Capacity: 1})
	if err != nil {
		t.Fatal(err)
	}
	defer ring.Close()

	h := &recordingHandler{}
	c := NewCoordinator(CoordinatorConfig{
		Worker:           0,
		Workers:          1,
		DomainSize:       10,
		MaxWalkSize:      35,
		WalkersPerWorker: 8,
		Seed:             3,
	}, ring.Endpoint(0), nil, h)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats, err := c.Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stats.Initiated != 8 {
		t.Errorf("Initiated = %d, want 8", stats.Initiated)
	}
	if stats.Completed != 8 {
		t.Errorf("Completed = %d, want 8", stats.Completed)
	}
	if stats.Stranded != 0 {
		t.Errorf("Stranded = %d, want 0", stats.Stranded)
	}
	if want := domain.RoundBound(10, 1, 35); stats.Rounds != want {
		t.Errorf("Rounds = %d, want %d", stats.Rounds, want)
	}
	if stats.Sent != stats.Received {
		t.Errorf("Sent = %d, Received = %d, want equal on a one-worker ring", stats.Sent, stats.Received)
	}
	if c.Phase() != PhaseDone {
		t.Errorf("Phase() = %v, want Done", c.Phase())
	}
	if h.inits != 1 || len(h.done) != 1 {
		t.Errorf("inits = %d, done = %d, want 1 and 1", h.inits, len(h.done))
	}
	if h.advances != stats.Rounds {
		t.Errorf("advances = %d, want %d", h.advances, stats.Rounds)
	}
	if len(h.sends) != stats.Rounds || len(h.receives) != stats.Rounds {
		t.Errorf("sends = %d, receives = %d, want %d each", len(h.sends), len(h.receives), stats.Rounds)
	}
}

func TestCoordinator_SeedIsDeterministic(t *testing.T) {
	cfg := CoordinatorConfig{Worker: 2, Workers: 4, DomainSize: 40, MaxWalkSize: 100, WalkersPerWorker: 16, Seed: 42}
	sub, _ := domain.Partition(40, 4, 2)

	a := NewCoordinator(cfg, nil, nil, nil).seed(sub)
	b := NewCoordinator(cfg, nil, nil, nil).seed(sub)

	if len(a) != 16 {
		t.Fatalf("seeded %d walkers, want 16", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("walker %d = %+v and %+v, want identical", i, a[i], b[i])
		}
		if a[i].Location != sub.Start {
			t.Errorf("walker %d location = %d, want %d", i, a[i].Location, sub.Start)
		}
		if a[i].StepsRemaining < 0 || a[i].StepsRemaining >= 100 {
			t.Errorf("walker %d steps = %d, want [0, 100)", i, a[i].StepsRemaining)
		}
	}

	cfg.Worker = 3
	other := NewCoordinator(cfg, nil, nil, nil).seed(sub)
	same := true
	for i := range a {
		if a[i].StepsRemaining != other[i].StepsRemaining {
			same = false
		}
	}
	if same {
		t.Error("workers 2 and 3 drew identical step counts")
	}
}

func TestCoordinator_ZeroMaxWalk(t *testing.T) {
	cfg := CoordinatorConfig{Worker: 0, Workers: 1, DomainSize: 5, MaxWalkSize: 0, WalkersPerWorker: 3}
	walkers := NewCoordinator(cfg, nil, nil, nil).seed(domain.Subdomain{Start: 0, Size: 5})

	for i, w := range walkers {
		if w.StepsRemaining != 0 {
			t.Errorf("walker %d steps = %d, want 0", i, w.StepsRemaining)
		}
	}
}

func TestCoordinator_RankMismatch(t *testing.T) {
	ring, err := mem.NewRing(mem.Config{Workers: 3, Capacity: 1})
	if err != nil {
		t.Fatal(err)
	}
	defer ring.Close()

	c := NewCoordinator(CoordinatorConfig{Worker: 0, Workers: 3, DomainSize: 9, MaxWalkSize: 3, WalkersPerWorker: 1},
		ring.Endpoint(1), nil, nil)

	_, err = c.Run(context.Background())
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("Run() error = %v, want ErrConfiguration", err)
	}
	if c.Phase() != PhaseFailed {
		t.Errorf("Phase() = %v, want Failed", c.Phase())
	}
}

func TestCoordinator_InvalidPartition(t *testing.T) {
	h := &recordingHandler{}
	c := NewCoordinator(CoordinatorConfig{Worker: 0, Workers: 5, DomainSize: 4, MaxWalkSize: 3, WalkersPerWorker: 1},
		&failingChannel{rank: 0, size: 5}, nil, h)

	_, err := c.Run(context.Background())
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("Run() error = %v, want ErrConfiguration", err)
	}
	if h.inits != 0 || len(h.sends) != 0 {
		t.Errorf("worker communicated after configuration error: inits=%d sends=%d", h.inits, len(h.sends))
	}
}

func TestCoordinator_TransportFailure(t *testing.T) {
	c := NewCoordinator(CoordinatorConfig{Worker: 0, Workers: 2, DomainSize: 10, MaxWalkSize: 20, WalkersPerWorker: 2},
		&failingChannel{rank: 0, size: 2, err: domain.ErrTransportClosed}, nil, nil)

	_, err := c.Run(context.Background())
	if !errors.Is(err, domain.ErrTransportClosed) {
		t.Errorf("Run() error = %v, want ErrTransportClosed", err)
	}
	if c.Phase() != PhaseFailed {
		t.Errorf("Phase() = %v, want Failed", c.Phase())
	}
}

func TestCoordinator_ContextCanceled(t *testing.T) {
	// Odd worker receives first and blocks.
	c := NewCoordinator(CoordinatorConfig{Worker: 1, Workers: 2, DomainSize: 10, MaxWalkSize: 20, WalkersPerWorker: 2},
		&failingChannel{rank: 1, size: 2}, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() error = %v, want DeadlineExceeded", err)
	}
}
