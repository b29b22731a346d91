package app

import (
	"errors"
	"sync"
	"testing"

	"github.com/bft-labs/ringwalk/internal/domain"
)

// recordingHandler tracks events for testing.
type recordingHandler struct {
	BaseEventHandler

	mu       sync.Mutex
	phases   []phaseChange
	inits    int
	advances int
	sends    []int
	receives []int
	done     []domain.WorkerStats
}

type phaseChange struct {
	worker   int
	previous Phase
	current  Phase
}

func (h *recordingHandler) OnPhaseChange(worker int, previous, current Phase) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.phases = append(h.phases, phaseChange{worker, previous, current})
}

func (h *recordingHandler) OnInit(int, domain.Subdomain, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.inits++
}

func (h *recordingHandler) OnAdvance(int, int, int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.advances++
}

func (h *recordingHandler) OnSend(_, _, walkers int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sends = append(h.sends, walkers)
}

func (h *recordingHandler) OnReceive(_, _, walkers int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.receives = append(h.receives, walkers)
}

func (h *recordingHandler) OnDone(stats domain.WorkerStats) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.done = append(h.done, stats)
}

func (h *recordingHandler) Phases() []phaseChange {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]phaseChange{}, h.phases...)
}

func TestNewPhaseTracker(t *testing.T) {
	tr := NewPhaseTracker(0, nil, nil)

	if tr.Phase() != PhaseInit {
		t.Errorf("initial phase = %v, want PhaseInit", tr.Phase())
	}
}

func TestPhase_String(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseInit, "Init"},
		{PhaseAdvancing, "Advancing"},
		{PhaseEven, "EvenPhase"},
		{PhaseOdd, "OddPhase"},
		{PhaseDone, "Done"},
		{PhaseFailed, "Failed"},
		{Phase(99), "Unknown"},
	}

	for _, tt := range tests {
		got := tt.phase.String()
		if got != tt.want {
			t.Errorf("Phase(%d).String() = %s, want %s", tt.phase, got, tt.want)
		}
	}
}

func TestExchangePhase(t *testing.T) {
	for rank, want := range []Phase{PhaseEven, PhaseOdd, PhaseEven, PhaseOdd} {
		if got := ExchangePhase(rank); got != want {
			t.Errorf("ExchangePhase(%d) = %v, want %v", rank, got, want)
		}
	}
}

func TestPhaseTracker_TransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		worker  int
		path    []Phase
		wantErr bool
	}{
		{
			name:   "even worker full run",
			worker: 0,
			path:   []Phase{PhaseAdvancing, PhaseEven, PhaseAdvancing, PhaseEven, PhaseDone},
		},
		{
			name:   "odd worker full run",
			worker: 3,
			path:   []Phase{PhaseAdvancing, PhaseOdd, PhaseDone},
		},
		{
			name:   "fail from init",
			worker: 0,
			path:   []Phase{PhaseFailed},
		},
		{
			name:   "fail mid exchange",
			worker: 1,
			path:   []Phase{PhaseAdvancing, PhaseOdd, PhaseFailed},
		},
		{
			name:    "init cannot exchange",
			worker:  0,
			path:    []Phase{PhaseEven},
			wantErr: true,
		},
		{
			name:    "even worker cannot enter odd phase",
			worker:  0,
			path:    []Phase{PhaseAdvancing, PhaseOdd},
			wantErr: true,
		},
		{
			name:    "advancing cannot finish",
			worker:  0,
			path:    []Phase{PhaseAdvancing, PhaseDone},
			wantErr: true,
		},
		{
			name:    "done is terminal",
			worker:  1,
			path:    []Phase{PhaseAdvancing, PhaseOdd, PhaseDone, PhaseFailed},
			wantErr: true,
		},
		{
			name:    "failed is terminal",
			worker:  0,
			path:    []Phase{PhaseFailed, PhaseAdvancing},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &recordingHandler{}
			tr := NewPhaseTracker(tt.worker, nil, h)

			var err error
			for _, p := range tt.path {
				if err = tr.TransitionTo(p); err != nil {
					break
				}
			}

			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidTransition) {
					t.Fatalf("TransitionTo() error = %v, want ErrInvalidTransition", err)
				}
				if got := len(h.Phases()); got != len(tt.path)-1 {
					t.Errorf("events = %d, want %d", got, len(tt.path)-1)
				}
				return
			}
			if err != nil {
				t.Fatalf("TransitionTo() unexpected error: %v", err)
			}
			if tr.Phase() != tt.path[len(tt.path)-1] {
				t.Errorf("phase = %v, want %v", tr.Phase(), tt.path[len(tt.path)-1])
			}
		})
	}
}

func TestPhaseTracker_EmitsChanges(t *testing.T) {
	h := &recordingHandler{}
	tr := NewPhaseTracker(2, nil, h)

	if err := tr.TransitionTo(PhaseAdvancing); err != nil {
		t.Fatal(err)
	}
	if err := tr.TransitionTo(PhaseEven); err != nil {
		t.Fatal(err)
	}

	want := []phaseChange{
		{2, PhaseInit, PhaseAdvancing},
		{2, PhaseAdvancing, PhaseEven},
	}
	got := h.Phases()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
