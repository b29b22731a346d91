package app

import (
	"fmt"
	"io"
	"sync"

	"github.com/bft-labs/ringwalk/internal/domain"
)

// EventHandler observes worker progress. Handlers are called synchronously
// from worker goroutines and must be safe for concurrent use.
type EventHandler interface {
	OnPhaseChange(worker int, previous, current Phase)
	OnInit(worker int, sub domain.Subdomain, walkers int)
	// OnAdvance reports one round's walk: walkers that finished in the
	// subdomain and walkers leaving it.
	OnAdvance(worker, round, completed, exiting int)
	OnSend(worker, to, walkers int)
	OnReceive(worker, from, walkers int)
	OnDone(stats domain.WorkerStats)
}

// BaseEventHandler implements EventHandler with no-ops. Embed it to
// override only the callbacks you need.
type BaseEventHandler struct{}

func (BaseEventHandler) OnPhaseChange(int, Phase, Phase) {}
func (BaseEventHandler) OnInit(int, domain.Subdomain, int) {}
func (BaseEventHandler) OnAdvance(int, int, int, int) {}
func (BaseEventHandler) OnSend(int, int, int) {}
func (BaseEventHandler) OnReceive(int, int, int) {}
func (BaseEventHandler) OnDone(domain.WorkerStats) {}

// MultiHandler fans every event out to a list of handlers, in order.
type MultiHandler []EventHandler

func (m MultiHandler) OnPhaseChange(worker int, previous, current Phase) {
	for _, h := range m {
		h.OnPhaseChange(worker, previous, current)
	}
}

func (m MultiHandler) OnInit(worker int, sub domain.Subdomain, walkers int) {
	for _, h := range m {
		h.OnInit(worker, sub, walkers)
	}
}

func (m MultiHandler) OnAdvance(worker, round, completed, exiting int) {
	for _, h := range m {
		h.OnAdvance(worker, round, completed, exiting)
	}
}

func (m MultiHandler) OnSend(worker, to, walkers int) {
	for _, h := range m {
		h.OnSend(worker, to, walkers)
	}
}

func (m MultiHandler) OnReceive(worker, from, walkers int) {
	for _, h := range m {
		h.OnReceive(worker, from, walkers)
	}
}

func (m MultiHandler) OnDone(stats domain.WorkerStats) {
	for _, h := range m {
		h.OnDone(stats)
	}
}

// ProgressPrinter writes one human-readable line per worker event.
// Lines from different workers interleave, but each line is written whole.
type ProgressPrinter struct {
	BaseEventHandler

	mu sync.Mutex
	w  io.Writer
}

// NewProgressPrinter returns a printer writing to w.
func NewProgressPrinter(w io.Writer) *ProgressPrinter {
	return &ProgressPrinter{w: w}
}

func (p *ProgressPrinter) OnInit(worker int, sub domain.Subdomain, walkers int) {
	p.printf("Worker %d initiated %d walkers in subdomain %s\n", worker, walkers, sub)
}

func (p *ProgressPrinter) OnSend(worker, to, walkers int) {
	p.printf("Worker %d sending %d outgoing walkers to worker %d\n", worker, walkers, to)
}

func (p *ProgressPrinter) OnReceive(worker, _, walkers int) {
	p.printf("Worker %d received %d incoming walkers\n", worker, walkers)
}

func (p *ProgressPrinter) OnDone(stats domain.WorkerStats) {
	p.printf("Worker %d done\n", stats.Worker)
}

func (p *ProgressPrinter) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format, args...)
}
