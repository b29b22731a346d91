// Package tcp implements ports.MigrationChannel over TCP.
//
// Every worker listens on its own address, accepts exactly one connection
// from its ring predecessor and dials its ring successor. Batches travel as
// length-prefixed frames (see EncodeBatch), so the receiver learns a batch's
// size from the header before reading the payload.
package tcp

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/bft-labs/ringwalk/internal/domain"
	"github.com/bft-labs/ringwalk/internal/ports"
	"github.com/bft-labs/ringwalk/pkg/log"
)

// DefaultDialTimeout bounds how long Open waits for the ring to connect.
const DefaultDialTimeout = 10 * time.Second

// Config holds configuration for one TCP endpoint.
type Config struct {
	// Rank is this worker's index into Peers.
	Rank int

	// Peers lists the listen address of every worker, indexed by rank.
	Peers []string

	// Listener is an optional pre-bound listener for this rank. When nil,
	// Open listens on Peers[Rank].
	Listener net.Listener

	// DialTimeout bounds connection setup (default: 10s).
	DialTimeout time.Duration

	// Logger is for observability (optional).
	Logger log.Logger
}

// Endpoint is one worker's TCP connection pair on the ring.
// Send and Probe/Receive may be used from different goroutines, but each
// direction must only be used by one goroutine at a time.
type Endpoint struct {
	rank   int
	size   int
	logger log.Logger

	listener net.Listener
	in       net.Conn
	out      net.Conn
	reader   *bufio.Reader
	writer   *bufio.Writer

	pending int

	closeOnce sync.Once
	closed    chan struct{}
}

// Open binds this worker into the ring. It blocks until both the outgoing
// connection to the successor and the incoming connection from the
// predecessor are established.
func Open(ctx context.Context, cfg Config) (*Endpoint, error) {
	n := len(cfg.Peers)
	if n == 0 {
		return nil, fmt.Errorf("%w: no peers", domain.ErrConfiguration)
	}
	if cfg.Rank < 0 || cfg.Rank >= n {
		return nil, fmt.Errorf("%w: rank %d out of range [0, %d)", domain.ErrConfiguration, cfg.Rank, n)
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewNoopLogger()
	}

	ln := cfg.Listener
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", cfg.Peers[cfg.Rank])
		if err != nil {
			return nil, fmt.Errorf("listen %s: %w", cfg.Peers[cfg.Rank], err)
		}
	}

	setupCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()

	e := &Endpoint{
		rank:     cfg.Rank,
		size:     n,
		logger:   cfg.Logger,
		listener: ln,
		pending:  -1,
		closed:   make(chan struct{}),
	}

	type accepted struct {
		conn net.Conn
		err  error
	}
	acceptCh := make(chan accepted, 1)
	go func() {
		conn, err := e.acceptPredecessor()
		acceptCh <- accepted{conn, err}
	}()

	// abandon closes the listener and any predecessor connection the accept
	// goroutine still delivers.
	abandon := func() {
		_ = ln.Close()
		go func() {
			if a := <-acceptCh; a.conn != nil {
				_ = a.conn.Close()
			}
		}()
	}

	out, err := e.dialSuccessor(setupCtx, cfg.Peers[domain.Successor(cfg.Rank, n)])
	if err != nil {
		abandon()
		return nil, err
	}
	e.out = out
	e.writer = bufio.NewWriter(out)

	select {
	case a := <-acceptCh:
		if a.err != nil {
			_ = out.Close()
			_ = ln.Close()
			return nil, a.err
		}
		e.in = a.conn
		e.reader = bufio.NewReader(a.conn)
	case <-setupCtx.Done():
		_ = out.Close()
		abandon()
		return nil, fmt.Errorf("wait for predecessor: %w", setupCtx.Err())
	}

	e.logger.Debug("ring connected",
		log.Int("rank", e.rank),
		log.String("listen", ln.Addr().String()),
		log.String("successor", out.RemoteAddr().String()),
	)
	return e, nil
}

// dialSuccessor connects to the successor and announces this rank.
// Peers may not be listening yet, so dialing retries with backoff.
func (e *Endpoint) dialSuccessor(ctx context.Context, addr string) (net.Conn, error) {
	b := newBackoff(DefaultBackoffInitial, DefaultBackoffMax)
	var d net.Dialer
	for {
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err == nil {
			var hello [4]byte
			binary.BigEndian.PutUint32(hello[:], uint32(e.rank))
			if _, err := conn.Write(hello[:]); err != nil {
				_ = conn.Close()
				return nil, fmt.Errorf("handshake %s: %w", addr, err)
			}
			return conn, nil
		}

		e.logger.Debug("dial successor failed, retrying",
			log.String("addr", addr),
			log.Duration("backoff", b.Current()),
			log.Err(err),
		)
		if sleepErr := b.Sleep(ctx); sleepErr != nil {
			return nil, fmt.Errorf("dial %s: %w", addr, err)
		}
	}
}

// acceptPredecessor accepts the single inbound connection and checks that
// it comes from the ring predecessor.
func (e *Endpoint) acceptPredecessor() (net.Conn, error) {
	conn, err := e.listener.Accept()
	if err != nil {
		return nil, fmt.Errorf("accept: %w", err)
	}
	var hello [4]byte
	if _, err := io.ReadFull(conn, hello[:]); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("read handshake: %w", err)
	}
	from := int(binary.BigEndian.Uint32(hello[:]))
	if want := domain.Predecessor(e.rank, e.size); from != want {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: worker %d connected to %d, want %d", domain.ErrNotNeighbor, from, e.rank, want)
	}
	return conn, nil
}

// Rank returns the worker index of this endpoint.
func (e *Endpoint) Rank() int { return e.rank }

// Size returns the number of workers on the ring.
func (e *Endpoint) Size() int { return e.size }

// Send writes batch to the successor as one frame.
func (e *Endpoint) Send(ctx context.Context, to int, batch domain.Batch) error {
	if e.isClosed() {
		return domain.ErrTransportClosed
	}
	if want := domain.Successor(e.rank, e.size); to != want {
		return fmt.Errorf("%w: worker %d sends to %d, not %d", domain.ErrNotNeighbor, e.rank, want, to)
	}

	stop := watchContext(ctx, e.out.SetWriteDeadline)
	defer stop()

	if err := EncodeBatch(e.writer, batch); err != nil {
		return e.ioError(ctx, "send", err)
	}
	if err := e.writer.Flush(); err != nil {
		return e.ioError(ctx, "send", err)
	}
	return nil
}

// Probe reads the next frame header from the predecessor and returns its
// walker count. The payload stays unread until Receive.
func (e *Endpoint) Probe(ctx context.Context, from int) (int, error) {
	if err := e.checkSource(from); err != nil {
		return 0, err
	}
	if e.pending >= 0 {
		return e.pending, nil
	}

	stop := watchContext(ctx, e.in.SetReadDeadline)
	defer stop()

	n, err := ReadHeader(e.reader)
	if err != nil {
		return 0, e.ioError(ctx, "probe", err)
	}
	e.pending = n
	return n, nil
}

// Receive reads the next complete batch from the predecessor.
func (e *Endpoint) Receive(ctx context.Context, from int) (domain.Batch, error) {
	n, err := e.Probe(ctx, from)
	if err != nil {
		return nil, err
	}

	stop := watchContext(ctx, e.in.SetReadDeadline)
	defer stop()

	batch, err := ReadPayload(e.reader, n)
	e.pending = -1
	if err != nil {
		return nil, e.ioError(ctx, "receive", err)
	}
	return batch, nil
}

// Close closes both connections and the listener.
func (e *Endpoint) Close() error {
	var errs []error
	e.closeOnce.Do(func() {
		close(e.closed)
		for _, c := range []io.Closer{e.out, e.in, e.listener} {
			if c == nil {
				continue
			}
			if err := c.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}

func (e *Endpoint) isClosed() bool {
	select {
	case <-e.closed:
		return true
	default:
		return false
	}
}

func (e *Endpoint) checkSource(from int) error {
	if e.isClosed() {
		return domain.ErrTransportClosed
	}
	if want := domain.Predecessor(e.rank, e.size); from != want {
		return fmt.Errorf("%w: worker %d receives from %d, not %d", domain.ErrNotNeighbor, e.rank, want, from)
	}
	return nil
}

// ioError maps a connection error to the most useful error for the caller.
func (e *Endpoint) ioError(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if e.isClosed() || errors.Is(err, net.ErrClosed) || errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w", op, domain.ErrTransportClosed)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// watchContext unblocks pending I/O when ctx is done by moving the deadline
// into the past. The returned func stops watching and clears the deadline.
func watchContext(ctx context.Context, setDeadline func(time.Time) error) func() {
	if ctx.Done() == nil {
		return func() {}
	}
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		select {
		case <-ctx.Done():
			_ = setDeadline(time.Unix(1, 0))
		case <-done:
		}
	}()
	return func() {
		close(done)
		<-finished
		_ = setDeadline(time.Time{})
	}
}

// Ensure Endpoint implements ports.MigrationChannel.
var _ ports.MigrationChannel = (*Endpoint)(nil)
