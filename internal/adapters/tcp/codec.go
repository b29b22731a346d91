package tcp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/bft-labs/ringwalk/internal/domain"
)

// Wire format of one batch:
//
//	uint32 count
//	count × { int64 location, int64 stepsRemaining }
//
// All integers are big-endian.
const (
	headerSize = 4
	recordSize = 16

	// MaxBatchWalkers bounds the count a header may announce.
	MaxBatchWalkers = 1 << 24
)

// ErrFrameTooLarge is returned when a header announces more than MaxBatchWalkers.
var ErrFrameTooLarge = errors.New("ringwalk: batch frame too large")

// EncodeBatch writes b as a single frame.
func EncodeBatch(w io.Writer, b domain.Batch) error {
	if b.Len() > MaxBatchWalkers {
		return fmt.Errorf("%w: %d walkers", ErrFrameTooLarge, b.Len())
	}

	buf := make([]byte, headerSize+recordSize*b.Len())
	binary.BigEndian.PutUint32(buf[:headerSize], uint32(b.Len()))
	off := headerSize
	for _, wk := range b {
		binary.BigEndian.PutUint64(buf[off:], uint64(int64(wk.Location)))
		binary.BigEndian.PutUint64(buf[off+8:], uint64(int64(wk.StepsRemaining)))
		off += recordSize
	}

	_, err := w.Write(buf)
	return err
}

// ReadHeader reads a frame header and returns the announced walker count.
func ReadHeader(r io.Reader) (int, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, fmt.Errorf("%w: short header", domain.ErrTruncatedBatch)
		}
		return 0, err
	}
	n := binary.BigEndian.Uint32(hdr[:])
	if n > MaxBatchWalkers {
		return 0, fmt.Errorf("%w: header announces %d walkers", ErrFrameTooLarge, n)
	}
	return int(n), nil
}

// ReadPayload reads exactly n walker records following a header.
func ReadPayload(r io.Reader, n int) (domain.Batch, error) {
	batch := make(domain.Batch, n)
	if n == 0 {
		return batch, nil
	}

	buf := make([]byte, recordSize*n)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: want %d walkers", domain.ErrTruncatedBatch, n)
		}
		return nil, err
	}
	for i := range batch {
		off := i * recordSize
		batch[i].Location = int(int64(binary.BigEndian.Uint64(buf[off:])))
		batch[i].StepsRemaining = int(int64(binary.BigEndian.Uint64(buf[off+8:])))
	}
	return batch, nil
}
