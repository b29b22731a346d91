package domain

// Batch is an ordered collection of walkers held by one worker.
// Order carries no meaning.
type Batch []Walker

// NewBatch creates an empty batch with room for n walkers.
func NewBatch(n int) Batch {
	return make(Batch, 0, n)
}

// Len returns the number of walkers in the batch.
func (b Batch) Len() int {
	return len(b)
}

// Clone returns an independent copy of the batch. A nil batch clones to an
// empty, non-nil batch so that an empty message is still a message.
func (b Batch) Clone() Batch {
	out := make(Batch, len(b))
	copy(out, b)
	return out
}
