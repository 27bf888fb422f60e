package mock

import "github.com/fwojciec/minerva"

// Interface compliance check.
var _ minerva.ChunkStream = (*ChunkStream)(nil)

// ChunkStream is a test double for minerva.ChunkStream.
// NextFn panics when nil to catch missing setup. CloseFn is nil-safe
// (no-op) because test code commonly calls defer stream.Close() without
// needing custom behavior.
type ChunkStream struct {
	NextFn  func() (minerva.Chunk, error)
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *ChunkStream) Next() (minerva.Chunk, error) {
	return s.NextFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *ChunkStream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}
