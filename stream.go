package minerva

// Chunk is one increment of a streamed assistant reply: a text fragment
// plus optional citation metadata. Fragments are incremental, not
// cumulative; the consumer is responsible for accumulation.
type Chunk struct {
	Text      string
	Grounding *GroundingMetadata
}

// ChunkStream is a pull-based iterator over a reply's increments.
// Next returns io.EOF after the final chunk and a non-EOF error on
// transport or provider failure; both are terminal. Cancellation flows
// through the context passed to Provider.Stream. Close releases the
// underlying connection and is safe to call in any state.
type ChunkStream interface {
	Next() (Chunk, error)
	Close() error
}
