package minerva

import "context"

// Store is durable storage for the whole session collection. Writes are
// whole-collection replacements, not incremental patches. Load treats
// missing or corrupt underlying data as an empty collection rather than
// failing the caller; only I/O faults surface as errors.
type Store interface {
	Load(ctx context.Context) ([]ChatSession, error)
	Save(ctx context.Context, sessions []ChatSession) error
	Clear(ctx context.Context) error
}
