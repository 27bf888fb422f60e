package minerva

import "context"

// Provider is a strategy pattern interface for the model backend that
// turns a conversation history plus a new prompt into a stream of reply
// chunks.
type Provider interface {
	Stream(ctx context.Context, req Request) (ChunkStream, error)
}

// Request carries the conversation state for one turn.
// The provider uses its own defaults when fields are empty.
type Request struct {
	Model        string    // model ID, provider-specific; empty = provider default
	SystemPrompt string    // empty = provider default
	History      []Message // prior conversation, oldest first
	Prompt       string    // the new user message
}
