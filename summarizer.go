package minerva

import "context"

// DefaultTitle is the title a session carries until summarization
// replaces it.
const DefaultTitle = "New Conversation"

// Summarizer produces a short display title from a conversation's first
// user message.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}
