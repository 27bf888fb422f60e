package minerva

import (
	"time"

	"github.com/google/uuid"
)

// GroundingChunk is one web citation backing part of an assistant reply.
type GroundingChunk struct {
	URI   string
	Title string
}

// GroundingMetadata carries the citations attached to an assistant reply
// when the provider grounded it in search results. Once attached to a
// message it is treated as immutable; updates replace the whole value.
type GroundingMetadata struct {
	Chunks           []GroundingChunk
	SearchEntryPoint string // provider-rendered search suggestion markup
}

// Message is one entry in a conversation. Messages are immutable once
// appended, with a single exception: the trailing assistant message of an
// active turn, whose Content is replaced wholesale with the accumulated
// text, Grounding merged (new value wins), and IsLoading cleared. IsLoading
// never transitions back to true.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time
	IsLoading bool
	Grounding *GroundingMetadata
}

// NewUserMessage creates a finalized user message.
func NewUserMessage(text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   text,
		Timestamp: time.Now(),
	}
}

// NewPlaceholder creates the empty assistant message appended at turn
// start. It is finalized in place as the reply streams in.
func NewPlaceholder() Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Timestamp: time.Now(),
		IsLoading: true,
	}
}
