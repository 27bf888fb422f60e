package json

import (
	"fmt"
	"time"

	"github.com/fwojciec/minerva"
)

// sessionDTO is the JSON representation of a ChatSession.
type sessionDTO struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Messages     []messageDTO `json:"messages"`
	CreatedAt    time.Time    `json:"created_at"`
	LastModified time.Time    `json:"last_modified"`
}

// messageDTO is the JSON representation of a Message.
type messageDTO struct {
	ID        string        `json:"id"`
	Role      string        `json:"role"`
	Content   string        `json:"content"`
	Timestamp time.Time     `json:"timestamp"`
	IsLoading bool          `json:"is_loading,omitempty"`
	Grounding *groundingDTO `json:"grounding,omitempty"`
}

type groundingDTO struct {
	Chunks           []groundingChunkDTO `json:"chunks,omitempty"`
	SearchEntryPoint string              `json:"search_entry_point,omitempty"`
}

type groundingChunkDTO struct {
	URI   string `json:"uri"`
	Title string `json:"title,omitempty"`
}

func marshalSession(s minerva.ChatSession) sessionDTO {
	dto := sessionDTO{
		ID:           s.ID,
		Title:        s.Title,
		Messages:     make([]messageDTO, len(s.Messages)),
		CreatedAt:    s.CreatedAt,
		LastModified: s.LastModified,
	}
	for i, msg := range s.Messages {
		dto.Messages[i] = marshalMessage(msg)
	}
	return dto
}

func unmarshalSession(dto sessionDTO) (minerva.ChatSession, error) {
	var msgs []minerva.Message
	for i, m := range dto.Messages {
		msg, err := unmarshalMessage(m)
		if err != nil {
			return minerva.ChatSession{}, fmt.Errorf("message %d: %w", i, err)
		}
		msgs = append(msgs, msg)
	}
	return minerva.ChatSession{
		ID:           dto.ID,
		Title:        dto.Title,
		Messages:     msgs,
		CreatedAt:    dto.CreatedAt,
		LastModified: dto.LastModified,
	}, nil
}

func marshalMessage(m minerva.Message) messageDTO {
	return messageDTO{
		ID:        m.ID,
		Role:      string(m.Role),
		Content:   m.Content,
		Timestamp: m.Timestamp,
		IsLoading: m.IsLoading,
		Grounding: marshalGrounding(m.Grounding),
	}
}

func unmarshalMessage(dto messageDTO) (minerva.Message, error) {
	role := minerva.Role(dto.Role)
	switch role {
	case minerva.RoleUser, minerva.RoleAssistant:
	default:
		return minerva.Message{}, fmt.Errorf("unknown role: %q", dto.Role)
	}
	return minerva.Message{
		ID:        dto.ID,
		Role:      role,
		Content:   dto.Content,
		Timestamp: dto.Timestamp,
		IsLoading: dto.IsLoading,
		Grounding: unmarshalGrounding(dto.Grounding),
	}, nil
}

func marshalGrounding(g *minerva.GroundingMetadata) *groundingDTO {
	if g == nil {
		return nil
	}
	dto := &groundingDTO{SearchEntryPoint: g.SearchEntryPoint}
	for _, c := range g.Chunks {
		dto.Chunks = append(dto.Chunks, groundingChunkDTO{URI: c.URI, Title: c.Title})
	}
	return dto
}

func unmarshalGrounding(dto *groundingDTO) *minerva.GroundingMetadata {
	if dto == nil {
		return nil
	}
	g := &minerva.GroundingMetadata{SearchEntryPoint: dto.SearchEntryPoint}
	for _, c := range dto.Chunks {
		g.Chunks = append(g.Chunks, minerva.GroundingChunk{URI: c.URI, Title: c.Title})
	}
	return g
}
