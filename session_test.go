package minerva_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fwojciec/minerva"
)

func TestChatSession_Clone(t *testing.T) {
	t.Parallel()
	orig := minerva.ChatSession{
		ID:    "s",
		Title: "Original",
		Messages: []minerva.Message{
			minerva.NewUserMessage("one"),
			minerva.NewUserMessage("two"),
		},
	}

	clone := orig.Clone()
	clone.Messages[0].Content = "tampered"
	clone.Messages = append(clone.Messages, minerva.NewUserMessage("three"))

	assert.Equal(t, "one", orig.Messages[0].Content)
	assert.Len(t, orig.Messages, 2)
}
