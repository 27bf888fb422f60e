package bubbletea

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fwojciec/minerva"
	"github.com/fwojciec/minerva/markdown"
)

// renderUserMessage renders a user message with the "> " accent prefix.
func renderUserMessage(msg minerva.Message, width int, styles Styles) string {
	return styles.UserMsg.Render("> ") + wrap(msg.Content, width-2)
}

// renderAssistantMessage renders assistant markdown, a thinking indicator
// while the reply is still empty, and a sources footer for grounded
// replies.
func renderAssistantMessage(msg minerva.Message, width int, theme minerva.Theme, styles Styles, spin string) string {
	if msg.IsLoading && msg.Content == "" {
		return spin + " " + styles.Muted.Render("Thinking...")
	}
	out := markdown.Render(msg.Content, width, theme)
	if msg.IsLoading {
		out += " " + spin
	}
	if src := renderSources(msg.Grounding, styles); src != "" {
		out += "\n\n" + src
	}
	return out
}

// renderSources renders grounding citations as a numbered footer.
func renderSources(g *minerva.GroundingMetadata, styles Styles) string {
	if g == nil || len(g.Chunks) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(styles.Muted.Render("Sources"))
	for i, c := range g.Chunks {
		title := c.Title
		if title == "" {
			title = c.URI
		}
		sb.WriteString("\n")
		sb.WriteString(styles.Source.Render(fmt.Sprintf("[%d] %s", i+1, title)))
		if c.Title != "" && c.URI != "" {
			sb.WriteString(" " + styles.Muted.Render("("+c.URI+")"))
		}
	}
	return sb.String()
}

// wrap word-wraps plain text to width. User text is rendered verbatim,
// not as markdown.
func wrap(text string, width int) string {
	if width < 10 {
		width = 10
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
