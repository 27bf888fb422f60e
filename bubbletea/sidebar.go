package bubbletea

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/fwojciec/minerva"
)

const sidebarWidth = 28

// renderSidebar renders the session list, most recent first, with the
// current session marked. Titles are truncated to the sidebar width.
func renderSidebar(sessions []minerva.ChatSession, currentID string, height int, styles Styles) string {
	var sb strings.Builder
	sb.WriteString(styles.Accent.Render("Minerva"))
	sb.WriteString("\n\n")
	for _, s := range sessions {
		title := runewidth.Truncate(s.Title, sidebarWidth-4, "…")
		if s.ID == currentID {
			sb.WriteString(styles.SidebarCurrent.Render("▸ " + title))
		} else {
			sb.WriteString(styles.Sidebar.Render("  " + title))
		}
		sb.WriteString("\n")
	}
	return lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(height).
		PaddingLeft(1).
		Render(strings.TrimRight(sb.String(), "\n"))
}
