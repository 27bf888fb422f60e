// Package bubbletea provides a Bubble Tea TUI for the Minerva chat client.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// TurnFunc runs one conversation turn against the given session. The
// onUpdate callback is called after every repository change during the
// turn. The function blocks until the turn completes or fails.
type TurnFunc func(ctx context.Context, sessionID, text string, onUpdate func()) error

// Run creates and runs the Bubble Tea TUI program. It blocks until the
// program exits. Cancelling the context quits the program.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// UpdateMsg signals that a turn mutated the named session and the view
// should re-read its repository snapshot.
type UpdateMsg struct {
	SessionID string
}

// TurnDoneMsg signals that a turn for the named session has completed.
type TurnDoneMsg struct {
	SessionID string
	Err       error
}

// startTurn runs one turn in a goroutine and signals completion. Update
// notifications are forwarded to the updates channel; drops under
// backpressure are fine because every update triggers a full snapshot
// re-read.
func startTurn(send TurnFunc, sessionID, text string, updates chan<- string) tea.Cmd {
	return func() tea.Msg {
		err := send(context.Background(), sessionID, text, func() {
			select {
			case updates <- sessionID:
			default:
			}
		})
		return TurnDoneMsg{SessionID: sessionID, Err: err}
	}
}

// listenForUpdate waits for the next update notification from any turn.
func listenForUpdate(updates <-chan string) tea.Cmd {
	return func() tea.Msg {
		return UpdateMsg{SessionID: <-updates}
	}
}
