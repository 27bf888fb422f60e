package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fwojciec/minerva"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the Minerva TUI. It reads session
// state exclusively through repository snapshots and re-renders whenever a
// turn signals an update, so the view never holds session state of its
// own.
type Model struct {
	// Input is the message input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable conversation area. Exported for test access.
	Viewport viewport.Model

	send   TurnFunc
	repo   *minerva.Repository
	theme  minerva.Theme
	styles Styles

	spin        spinner.Model
	updates     chan string
	active      map[string]struct{} // session ids with a turn in flight
	sidebarOpen bool
	width       int
	height      int
	err         error
	ready       bool
}

// New creates a new TUI Model. The repository must already be hydrated;
// the model assumes at least zero sessions and creates one on demand when
// the user submits with none current.
func New(send TurnFunc, repo *minerva.Repository, theme minerva.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Message Minerva..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		Input:       ti,
		send:        send,
		repo:        repo,
		theme:       theme,
		styles:      NewStyles(theme),
		spin:        spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		updates:     make(chan string, 256),
		active:      make(map[string]struct{}),
		sidebarOpen: true,
	}
}

// Err returns the last error, if any.
func (m Model) Err() error { return m.err }

// Generating reports whether the current session has a turn in flight.
func (m Model) Generating() bool {
	_, busy := m.active[m.repo.CurrentID()]
	return busy
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, listenForUpdate(m.updates))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case UpdateMsg:
		m = m.refresh()
		return m, listenForUpdate(m.updates)

	case TurnDoneMsg:
		delete(m.active, msg.SessionID)
		if msg.Err != nil && !errors.Is(msg.Err, minerva.ErrTurnInProgress) {
			m.err = msg.Err
		}
		return m.refresh(), nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if m.Generating() {
			m = m.refresh()
		}
		return m, cmd
	}

	// Pass remaining messages to sub-components. The viewport always
	// receives them for scrolling (keyboard and mouse).
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)
	if !m.Generating() {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	main := m.Viewport.View()
	if m.sidebarOpen {
		sidebar := renderSidebar(m.repo.Sessions(), m.repo.CurrentID(), m.Viewport.Height, m.styles)
		main = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
	}

	var b strings.Builder
	b.WriteString(main)
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	inputH := 1
	statusH := 1
	borderH := 2 // newlines between sections
	vpHeight := msg.Height - inputH - statusH - borderH
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.Viewport = viewport.New(m.conversationWidth(), vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = m.conversationWidth()
		m.Viewport.Height = vpHeight
	}
	m.Input.Width = msg.Width

	m = m.refresh()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEnter:
		if m.Generating() {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submitInput(text)

	case tea.KeyCtrlN:
		m.repo.CreateSession(context.Background())
		m.err = nil
		return m.refresh(), nil

	case tea.KeyCtrlX:
		m.repo.DeleteSession(context.Background(), m.repo.CurrentID())
		if m.repo.Len() == 0 {
			// Mirror startup behavior: an empty collection immediately
			// grows a fresh session.
			m.repo.CreateSession(context.Background())
		}
		m.err = nil
		return m.refresh(), nil

	case tea.KeyTab:
		return m.cycleSession(1), nil

	case tea.KeyShiftTab:
		return m.cycleSession(-1), nil

	case tea.KeyCtrlB:
		m.sidebarOpen = !m.sidebarOpen
		m.Viewport.Width = m.conversationWidth()
		return m.refresh(), nil
	}

	// When idle, pass keys to both the input (for typing) and the
	// viewport (for scrolling). Only non-character keys go to the
	// viewport to avoid conflicts with typed text.
	if !m.Generating() {
		var cmds []tea.Cmd
		var cmd tea.Cmd
		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

func (m Model) submitInput(text string) (tea.Model, tea.Cmd) {
	sessionID := m.repo.CurrentID()
	if sessionID == "" {
		sessionID = m.repo.CreateSession(context.Background())
	}
	m.Input.SetValue("")
	m.err = nil
	m.active[sessionID] = struct{}{}
	return m.refresh(), startTurn(m.send, sessionID, text, m.updates)
}

// cycleSession selects the next (or previous) session in enumeration
// order.
func (m Model) cycleSession(step int) Model {
	sessions := m.repo.Sessions()
	if len(sessions) < 2 {
		return m
	}
	current := m.repo.CurrentID()
	idx := 0
	for i, s := range sessions {
		if s.ID == current {
			idx = i
			break
		}
	}
	next := (idx + step + len(sessions)) % len(sessions)
	m.repo.SelectSession(sessions[next].ID)
	return m.refresh()
}

// refresh re-renders the conversation from the repository snapshot and
// keeps the view pinned to the newest message.
func (m Model) refresh() Model {
	if !m.ready {
		return m
	}
	m.Viewport.SetContent(m.renderConversation())
	m.Viewport.GotoBottom()
	return m
}

func (m Model) renderConversation() string {
	sess, ok := m.repo.CurrentSession()
	if !ok || len(sess.Messages) == 0 {
		return m.greeting()
	}
	blocks := make([]string, 0, len(sess.Messages))
	for _, msg := range sess.Messages {
		switch msg.Role {
		case minerva.RoleUser:
			blocks = append(blocks, renderUserMessage(msg, m.Viewport.Width, m.styles))
		case minerva.RoleAssistant:
			blocks = append(blocks, renderAssistantMessage(msg, m.Viewport.Width, m.theme, m.styles, m.spin.View()))
		}
	}
	return strings.Join(blocks, "\n\n")
}

func (m Model) greeting() string {
	return m.styles.Accent.Render("Hello, friend.") + "\n\n" +
		m.styles.Muted.Render("I'm Minerva. I can help you research, write, and plan\nusing the latest information from Google.")
}

func (m Model) conversationWidth() int {
	w := m.width
	if m.sidebarOpen {
		w -= sidebarWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) statusLine() string {
	if m.err != nil {
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.Generating() {
		return m.styles.Muted.Render("Generating...")
	}
	return m.styles.Muted.Render("Enter send · Tab switch chat · Ctrl+N new · Ctrl+X delete · Ctrl+B sidebar · Ctrl+C quit")
}
