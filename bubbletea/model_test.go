package bubbletea_test

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/minerva"
	bt "github.com/fwojciec/minerva/bubbletea"
	"github.com/fwojciec/minerva/mock"
)

// nopTurn completes immediately without touching the repository.
func nopTurn(ctx context.Context, sessionID, text string, onUpdate func()) error {
	return nil
}

func newTestRepo(t *testing.T) *minerva.Repository {
	t.Helper()
	return minerva.NewRepository(&mock.Store{}, zerolog.Nop())
}

func initModel(t *testing.T, send bt.TurnFunc, repo *minerva.Repository) bt.Model {
	t.Helper()
	m := bt.New(send, repo, minerva.DefaultTheme())
	return updateModel(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

func TestNew(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	m := bt.New(nopTurn, repo, minerva.DefaultTheme())

	assert.False(t, m.Generating())
	assert.NoError(t, m.Err())
}

func TestModel_Update(t *testing.T) {
	t.Parallel()

	t.Run("window size initializes viewport", func(t *testing.T) {
		t.Parallel()
		repo := newTestRepo(t)
		repo.CreateSession(context.Background())
		m := bt.New(nopTurn, repo, minerva.DefaultTheme())

		assert.Equal(t, "Initializing...", m.View())

		m = updateModel(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

		// Sidebar is open by default, so the viewport gets the remainder.
		assert.Equal(t, 52, m.Viewport.Width)
		assert.Equal(t, 20, m.Viewport.Height) // 24 - input(1) - status(1) - gaps(2)
		assert.NotEmpty(t, m.View())
	})

	t.Run("resize updates viewport dimensions", func(t *testing.T) {
		t.Parallel()
		repo := newTestRepo(t)
		repo.CreateSession(context.Background())
		m := initModel(t, nopTurn, repo)

		m = updateModel(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

		assert.Equal(t, 92, m.Viewport.Width)
		assert.Equal(t, 36, m.Viewport.Height)
	})

	t.Run("ctrl+c quits", func(t *testing.T) {
		t.Parallel()
		m := initModel(t, nopTurn, newTestRepo(t))
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

		require.NotNil(t, cmd)
		_, isQuit := cmd().(tea.QuitMsg)
		assert.True(t, isQuit)
	})

	t.Run("enter with empty input does nothing", func(t *testing.T) {
		t.Parallel()
		called := false
		send := func(ctx context.Context, sessionID, text string, onUpdate func()) error {
			called = true
			return nil
		}
		repo := newTestRepo(t)
		repo.CreateSession(context.Background())
		m := initModel(t, send, repo)

		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = asModel(t, updated)
		assert.Nil(t, cmd)
		assert.False(t, called)
		assert.False(t, m.Generating())
	})

	t.Run("enter submits the input to the current session", func(t *testing.T) {
		t.Parallel()
		var gotSession, gotText string
		send := func(ctx context.Context, sessionID, text string, onUpdate func()) error {
			gotSession = sessionID
			gotText = text
			return nil
		}
		repo := newTestRepo(t)
		id := repo.CreateSession(context.Background())
		m := initModel(t, send, repo)
		m.Input.SetValue("hello world")

		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = asModel(t, updated)

		assert.True(t, m.Generating())
		assert.Empty(t, m.Input.Value())
		require.NotNil(t, cmd)

		// Executing the command runs the turn and yields completion.
		msg := cmd()
		done, ok := msg.(bt.TurnDoneMsg)
		require.True(t, ok)
		assert.Equal(t, id, done.SessionID)
		assert.NoError(t, done.Err)
		assert.Equal(t, id, gotSession)
		assert.Equal(t, "hello world", gotText)

		m = updateModel(t, m, done)
		assert.False(t, m.Generating())
	})

	t.Run("enter while generating is ignored", func(t *testing.T) {
		t.Parallel()
		calls := 0
		send := func(ctx context.Context, sessionID, text string, onUpdate func()) error {
			calls++
			return nil
		}
		repo := newTestRepo(t)
		repo.CreateSession(context.Background())
		m := initModel(t, send, repo)
		m.Input.SetValue("first")

		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = asModel(t, updated)
		require.NotNil(t, cmd)
		cmd()

		m.Input.SetValue("second")
		_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.Nil(t, cmd)
		assert.Equal(t, 1, calls)
	})

	t.Run("ctrl+n creates a new session", func(t *testing.T) {
		t.Parallel()
		repo := newTestRepo(t)
		first := repo.CreateSession(context.Background())
		m := initModel(t, nopTurn, repo)

		updateModel(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})

		assert.Equal(t, 2, repo.Len())
		assert.NotEqual(t, first, repo.CurrentID())
	})

	t.Run("ctrl+x deletes the current session", func(t *testing.T) {
		t.Parallel()
		repo := newTestRepo(t)
		first := repo.CreateSession(context.Background())
		second := repo.CreateSession(context.Background())
		m := initModel(t, nopTurn, repo)

		updateModel(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})

		assert.Equal(t, 1, repo.Len())
		assert.Equal(t, first, repo.CurrentID())
		_, ok := repo.Session(second)
		assert.False(t, ok)
	})

	t.Run("ctrl+x on the last session starts a fresh one", func(t *testing.T) {
		t.Parallel()
		repo := newTestRepo(t)
		only := repo.CreateSession(context.Background())
		m := initModel(t, nopTurn, repo)

		updateModel(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})

		assert.Equal(t, 1, repo.Len())
		assert.NotEqual(t, only, repo.CurrentID())
		assert.NotEmpty(t, repo.CurrentID())
	})

	t.Run("tab cycles sessions", func(t *testing.T) {
		t.Parallel()
		repo := newTestRepo(t)
		first := repo.CreateSession(context.Background())
		second := repo.CreateSession(context.Background())
		m := initModel(t, nopTurn, repo)
		require.Equal(t, second, repo.CurrentID())

		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyTab})
		assert.Equal(t, first, repo.CurrentID())

		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyTab})
		assert.Equal(t, second, repo.CurrentID())

		updateModel(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
		assert.Equal(t, first, repo.CurrentID())
	})

	t.Run("turn failure surfaces in the status line", func(t *testing.T) {
		t.Parallel()
		repo := newTestRepo(t)
		id := repo.CreateSession(context.Background())
		m := initModel(t, nopTurn, repo)

		m = updateModel(t, m, bt.TurnDoneMsg{SessionID: id, Err: assert.AnError})

		require.Error(t, m.Err())
		assert.Contains(t, m.View(), "Error")
	})

	t.Run("busy turn rejection is not an error", func(t *testing.T) {
		t.Parallel()
		repo := newTestRepo(t)
		id := repo.CreateSession(context.Background())
		m := initModel(t, nopTurn, repo)

		m = updateModel(t, m, bt.TurnDoneMsg{SessionID: id, Err: minerva.ErrTurnInProgress})

		assert.NoError(t, m.Err())
	})

	t.Run("update message re-reads the repository", func(t *testing.T) {
		t.Parallel()
		repo := newTestRepo(t)
		id := repo.CreateSession(context.Background())
		m := initModel(t, nopTurn, repo)

		repo.AppendMessage(context.Background(), id, minerva.NewUserMessage("fresh content"))
		updated, cmd := m.Update(bt.UpdateMsg{SessionID: id})
		m = asModel(t, updated)

		assert.Contains(t, m.Viewport.View(), "fresh content")
		// The listener re-arms after every update.
		assert.NotNil(t, cmd)
	})
}

func asModel(t *testing.T, model tea.Model) bt.Model {
	t.Helper()
	m, ok := model.(bt.Model)
	require.True(t, ok)
	return m
}

func TestModel_View(t *testing.T) {
	t.Parallel()

	t.Run("empty session shows the greeting", func(t *testing.T) {
		t.Parallel()
		repo := newTestRepo(t)
		repo.CreateSession(context.Background())
		m := initModel(t, nopTurn, repo)

		assert.Contains(t, m.View(), "Hello, friend.")
	})

	t.Run("sidebar lists session titles", func(t *testing.T) {
		t.Parallel()
		repo := newTestRepo(t)
		id := repo.CreateSession(context.Background())
		repo.UpdateSessionTitle(context.Background(), id, "Paris Trip")
		m := initModel(t, nopTurn, repo)

		view := m.View()
		assert.Contains(t, view, "Minerva")
		assert.Contains(t, view, "Paris Trip")
	})

	t.Run("ctrl+b hides the sidebar", func(t *testing.T) {
		t.Parallel()
		repo := newTestRepo(t)
		id := repo.CreateSession(context.Background())
		repo.UpdateSessionTitle(context.Background(), id, "Hidden Title")
		m := initModel(t, nopTurn, repo)

		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyCtrlB})

		assert.NotContains(t, m.View(), "Hidden Title")
		assert.Equal(t, 80, m.Viewport.Width)
	})

	t.Run("help line renders when idle", func(t *testing.T) {
		t.Parallel()
		repo := newTestRepo(t)
		repo.CreateSession(context.Background())
		m := initModel(t, nopTurn, repo)

		assert.Contains(t, m.View(), "Enter send")
	})
}

func TestModel_EndToEnd(t *testing.T) {
	t.Parallel()

	provider := &mock.Provider{
		StreamFn: func(ctx context.Context, req minerva.Request) (minerva.ChunkStream, error) {
			chunks := []minerva.Chunk{{Text: "Hello"}, {Text: "!"}}
			i := 0
			return &mock.ChunkStream{
				NextFn: func() (minerva.Chunk, error) {
					if i >= len(chunks) {
						return minerva.Chunk{}, io.EOF
					}
					c := chunks[i]
					i++
					return c, nil
				},
			}, nil
		},
	}
	summarizer := &mock.Summarizer{
		SummarizeFn: func(ctx context.Context, text string) (string, error) {
			return "Quick Chat", nil
		},
	}

	repo := minerva.NewRepository(&mock.Store{}, zerolog.Nop())
	id := repo.CreateSession(context.Background())
	orch := minerva.NewOrchestrator(provider, summarizer, repo, zerolog.Nop())

	m := bt.New(orch.SendMessage, repo, minerva.DefaultTheme())
	tm := teatest.NewTestModel(t, m,
		teatest.WithInitialTermSize(80, 24),
	)

	tm.Type("hi")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("Hello!")) &&
			bytes.Contains(out, []byte("Enter send"))
	}, teatest.WithDuration(5*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

	fm := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
	final, ok := fm.(bt.Model)
	require.True(t, ok)
	assert.False(t, final.Generating())
	assert.NoError(t, final.Err())

	sess, ok := repo.Session(id)
	require.True(t, ok)
	require.Len(t, sess.Messages, 2)
	assert.Equal(t, "hi", sess.Messages[0].Content)
	assert.Equal(t, "Hello!", sess.Messages[1].Content)
}
