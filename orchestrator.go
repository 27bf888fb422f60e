package minerva

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// FallbackReply replaces the in-flight assistant message when its stream
// fails. The failure surfaces to the user as this content and nothing else.
const FallbackReply = "I'm sorry, I encountered an error. Please try again."

// Orchestrator drives one assistant reply per conversation turn. At most
// one turn may be in flight per session; turns on different sessions are
// independent and proceed concurrently.
type Orchestrator struct {
	provider   Provider
	summarizer Summarizer
	repo       *Repository
	logger     zerolog.Logger

	mu       sync.Mutex
	inflight map[string]struct{} // session ids with an active turn
}

// NewOrchestrator creates an Orchestrator that mutates the given
// repository.
func NewOrchestrator(provider Provider, summarizer Summarizer, repo *Repository, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		provider:   provider,
		summarizer: summarizer,
		repo:       repo,
		logger:     logger,
		inflight:   make(map[string]struct{}),
	}
}

// InFlight reports whether the session has an active turn.
func (o *Orchestrator) InFlight(sessionID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, busy := o.inflight[sessionID]
	return busy
}

// SendMessage runs one conversation turn against the given session: it
// appends the user message and an assistant placeholder, then folds the
// provider's increments into the placeholder until the stream completes or
// fails. It blocks for the duration of the turn; run it in a goroutine when
// the caller must stay responsive.
//
// onUpdate, when non-nil, is invoked after every repository change so the
// presentation layer can re-read its snapshot.
//
// Returns ErrTurnInProgress when the session already has an active turn.
// Stream faults do not propagate: they finalize the placeholder with
// FallbackReply. Sending to a missing session is a no-op, and a session
// deleted mid-turn stops consumption with its remaining output discarded.
func (o *Orchestrator) SendMessage(ctx context.Context, sessionID, text string, onUpdate func()) error {
	if !o.begin(sessionID) {
		return ErrTurnInProgress
	}
	defer o.end(sessionID)

	session, ok := o.repo.Session(sessionID)
	if !ok {
		return nil
	}
	history := session.Messages
	first := len(history) == 0

	o.repo.AppendMessage(ctx, sessionID, NewUserMessage(text))
	notify(onUpdate)

	if first {
		go o.summarizeTitle(sessionID, text)
	}

	o.repo.AppendMessage(ctx, sessionID, NewPlaceholder())
	notify(onUpdate)

	stream, err := o.provider.Stream(ctx, Request{
		History: history,
		Prompt:  text,
	})
	if err != nil {
		o.fail(ctx, sessionID, err, onUpdate)
		return nil
	}
	defer stream.Close()

	var buf strings.Builder
	for {
		chunk, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			o.fail(ctx, sessionID, err, onUpdate)
			return nil
		}
		buf.WriteString(chunk.Text)
		o.repo.UpdateLastAssistantMessage(ctx, sessionID, buf.String(), chunk.Grounding)
		notify(onUpdate)
		if _, ok := o.repo.Session(sessionID); !ok {
			// Target deleted mid-stream. Further folds would be no-ops,
			// so stop consuming instead of draining wasted work.
			return nil
		}
	}

	// Final fold. Usually redundant with the last chunk's fold, but it
	// finalizes the placeholder even when the stream produced no chunks.
	o.repo.UpdateLastAssistantMessage(ctx, sessionID, buf.String(), nil)
	notify(onUpdate)
	return nil
}

// summarizeTitle is the fire-and-forget title turn for a session's first
// message. It never fails from the session's point of view: any error or
// empty result resolves to DefaultTitle, and applying the result to a
// since-deleted session is a no-op.
func (o *Orchestrator) summarizeTitle(sessionID, text string) {
	ctx := context.Background()
	title, err := o.summarizer.Summarize(ctx, text)
	if err != nil {
		o.logger.Warn().Err(err).Str("session", sessionID).Msg("title generation failed")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle
	}
	o.repo.UpdateSessionTitle(ctx, sessionID, title)
}

func (o *Orchestrator) fail(ctx context.Context, sessionID string, err error, onUpdate func()) {
	o.logger.Error().Err(err).Str("session", sessionID).Msg("reply stream failed")
	o.repo.UpdateLastAssistantMessage(ctx, sessionID, FallbackReply, nil)
	notify(onUpdate)
}

func (o *Orchestrator) begin(sessionID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.inflight[sessionID]; busy {
		return false
	}
	o.inflight[sessionID] = struct{}{}
	return true
}

func (o *Orchestrator) end(sessionID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.inflight, sessionID)
}

func notify(fn func()) {
	if fn != nil {
		fn()
	}
}
